package domain

import "time"

// Profile is a beneficiary listed in the donation directory.
type Profile struct {
	ID        string
	Category  string
	Name      string
	Picture   string
	Biodata   string
	Purpose   string
	CreatedAt time.Time
}
