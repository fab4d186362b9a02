package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/providers/stripe"
	"server/internal/settlement"
)

// IntentCreator is the slice of the payment provider the handlers need.
type IntentCreator interface {
	CreateIntent(ctx context.Context, req stripe.IntentRequest) (*stripe.Intent, error)
}

// Settler consumes authenticated notifications.
type Settler interface {
	Settle(ctx context.Context, event *stripe.VerifiedEvent) (settlement.Outcome, error)
}

// App is the handler container wiring HTTP routes to the settlement core.
type App struct {
	Logger    zerolog.Logger
	Intents   IntentCreator
	Recorder  Settler
	Donations domain.DonationStore
	Profiles  domain.ProfileStore

	WebhookSecret    string
	WebhookTolerance time.Duration
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{"error": code, "message": message})
}

// minorToDecimal renders a minor-unit amount in decimal currency units for
// API responses.
func minorToDecimal(minor int64) float64 {
	return float64(minor) / 100
}
