package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/domain"
)

type profileRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	Biodata  string `json:"biodata"`
	Purpose  string `json:"purpose"`
}

// ProfilesList returns beneficiary profiles, optionally by category.
func (a *App) ProfilesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Profiles.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		a.Logger.Error().Err(err).Msg("list profiles failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profiles")
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, p := range items {
		out = append(out, profileDTO(&p))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// ProfilesCreate registers a new beneficiary profile.
func (a *App) ProfilesCreate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Category == "" || req.Name == "" || req.Picture == "" || req.Biodata == "" || req.Purpose == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "all fields are required")
		return
	}

	profile := &domain.Profile{
		Category: req.Category,
		Name:     req.Name,
		Picture:  req.Picture,
		Biodata:  req.Biodata,
		Purpose:  req.Purpose,
	}
	if err := a.Profiles.Create(r.Context(), profile); err != nil {
		a.Logger.Error().Err(err).Msg("create profile failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create profile")
		return
	}
	a.json(w, http.StatusCreated, profileDTO(profile))
}

func profileDTO(p *domain.Profile) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"category":   p.Category,
		"name":       p.Name,
		"picture":    p.Picture,
		"biodata":    p.Biodata,
		"purpose":    p.Purpose,
		"created_at": p.CreatedAt,
	}
}
