package handlers

import (
	"net/http"
	"strconv"

	"server/internal/domain"
)

// DonationsList serves the settled-donation ledger, optionally filtered by
// beneficiary. Read-only.
func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	filter := domain.DonationFilter{Limit: 50}
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("beneficiary"); v != "" {
		filter.BeneficiaryID = &v
	}

	items, err := a.Donations.List(r.Context(), filter)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list donations failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, d := range items {
		out = append(out, map[string]any{
			"id":                 d.ID,
			"beneficiary_id":     d.BeneficiaryID,
			"beneficiary_amount": minorToDecimal(d.BeneficiaryAmount),
			"platform_amount":    minorToDecimal(d.PlatformAmount),
			"currency":           d.Currency,
			"source_intent_id":   d.SourceIntentID,
			"created_at":         d.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// DonationsSummary serves ledger aggregates.
func (a *App) DonationsSummary(w http.ResponseWriter, r *http.Request) {
	totals, err := a.Donations.Totals(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("ledger totals failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load summary")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"count":             totals.Count,
		"beneficiary_total": minorToDecimal(totals.BeneficiaryMinor),
		"platform_total":    minorToDecimal(totals.PlatformMinor),
	})
}
