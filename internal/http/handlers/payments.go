package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/providers/stripe"
)

type createIntentRequest struct {
	Amount           json.Number `json:"amount"`
	DonateToPlatform bool        `json:"donateToPlatform"`
	BeneficiaryID    string      `json:"beneficiaryId"`
}

// CreatePaymentIntent computes the donation split and mints a provider-side
// payment intent carrying it as metadata. The response holds the client
// secret the payer's browser needs to complete the charge.
func (a *App) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req createIntentRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	amount, err := req.Amount.Float64()
	if err != nil || amount <= 0 {
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive number")
		return
	}

	if req.BeneficiaryID != "" {
		if _, err := uuid.Parse(req.BeneficiaryID); err != nil {
			a.error(w, http.StatusBadRequest, "invalid_beneficiary", "unknown beneficiary")
			return
		}
		if _, err := a.Profiles.GetByID(r.Context(), req.BeneficiaryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				a.error(w, http.StatusBadRequest, "invalid_beneficiary", "unknown beneficiary")
				return
			}
			a.Logger.Error().Err(err).Msg("beneficiary lookup failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load beneficiary")
			return
		}
	}

	intent, err := a.Intents.CreateIntent(r.Context(), stripe.IntentRequest{
		Amount:           amount,
		DonateToPlatform: req.DonateToPlatform,
		BeneficiaryID:    req.BeneficiaryID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive number")
			return
		}
		a.Logger.Error().Err(err).Msg("create payment intent failed")
		a.error(w, http.StatusBadGateway, "provider_unavailable", "payment intent creation failed")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"clientSecret": intent.ClientSecret,
		"intentId":     intent.ID,
	})
}
