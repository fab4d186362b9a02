package handlers

import (
	"io"
	"net/http"
	"time"

	"server/internal/providers/stripe"
)

// Webhook bodies above this size are not legitimate provider notifications.
const maxWebhookBody = 1 << 20

// PaymentWebhook receives payment-provider notifications. The body is read
// raw and verified byte-for-byte before any parsing happens; only then does
// the settlement step run. A 2xx acknowledges the delivery (including
// duplicates and ignored event types); authentication failures get a 4xx and
// storage failures a 5xx so the provider redelivers.
func (a *App) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable body")
		return
	}

	event, err := stripe.VerifyNotification(payload, r.Header.Get(stripe.SignatureHeader), a.WebhookSecret, a.WebhookTolerance, time.Now())
	if err != nil {
		a.Logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("webhook rejected")
		a.error(w, http.StatusBadRequest, "invalid_signature", "signature verification failed")
		return
	}

	outcome, err := a.Recorder.Settle(r.Context(), event)
	if err != nil {
		a.Logger.Error().Err(err).Str("event_type", event.Type).Msg("settlement failed")
		a.error(w, http.StatusServiceUnavailable, "storage_unavailable", "settlement could not be recorded")
		return
	}

	a.json(w, http.StatusOK, map[string]any{"received": true, "outcome": outcome.String()})
}
