package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	stripego "github.com/stripe/stripe-go/v74"

	"server/internal/domain"
)

// SignatureHeader carries the timestamped HMAC on every provider notification.
const SignatureHeader = "Stripe-Signature"

// EventPaymentSucceeded is the only event type the settlement pipeline acts on.
const EventPaymentSucceeded = "payment_intent.succeeded"

// DefaultTolerance bounds how far a notification timestamp may drift from the
// local clock before the notification is treated as a replay.
const DefaultTolerance = 5 * time.Minute

// VerifiedEvent is a notification whose origin has been authenticated.
// Everything on it, including the intent metadata, comes from the verified
// payload bytes and may be trusted by the settlement step.
type VerifiedEvent struct {
	Type   string
	Intent stripego.PaymentIntent
}

// VerifyNotification authenticates raw webhook bytes against the shared
// signing secret. The header format is "t=<unix>,v1=<hex hmac>"; the HMAC is
// SHA-256 over "<t>.<payload>". All rejections wrap domain.ErrAuthentication.
// The payload must be the exact bytes received on the wire; verification
// happens before any parsing.
func VerifyNotification(payload []byte, header, secret string, tolerance time.Duration, now time.Time) (*VerifiedEvent, error) {
	ts, candidates, err := parseSignatureHeader(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}

	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	drift := now.Sub(time.Unix(ts, 0))
	if drift < 0 {
		drift = -drift
	}
	if drift > tolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance window", domain.ErrAuthentication)
	}

	expected := computeSignature(ts, payload, secret)
	matched := false
	for _, candidate := range candidates {
		if hmac.Equal(candidate, expected) {
			matched = true
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: signature mismatch", domain.ErrAuthentication)
	}

	var event stripego.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed event payload", domain.ErrAuthentication)
	}

	verified := &VerifiedEvent{Type: event.Type}
	if event.Data != nil && len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &verified.Intent); err != nil {
			return nil, fmt.Errorf("%w: malformed intent object", domain.ErrAuthentication)
		}
	}
	if verified.Type == EventPaymentSucceeded && verified.Intent.ID == "" {
		return nil, fmt.Errorf("%w: succeeded event without intent id", domain.ErrAuthentication)
	}

	return verified, nil
}

// SignNotification produces a signature header for the given payload. Used to
// build authentic notifications in tests and local tooling.
func SignNotification(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(computeSignature(ts, payload, secret)))
}

func computeSignature(ts int64, payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (int64, [][]byte, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("missing signature header")
	}

	var ts int64
	var haveTS bool
	var candidates [][]byte
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("invalid timestamp %q", value)
			}
			ts = parsed
			haveTS = true
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				continue
			}
			candidates = append(candidates, sig)
		}
	}

	if !haveTS {
		return 0, nil, fmt.Errorf("signature header has no timestamp")
	}
	if len(candidates) == 0 {
		return 0, nil, fmt.Errorf("signature header has no v1 signature")
	}
	return ts, candidates, nil
}
