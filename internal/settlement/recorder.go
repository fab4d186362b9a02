// Package settlement turns authenticated payment notifications into durable
// ledger entries exactly once. Idempotence comes from the storage layer's
// atomic conditional insert, not from in-process state, so multiple service
// instances can settle concurrently delivered duplicates safely.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/stripe"
)

// Outcome classifies one settle attempt.
type Outcome int

const (
	// OutcomeRecorded means the durable write succeeded for the first time.
	OutcomeRecorded Outcome = iota + 1
	// OutcomeAlreadyRecorded means a record for the intent already exists.
	// From the provider's perspective this is as good as Recorded.
	OutcomeAlreadyRecorded
	// OutcomeIgnored means the event is not one this pipeline settles.
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecorded:
		return "recorded"
	case OutcomeAlreadyRecorded:
		return "already_recorded"
	case OutcomeIgnored:
		return "ignored"
	}
	return "unknown"
}

// donationNamespace seeds deterministic donation ids so a redelivered
// notification always resolves to the same record id.
var donationNamespace = uuid.MustParse("b3a4f0d2-8c1e-4f6a-9d27-5e0c4178a9b6")

// DonationID derives the ledger id for an intent. Deterministic: the same
// intent can only ever map to one donation record.
func DonationID(intentID string) string {
	return uuid.NewSHA1(donationNamespace, []byte(intentID)).String()
}

// Options configures a Recorder.
type Options struct {
	Store          domain.DonationStore
	Currency       string
	StorageTimeout time.Duration
	Logger         *infra.Logger
}

// Recorder consumes verified payment events and records donations.
type Recorder struct {
	store    domain.DonationStore
	currency string
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewRecorder builds a Recorder around a donation store.
func NewRecorder(opts Options) *Recorder {
	timeout := opts.StorageTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	currency := opts.Currency
	if currency == "" {
		currency = "usd"
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Recorder{store: opts.Store, currency: currency, timeout: timeout, logger: logger}
}

// Settle records the donation carried by a verified event exactly once.
// Repeated calls for the same intent converge on one record: the first
// returns OutcomeRecorded, every later one OutcomeAlreadyRecorded. Event
// types other than payment success are ignored without touching storage.
// Storage failures surface as domain.ErrStorageUnavailable so the HTTP
// boundary withholds the ack and the provider redelivers.
func (r *Recorder) Settle(ctx context.Context, event *stripe.VerifiedEvent) (Outcome, error) {
	if event == nil || event.Type != stripe.EventPaymentSucceeded {
		return OutcomeIgnored, nil
	}

	rec, err := recordFromEvent(event, r.currency)
	if err != nil {
		// The metadata is provider-attested and will not change on
		// redelivery, so retrying cannot help.
		r.logger.Error().Err(err).Str("intent_id", event.Intent.ID).Msg("unattributable intent metadata")
		return OutcomeIgnored, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.store.InsertOnce(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrDuplicateOperation) {
			r.logger.Info().Str("intent_id", event.Intent.ID).Msg("duplicate settlement delivery")
			return OutcomeAlreadyRecorded, nil
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	r.logger.Info().
		Str("intent_id", event.Intent.ID).
		Str("donation_id", rec.ID).
		Int64("beneficiary_minor", rec.BeneficiaryAmount).
		Int64("platform_minor", rec.PlatformAmount).
		Msg("donation recorded")
	return OutcomeRecorded, nil
}

func recordFromEvent(event *stripe.VerifiedEvent, fallbackCurrency string) (*domain.DonationRecord, error) {
	intent := &event.Intent
	if intent.ID == "" {
		return nil, fmt.Errorf("event has no intent id")
	}

	meta := intent.Metadata
	platform, err := strconv.ParseInt(meta[stripe.MetaPlatformShare], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("platform share %q: %v", meta[stripe.MetaPlatformShare], err)
	}
	share, err := strconv.ParseInt(meta[stripe.MetaBeneficiaryShare], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("beneficiary share %q: %v", meta[stripe.MetaBeneficiaryShare], err)
	}
	if platform < 0 || share < 0 || platform+share <= 0 {
		return nil, fmt.Errorf("non-positive split %d/%d", platform, share)
	}

	var beneficiary *string
	if id := meta[stripe.MetaBeneficiaryID]; id != "" && id != stripe.NoBeneficiary {
		beneficiary = &id
	}

	currency := string(intent.Currency)
	if currency == "" {
		currency = fallbackCurrency
	}

	return &domain.DonationRecord{
		ID:                DonationID(intent.ID),
		BeneficiaryID:     beneficiary,
		BeneficiaryAmount: share,
		PlatformAmount:    platform,
		Currency:          currency,
		SourceIntentID:    intent.ID,
	}, nil
}
