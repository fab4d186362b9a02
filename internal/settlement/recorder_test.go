package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"

	stripego "github.com/stripe/stripe-go/v74"

	"server/internal/domain"
	"server/internal/providers/stripe"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string]*domain.DonationRecord
	calls   int
	failErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*domain.DonationRecord)}
}

func (f *fakeStore) InsertOnce(_ context.Context, rec *domain.DonationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failErr != nil {
		return f.failErr
	}
	if _, exists := f.records[rec.SourceIntentID]; exists {
		return domain.ErrDuplicateOperation
	}
	f.records[rec.SourceIntentID] = rec
	return nil
}

func (f *fakeStore) List(context.Context, domain.DonationFilter) ([]domain.DonationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.DonationRecord, 0, len(f.records))
	for _, rec := range f.records {
		items = append(items, *rec)
	}
	return items, nil
}

func (f *fakeStore) Totals(context.Context) (*domain.LedgerTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := &domain.LedgerTotals{}
	for _, rec := range f.records {
		totals.Count++
		totals.BeneficiaryMinor += rec.BeneficiaryAmount
		totals.PlatformMinor += rec.PlatformAmount
	}
	return totals, nil
}

func succeededEvent(intentID string) *stripe.VerifiedEvent {
	return &stripe.VerifiedEvent{
		Type: stripe.EventPaymentSucceeded,
		Intent: stripego.PaymentIntent{
			ID:       intentID,
			Currency: "usd",
			Metadata: map[string]string{
				stripe.MetaBeneficiaryID:    "prof-1",
				stripe.MetaPlatformShare:    "1000",
				stripe.MetaBeneficiaryShare: "9000",
			},
		},
	}
}

func TestSettleRecordsDonationOnce(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(Options{Store: store})

	outcome, err := recorder.Settle(context.Background(), succeededEvent("pi_1"))
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if outcome != OutcomeRecorded {
		t.Fatalf("outcome = %v, want recorded", outcome)
	}

	rec := store.records["pi_1"]
	if rec == nil {
		t.Fatal("no record written")
	}
	if rec.ID != DonationID("pi_1") {
		t.Fatalf("record id %q not derived from intent", rec.ID)
	}
	if rec.BeneficiaryAmount != 9000 || rec.PlatformAmount != 1000 {
		t.Fatalf("unexpected amounts: %+v", rec)
	}
	if rec.BeneficiaryID == nil || *rec.BeneficiaryID != "prof-1" {
		t.Fatalf("unexpected beneficiary: %v", rec.BeneficiaryID)
	}
	if rec.Currency != "usd" {
		t.Fatalf("unexpected currency: %q", rec.Currency)
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(Options{Store: store})
	event := succeededEvent("pi_1")

	if _, err := recorder.Settle(context.Background(), event); err != nil {
		t.Fatalf("first Settle returned error: %v", err)
	}
	for i := 0; i < 3; i++ {
		outcome, err := recorder.Settle(context.Background(), event)
		if err != nil {
			t.Fatalf("redelivery %d returned error: %v", i, err)
		}
		if outcome != OutcomeAlreadyRecorded {
			t.Fatalf("redelivery %d outcome = %v, want already_recorded", i, outcome)
		}
	}
	if len(store.records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(store.records))
	}
}

func TestSettleConcurrentDuplicatesYieldOneRecord(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(Options{Store: store})
	event := succeededEvent("pi_race")

	const n = 16
	outcomes := make(chan Outcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := recorder.Settle(context.Background(), event)
			if err != nil {
				t.Errorf("Settle returned error: %v", err)
				return
			}
			outcomes <- outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	var recorded, duplicate int
	for outcome := range outcomes {
		switch outcome {
		case OutcomeRecorded:
			recorded++
		case OutcomeAlreadyRecorded:
			duplicate++
		default:
			t.Fatalf("unexpected outcome %v", outcome)
		}
	}
	if recorded != 1 || duplicate != n-1 {
		t.Fatalf("recorded=%d duplicate=%d, want 1/%d", recorded, duplicate, n-1)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(store.records))
	}
}

func TestSettleIgnoresOtherEventTypes(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(Options{Store: store})

	event := succeededEvent("pi_1")
	event.Type = "payment_intent.payment_failed"

	outcome, err := recorder.Settle(context.Background(), event)
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if outcome != OutcomeIgnored {
		t.Fatalf("outcome = %v, want ignored", outcome)
	}
	if store.calls != 0 {
		t.Fatalf("storage was called %d times for an ignored event", store.calls)
	}
}

func TestSettlePropagatesStorageFailure(t *testing.T) {
	store := newFakeStore()
	store.failErr = errors.New("connection reset")
	recorder := NewRecorder(Options{Store: store})

	_, err := recorder.Settle(context.Background(), succeededEvent("pi_1"))
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("error = %v, want ErrStorageUnavailable", err)
	}
}

func TestSettleIgnoresUnattributableMetadata(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(Options{Store: store})

	event := succeededEvent("pi_1")
	event.Intent.Metadata[stripe.MetaPlatformShare] = "not-a-number"

	outcome, err := recorder.Settle(context.Background(), event)
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if outcome != OutcomeIgnored {
		t.Fatalf("outcome = %v, want ignored", outcome)
	}
	if len(store.records) != 0 {
		t.Fatal("a record was written for unattributable metadata")
	}
}

func TestSettleTreatsPlatformOnlyDonation(t *testing.T) {
	store := newFakeStore()
	recorder := NewRecorder(Options{Store: store})

	event := succeededEvent("pi_1")
	event.Intent.Metadata[stripe.MetaBeneficiaryID] = stripe.NoBeneficiary

	if _, err := recorder.Settle(context.Background(), event); err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if rec := store.records["pi_1"]; rec == nil || rec.BeneficiaryID != nil {
		t.Fatalf("expected record without beneficiary, got %+v", rec)
	}
}

func TestDonationIDIsDeterministic(t *testing.T) {
	if DonationID("pi_1") != DonationID("pi_1") {
		t.Fatal("same intent produced different donation ids")
	}
	if DonationID("pi_1") == DonationID("pi_2") {
		t.Fatal("different intents produced the same donation id")
	}
}
