package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/providers/stripe"
	"server/internal/settlement"
)

type fakeDonations struct {
	mu      sync.Mutex
	records map[string]*domain.DonationRecord
	calls   int
	failErr error
}

func newFakeDonations() *fakeDonations {
	return &fakeDonations{records: make(map[string]*domain.DonationRecord)}
}

func (f *fakeDonations) InsertOnce(_ context.Context, rec *domain.DonationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failErr != nil {
		return f.failErr
	}
	if _, exists := f.records[rec.SourceIntentID]; exists {
		return domain.ErrDuplicateOperation
	}
	stored := *rec
	stored.CreatedAt = time.Now()
	f.records[rec.SourceIntentID] = &stored
	return nil
}

func (f *fakeDonations) List(_ context.Context, filter domain.DonationFilter) ([]domain.DonationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.DonationRecord
	for _, rec := range f.records {
		if filter.BeneficiaryID != nil {
			if rec.BeneficiaryID == nil || *rec.BeneficiaryID != *filter.BeneficiaryID {
				continue
			}
		}
		items = append(items, *rec)
	}
	return items, nil
}

func (f *fakeDonations) Totals(context.Context) (*domain.LedgerTotals, error) {
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

type fakeProfiles struct {
	profiles map[string]*domain.Profile
	listErr  error
}

func newFakeProfiles(profiles ...*domain.Profile) *fakeProfiles {
	byID := make(map[string]*domain.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return &fakeProfiles{profiles: byID}
}

func (f *fakeProfiles) Create(_ context.Context, profile *domain.Profile) error {
	profile.ID = "11111111-2222-3333-4444-555555555555"
	profile.CreatedAt = time.Now()
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeProfiles) List(context.Context, string) ([]domain.Profile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var items []domain.Profile
	for _, p := range f.profiles {
		items = append(items, *p)
	}
	return items, nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

type fakeIntents struct {
	lastReq *stripe.IntentRequest
	intent  *stripe.Intent
	err     error
}

func (f *fakeIntents) CreateIntent(_ context.Context, req stripe.IntentRequest) (*stripe.Intent, error) {
	f.lastReq = &req
	if f.err != nil {
		return nil, f.err
	}
	if f.intent != nil {
		return f.intent, nil
	}
	return &stripe.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func newTestApp(store *fakeDonations) *App {
	return &App{
		Logger:           zerolog.Nop(),
		Recorder:         settlement.NewRecorder(settlement.Options{Store: store}),
		Donations:        store,
		WebhookSecret:    "whsec_handler_test",
		WebhookTolerance: stripe.DefaultTolerance,
	}
}
