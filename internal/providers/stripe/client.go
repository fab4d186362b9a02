package stripe

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	stripego "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"server/internal/domain"
	"server/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("stripe: secret key is required")

// Metadata keys attached to every payment intent at creation time. The
// settlement step reads the split back from these instead of trusting any
// client-submitted value a second time.
const (
	MetaBeneficiaryID    = "beneficiary_id"
	MetaPlatformShare    = "platform_share"
	MetaBeneficiaryShare = "beneficiary_share"

	// NoBeneficiary marks a platform-only donation in the metadata.
	NoBeneficiary = "none"
)

// Options configures the Stripe payment client.
type Options struct {
	APIKey         string
	Currency       string
	Backend        stripego.Backend
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client creates payment intents with Stripe.
type Client struct {
	intents  paymentintent.Client
	currency string
	timeout  time.Duration
	logger   zerolog.Logger
}

// IntentRequest captures the inputs for a new payment intent.
type IntentRequest struct {
	Amount           float64
	DonateToPlatform bool
	BeneficiaryID    string // empty for a platform-only donation
}

// Intent is the provider-side result needed by the payer's client.
type Intent struct {
	ID           string
	ClientSecret string
	Split        domain.Split
}

// NewClient builds a Stripe client. The backend is injectable for tests;
// when nil the default Stripe API backend is used.
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	backend := opts.Backend
	if backend == nil {
		backend = stripego.GetBackend(stripego.APIBackend)
	}

	currency := opts.Currency
	if currency == "" {
		currency = "usd"
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		intents:  paymentintent.Client{B: backend, Key: opts.APIKey},
		currency: currency,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// CreateIntent computes the beneficiary/platform split and creates a remote
// payment intent carrying it as metadata. The remote intent is the single
// source of truth for the split from here on. Remote failures surface as
// domain.ErrProviderUnavailable and are retryable by the caller.
func (c *Client) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	split, err := domain.ComputeSplit(req.Amount, req.DonateToPlatform)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	beneficiary := req.BeneficiaryID
	if beneficiary == "" {
		beneficiary = NoBeneficiary
	}

	params := &stripego.PaymentIntentParams{
		Params:   stripego.Params{Context: ctx},
		Amount:   stripego.Int64(split.TotalMinor),
		Currency: stripego.String(c.currency),
	}
	params.AddMetadata(MetaBeneficiaryID, beneficiary)
	params.AddMetadata(MetaPlatformShare, strconv.FormatInt(split.PlatformMinor, 10))
	params.AddMetadata(MetaBeneficiaryShare, strconv.FormatInt(split.BeneficiaryMinor, 10))

	pi, err := c.intents.New(params)
	if err != nil {
		c.logger.Error().Err(err).Int64("amount_minor", split.TotalMinor).Msg("create payment intent failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Split: split}, nil
}
