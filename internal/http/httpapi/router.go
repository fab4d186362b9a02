package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS([]string{cfg.FrontendURL}))

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", app.ProfilesList)
		r.Post("/", app.ProfilesCreate)
	})

	r.With(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)).
		Post("/create-payment-intent", app.CreatePaymentIntent)

	// Never throttled: provider retries must always get through.
	r.Post("/webhook", app.PaymentWebhook)

	r.Route("/donations", func(r chi.Router) {
		r.Get("/", app.DonationsList)
		r.Get("/summary", app.DonationsSummary)
	})

	return r
}
