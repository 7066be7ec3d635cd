package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mariagaitan/condoflow-backend/api/controllers"
	"github.com/mariagaitan/condoflow-backend/api/middleware"
	"github.com/mariagaitan/condoflow-backend/internal/allocations"
	"github.com/mariagaitan/condoflow-backend/internal/charges"
	"github.com/mariagaitan/condoflow-backend/internal/ledgerview"
	"github.com/mariagaitan/condoflow-backend/internal/payments"
	"github.com/mariagaitan/condoflow-backend/internal/scope"
	"github.com/mariagaitan/condoflow-backend/pkg/config"
	"github.com/mariagaitan/condoflow-backend/pkg/logger"
	"github.com/mariagaitan/condoflow-backend/pkg/metrics"
	pkgredis "github.com/mariagaitan/condoflow-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *pkgredis.Client
	Scopes      *scope.Validator
	Charges     charges.Service
	Payments    payments.Service
	Allocations allocations.Service
	Ledger      ledgerview.Service
}

// NewRouter assembles the HTTP surface: health and metrics stay open,
// everything under /api/v1 requires a bearer token.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(),
		middleware.RequestID(d.Logger),
		middleware.Logging(),
		middleware.Metrics(),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.DB, d.Redis))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(d.Config.JWT))
		r.Use(middleware.Idempotency(d.Redis))

		r.Route("/buildings/{buildingID}", func(r chi.Router) {
			r.Route("/charges", func(r chi.Router) {
				r.Post("/", controllers.ChargeCreate(d.Charges, d.Scopes))
				r.Get("/", controllers.ChargeList(d.Charges, d.Scopes))
				r.Get("/{chargeID}", controllers.ChargeGet(d.Charges, d.Scopes))
				r.Patch("/{chargeID}", controllers.ChargeUpdate(d.Charges, d.Scopes))
				r.Delete("/{chargeID}", controllers.ChargeCancel(d.Charges, d.Scopes))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", controllers.PaymentSubmit(d.Payments, d.Scopes))
				r.Get("/", controllers.PaymentList(d.Payments, d.Scopes))
				r.Get("/{paymentID}", controllers.PaymentGet(d.Payments, d.Scopes))
				r.Patch("/{paymentID}/approve", controllers.PaymentApprove(d.Payments, d.Scopes))
				r.Patch("/{paymentID}/reject", controllers.PaymentReject(d.Payments, d.Scopes))
			})

			r.Route("/allocations", func(r chi.Router) {
				r.Post("/", controllers.AllocationCreate(d.Allocations, d.Scopes))
				r.Delete("/{allocationID}", controllers.AllocationDelete(d.Allocations, d.Scopes))
			})
		})

		r.Get("/units/{unitID}/ledger", controllers.UnitLedger(d.Ledger, d.Scopes))
	})

	return r
}
