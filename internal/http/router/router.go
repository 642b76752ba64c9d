package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-carrier-settlement/internal/http/handlers"
	mw "service-carrier-settlement/internal/http/middleware"
	"service-carrier-settlement/internal/http/middleware/ratelimit"
	"service-carrier-settlement/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
// The rate limiter guards only the mutating settlement and payment routes.
func New(
	logger logx.Logger,
	h *handlers.Handlers,
	stl *handlers.SettlementHandler,
	pay *handlers.PaymentHandler,
	rep *handlers.ReportingHandler,
	limiter *ratelimit.Middleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(mw.Observability(logger))

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Handler())
		}
		r.Post("/settlements/batch", stl.SettleBatch)
		r.Post("/settlements/reconcile", stl.ReconcileManual)
		r.Post("/payments", pay.Register)
	})

	r.Get("/carriers/{id}/balance", rep.Balance)
	r.Get("/carriers/{id}/pending", rep.Pending)

	r.NotFound(http.HandlerFunc(h.NotFound))

	return r
}
