package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotelane/quotelane-backend/api/controllers"
	"github.com/quotelane/quotelane-backend/api/middleware"
	internalauth "github.com/quotelane/quotelane-backend/internal/auth"
	"github.com/quotelane/quotelane-backend/internal/customers"
	"github.com/quotelane/quotelane-backend/internal/employees"
	"github.com/quotelane/quotelane-backend/internal/purchaseorders"
	"github.com/quotelane/quotelane-backend/internal/quotes"
	"github.com/quotelane/quotelane-backend/pkg/auth/session"
	"github.com/quotelane/quotelane-backend/pkg/config"
	pkgdb "github.com/quotelane/quotelane-backend/pkg/db"
	"github.com/quotelane/quotelane-backend/pkg/logger"
	"github.com/quotelane/quotelane-backend/pkg/metrics"
	pkgredis "github.com/quotelane/quotelane-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP pkgdb.Pinger,
	redisP pkgredis.Pinger,
	sessions session.Checker,
	requestMetrics *metrics.RequestMetrics,
	authService internalauth.Service,
	employeeService employees.Service,
	quoteService quotes.Service,
	customerService customers.Service,
	purchaseOrderService purchaseorders.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(requestMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisP, logg))
	})

	if requestMetrics != nil {
		r.Method(http.MethodGet, "/metrics", requestMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/me", controllers.AuthMe(employeeService, logg))

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", controllers.QuoteCreate(quoteService, logg))
			r.Get("/", controllers.QuoteList(quoteService, logg))
			r.Get("/{quoteId}", controllers.QuoteGet(quoteService, logg))
			r.Patch("/{quoteId}", controllers.QuoteUpdate(quoteService, logg))

			r.Route("/{quoteId}/line-items", func(r chi.Router) {
				r.Post("/", controllers.LineItemCreate(quoteService, logg))
				r.Patch("/{itemId}", controllers.LineItemUpdate(quoteService, logg))
				r.Delete("/{itemId}", controllers.LineItemDelete(quoteService, logg))
			})

			r.Route("/{quoteId}/notes", func(r chi.Router) {
				r.Post("/", controllers.NoteCreate(quoteService, logg))
				r.Patch("/{noteId}", controllers.NoteUpdate(quoteService, logg))
				r.Delete("/{noteId}", controllers.NoteDelete(quoteService, logg))
			})

			r.Route("/{quoteId}/purchase-order", func(r chi.Router) {
				r.Post("/", controllers.PurchaseOrderSubmit(purchaseOrderService, logg))
				r.Post("/confirm", controllers.PurchaseOrderConfirm(purchaseOrderService, logg))
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(customerService, logg))
			r.Get("/{customerId}", controllers.CustomerGet(customerService, logg))
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Post("/", controllers.EmployeeCreate(employeeService, logg))
			r.Get("/", controllers.EmployeeList(employeeService, logg))
			r.Get("/{employeeId}", controllers.EmployeeGet(employeeService, logg))
			r.Patch("/{employeeId}", controllers.EmployeeUpdate(employeeService, logg))
			r.Delete("/{employeeId}", controllers.EmployeeDelete(employeeService, logg))
		})
	})

	return r
}
