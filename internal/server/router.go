package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alamin00006/business-management/internal/config"
	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health        handler.HealthHandler
	Auth          handler.AuthHandler
	Products      handler.ProductHandler
	Categories    handler.CategoryHandler
	Brands        handler.BrandHandler
	Branches      handler.BranchHandler
	Suppliers     handler.SupplierHandler
	Customers     handler.CustomerHandler
	Stock         handler.StockHandler
	Purchases     handler.PurchaseHandler
	Sales         handler.SaleHandler
	Returns       handler.SaleReturnHandler
	Loyalty       handler.LoyaltyHandler
	Expenses      handler.ExpenseHandler
	Settings      handler.SettingsHandler
	Notifications handler.NotificationHandler
	Reports       handler.ReportHandler
	Users         handler.UserHandler
}

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	h.Health.RegisterRoutes(r)
	h.Auth.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		// staff-level (staff/manager/admin)
		pr.Group(func(sr chi.Router) {
			sr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleStaff))
			h.Products.RegisterRoutes(sr)
			h.Categories.RegisterRoutes(sr)
			h.Brands.RegisterRoutes(sr)
			h.Customers.RegisterRoutes(sr)
			h.Sales.RegisterRoutes(sr)
			h.Returns.RegisterRoutes(sr)
			h.Loyalty.RegisterRoutes(sr)
			h.Notifications.RegisterRoutes(sr)
		})
		// manager-level (manager/admin)
		pr.Group(func(mr chi.Router) {
			mr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager))
			h.Branches.RegisterRoutes(mr)
			h.Suppliers.RegisterRoutes(mr)
			h.Stock.RegisterRoutes(mr)
			h.Purchases.RegisterRoutes(mr)
			h.Expenses.RegisterRoutes(mr)
			h.Settings.RegisterRoutes(mr)
			h.Reports.RegisterRoutes(mr)
			h.Users.RegisterRoutes(mr)
		})
	})

	return r
}
