package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/metrics"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/service"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/store"
	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
	"github.com/aussiebroadwan/moneymanager/pkg/slogx"
)

// BasePath prefixes every API route. Probes and metrics live at the root.
const BasePath = "/api/v1.0"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	TokenService     *service.TokenService
	ProfileService   *service.ProfileService
	CategoryService  *service.CategoryService
	IncomeService    *service.LedgerService
	ExpenseService   *service.LedgerService
	DashboardService *service.DashboardService
	ExportService    *service.ExportService
}

func NewRouter(buildVersion string, st store.Store, tokens *service.TokenService, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		TokenService: tokens,
	}

	// Request logging, then the authentication gate. Metrics must wrap the
	// mux directly to see the matched pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.AuthnMiddleware(tokens.Verifier(), r.resolvePrincipal),
		metrics.InstrumentHandler,
	}

	return r
}

// resolvePrincipal maps a token subject (the profile email) to the stored
// profile.
func (r *Router) resolvePrincipal(ctx context.Context, subject string) (httpx.Principal, error) {
	profile, err := r.ProfileService.GetByEmail(ctx, subject)
	if err != nil {
		return httpx.Principal{}, err
	}
	return httpx.Principal{ProfileID: profile.ID, Email: profile.Email}, nil
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	r.registerProfiles()
	r.registerCategories()
	r.registerLedger(domain.KindIncome, r.IncomeService)
	r.registerLedger(domain.KindExpense, r.ExpenseService)
	r.registerFilter()
	r.registerDashboard()
	r.registerExports()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// protected requires a bound identity and limits per profile.
func protected(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.RequireIdentity(),
		httpx.RateLimitByProfile(limit),
	)
}

func (r *Router) registerSystem() {
	status := httpx.Chain(StatusHandler(), httpx.RateLimitByIP(httpx.PublicLimit))
	r.Mux.Handle("GET "+BasePath+"/status", status)
	r.Mux.Handle("GET "+BasePath+"/about", status)

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", metrics.Handler())
}

func (r *Router) registerProfiles() {
	h := &ProfileHandler{ProfileService: r.ProfileService}

	// Credential endpoints - strict rate limit by IP
	r.Mux.Handle("POST "+BasePath+"/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister), httpx.RateLimitByIP(httpx.StrictLimit)),
	)
	r.Mux.Handle("GET "+BasePath+"/activate",
		httpx.Chain(http.HandlerFunc(h.HandleActivate), httpx.RateLimitByIP(httpx.StrictLimit)),
	)
	r.Mux.Handle("POST "+BasePath+"/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin), httpx.RateLimitByIP(httpx.StrictLimit)),
	)

	r.Mux.Handle("GET "+BasePath+"/profile", protected(http.HandlerFunc(h.HandleProfile), httpx.LenientLimit))
}

func (r *Router) registerCategories() {
	h := &CategoryHandler{CategoryService: r.CategoryService}

	r.Mux.Handle("POST "+BasePath+"/categories", protected(http.HandlerFunc(h.HandleCreate), httpx.LenientLimit))
	r.Mux.Handle("GET "+BasePath+"/categories", protected(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET "+BasePath+"/categories/{type}", protected(http.HandlerFunc(h.HandleListByType), httpx.LenientLimit))
	r.Mux.Handle("PUT "+BasePath+"/categories/{categoryId}", protected(http.HandlerFunc(h.HandleUpdate), httpx.LenientLimit))
}

func (r *Router) registerLedger(kind domain.Kind, ledger *service.LedgerService) {
	h := &TransactionHandler{LedgerService: ledger}
	base := BasePath + "/" + kind.Plural()

	r.Mux.Handle("POST "+base, protected(http.HandlerFunc(h.HandleCreate), httpx.LenientLimit))
	r.Mux.Handle("GET "+base, protected(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("DELETE "+base+"/{id}", protected(http.HandlerFunc(h.HandleDelete), httpx.LenientLimit))
}

func (r *Router) registerFilter() {
	h := &FilterHandler{Incomes: r.IncomeService, Expenses: r.ExpenseService}
	r.Mux.Handle("POST "+BasePath+"/filter", protected(h, httpx.LenientLimit))
}

func (r *Router) registerDashboard() {
	h := &DashboardHandler{DashboardService: r.DashboardService}
	r.Mux.Handle("GET "+BasePath+"/dashboard", protected(h, httpx.LenientLimit))
}

func (r *Router) registerExports() {
	// Workbook rendering and mail - moderate rate limit by profile
	for _, kind := range domain.Kinds {
		download := &ExcelHandler{ExportService: r.ExportService, Kind: kind}
		r.Mux.Handle("GET "+BasePath+"/excel/download/"+kind.Plural(), protected(download, httpx.ModerateLimit))

		email := &EmailHandler{ExportService: r.ExportService, ProfileService: r.ProfileService, Kind: kind}
		r.Mux.Handle("GET "+BasePath+"/email/"+kind.String()+"-excel", protected(email, httpx.ModerateLimit))
	}
}
