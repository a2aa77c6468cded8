package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cucina/internal/core"
	"cucina/internal/middleware/ratelimit"
	"cucina/internal/middleware/trace"

	"github.com/shopspring/decimal"
)

// Store is the persistence surface the handlers need. *storage.Repository
// satisfies it; tests plug in a fake.
type Store interface {
	Ping(ctx context.Context) error

	ListVendors(ctx context.Context) ([]core.Vendor, error)
	CreateVendor(ctx context.Context, v core.Vendor) (core.Vendor, error)
	UpdateVendor(ctx context.Context, id int64, patch core.VendorPatch) (core.Vendor, error)
	DeleteVendor(ctx context.Context, id int64) error

	ListItems(ctx context.Context) ([]core.ItemDetail, error)
	CreateItem(ctx context.Context, it core.Item) (core.Item, error)
	UpdateItem(ctx context.Context, id int64, patch core.ItemPatch) (core.Item, error)
	DeleteItemCascade(ctx context.Context, id int64) error
	UpsertInventory(ctx context.Context, itemID int64, onHand decimal.Decimal) (core.Inventory, error)

	ListWeeks(ctx context.Context, limit int) ([]core.WeekPlan, error)
	GetWeek(ctx context.Context, id int64) (core.WeekPlan, error)
	CreateWeek(ctx context.Context, start core.Date) (core.WeekPlan, error)
	GetWeekDetail(ctx context.Context, id int64) (core.WeekDetail, error)
	DeleteWeekCascade(ctx context.Context, id int64) error
	ListDayPlans(ctx context.Context, weekPlanID int64) ([]core.DayPlan, error)
	UpsertDayPlans(ctx context.Context, weekPlanID int64, days []core.DayPlan) error
	ListRequirements(ctx context.Context, weekPlanID int64) ([]core.RequirementDetail, error)
	UpsertRequirements(ctx context.Context, weekPlanID int64, reqs []core.WeeklyRequirement) error
	OnHandByItem(ctx context.Context, weekPlanID int64) (map[int64]decimal.Decimal, error)
}

// StatusChanger moves a week plan through its lifecycle. The services
// package provides the implementation that also emits the published event.
type StatusChanger interface {
	ChangeStatus(ctx context.Context, id int64, status core.WeekStatus) (core.WeekPlan, error)
}

const weeksPageSize = 25

type Server struct {
	http.Server
	store       Store
	weeks       StatusChanger
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	// Derived shopping lists are cached per week and invalidated on any
	// write that can change them.
	listCache *lruCache[[]core.ShoppingListRow]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, store Store, weeks StatusChanger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		store:            store,
		weeks:            weeks,
		rateLimiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:           trace.NewMiddleware(extractClientIP),
		listCache:        newLRUCache[[]core.ShoppingListRow](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}
	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /vendors", s.handleListVendors)
	mux.HandleFunc("POST /vendors", s.handleCreateVendor)
	mux.HandleFunc("PUT /vendors/{id}", s.handleUpdateVendor)
	mux.HandleFunc("DELETE /vendors/{id}", s.handleDeleteVendor)

	mux.HandleFunc("GET /items", s.handleListItems)
	mux.HandleFunc("POST /items", s.handleCreateItem)
	mux.HandleFunc("PUT /items/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /items/{id}", s.handleDeleteItem)
	mux.HandleFunc("PUT /inventory/{itemId}", s.handleUpsertInventory)

	mux.HandleFunc("GET /weeks", s.handleListWeeks)
	mux.HandleFunc("POST /weeks", s.handleCreateWeek)
	mux.HandleFunc("GET /weeks/{id}", s.handleGetWeek)
	mux.HandleFunc("PUT /weeks/{id}", s.handleUpdateWeekStatus)
	mux.HandleFunc("DELETE /weeks/{id}", s.handleDeleteWeek)
	mux.HandleFunc("GET /weeks/{id}/day-plans", s.handleListDayPlans)
	mux.HandleFunc("PUT /weeks/{id}/day-plans", s.handleUpsertDayPlans)
	mux.HandleFunc("GET /weeks/{id}/requirements", s.handleListRequirements)
	mux.HandleFunc("PUT /weeks/{id}/requirements", s.handleUpsertRequirements)
	mux.HandleFunc("GET /weeks/{id}/shopping-list", s.handleShoppingList)
	mux.HandleFunc("GET /weeks/{id}/shopping-list/export", s.handleShoppingListExport)

	s.Server.Handler = s.tracer.Middleware(s.withSecurityHeaders(s.withWriteRateLimit(mux)))
	return s
}

// withSecurityHeaders sets the usual hardening headers on every response.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// withWriteRateLimit applies the per-IP limiter to mutating methods only;
// read traffic from the planner UI is unthrottled.
func (s *Server) withWriteRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.rateLimiter.Allow(extractClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.listCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
