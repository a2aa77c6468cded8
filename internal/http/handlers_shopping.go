package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"cucina/internal/core"
	"cucina/internal/export"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// shoppingList returns the derived buy list for a week, serving from the
// cache when possible. Requirements and on-hand quantities are fetched
// concurrently; the derivation itself is pure.
func (s *Server) shoppingList(ctx context.Context, weekID int64) ([]core.ShoppingListRow, error) {
	key := strconv.FormatInt(weekID, 10)
	if rows, ok := s.listCache.Get(key); ok {
		return rows, nil
	}

	var (
		reqs   []core.RequirementDetail
		onHand map[int64]decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reqs, err = s.store.ListRequirements(gctx, weekID)
		return err
	})
	g.Go(func() error {
		var err error
		onHand, err = s.store.OnHandByItem(gctx, weekID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := core.BuildShoppingList(reqs, onHand)
	s.listCache.Set(key, rows)
	return rows, nil
}

func (s *Server) handleShoppingList(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	rows, err := s.shoppingList(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed building shopping list", "error", err, "week_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to build shopping list")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleShoppingListExport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "print" {
		writeError(w, http.StatusBadRequest, "format must be csv or print")
		return
	}

	week, err := s.store.GetWeek(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed fetching week for export", "error", err, "week_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch week")
		return
	}
	rows, err := s.shoppingList(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed building shopping list", "error", err, "week_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to build shopping list")
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=shopping-list-week-%d.csv", week.ID))
		if err := export.WriteCSV(w, rows); err != nil {
			slog.ErrorContext(r.Context(), "Failed writing CSV export", "error", err, "week_id", id)
		}
	case "print":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := export.RenderPrintable(w, week, core.GroupByVendor(rows)); err != nil {
			slog.ErrorContext(r.Context(), "Failed rendering printable export", "error", err, "week_id", id)
		}
	}
}
