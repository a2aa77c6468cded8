package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cucina/internal/amqp"
	"cucina/internal/core"
	"cucina/internal/storage"

	"github.com/shopspring/decimal"
)

type fakeWriter struct {
	appended [][]core.ShoppingListRow
	err      error
}

func (f *fakeWriter) AppendShoppingList(ctx context.Context, week core.WeekPlan, rows []core.ShoppingListRow) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, rows)
	return nil
}

func setup(t *testing.T) (*storage.Repository, core.WeekPlan) {
	t.Helper()
	ctx := context.Background()

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "cucina.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	item, err := repo.CreateItem(ctx, core.Item{Name: "Milk", Unit: core.UnitLiter})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if _, err := repo.UpsertInventory(ctx, item.ID, decimal.NewFromInt(4)); err != nil {
		t.Fatalf("UpsertInventory: %v", err)
	}
	week, err := repo.CreateWeek(ctx, core.NewDate(2024, 6, 3))
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	err = repo.UpsertRequirements(ctx, week.ID, []core.WeeklyRequirement{
		{ItemID: item.ID, RequiredQty: decimal.NewFromInt(10)},
	})
	if err != nil {
		t.Fatalf("UpsertRequirements: %v", err)
	}
	week, err = repo.UpdateWeekStatus(ctx, week.ID, core.StatusPublished)
	if err != nil {
		t.Fatalf("UpdateWeekStatus: %v", err)
	}
	return repo, week
}

func TestHandleWeekPublished(t *testing.T) {
	repo, week := setup(t)
	ctx := context.Background()

	writer := &fakeWriter{}
	w := NewExportWorker(repo, writer, 10)

	msg := amqp.NewWeekPublishedMessage(week.ID, week.StartDate.String())
	if err := w.HandleWeekPublished(ctx, msg); err != nil {
		t.Fatalf("HandleWeekPublished: %v", err)
	}

	if len(writer.appended) != 1 {
		t.Fatalf("appended %d lists, want 1", len(writer.appended))
	}
	rows := writer.appended[0]
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if !rows[0].ToBuy.Equal(decimal.NewFromInt(6)) {
		t.Errorf("to_buy = %s, want 6", rows[0].ToBuy)
	}

	// Export marks the week done so the retry sweep skips it.
	pending, err := repo.ListUnexportedPublishedWeeks(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnexportedPublishedWeeks: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("got %d pending weeks after export, want 0", len(pending))
	}
}

func TestHandleWeekPublished_RedeliveredMessageExportsOnce(t *testing.T) {
	repo, week := setup(t)
	ctx := context.Background()

	writer := &fakeWriter{}
	w := NewExportWorker(repo, writer, 10)

	msg := amqp.NewWeekPublishedMessage(week.ID, week.StartDate.String())
	if err := w.HandleWeekPublished(ctx, msg); err != nil {
		t.Fatalf("HandleWeekPublished: %v", err)
	}
	if err := w.HandleWeekPublished(ctx, msg); err != nil {
		t.Fatalf("redelivered HandleWeekPublished: %v", err)
	}

	if len(writer.appended) != 1 {
		t.Fatalf("appended %d lists for a redelivered message, want 1", len(writer.appended))
	}
}

func TestHandleWeekPublished_SkipsNonPublished(t *testing.T) {
	repo, week := setup(t)
	ctx := context.Background()

	if _, err := repo.UpdateWeekStatus(ctx, week.ID, core.StatusClosed); err != nil {
		t.Fatalf("UpdateWeekStatus: %v", err)
	}

	writer := &fakeWriter{}
	w := NewExportWorker(repo, writer, 10)

	msg := amqp.NewWeekPublishedMessage(week.ID, week.StartDate.String())
	if err := w.HandleWeekPublished(ctx, msg); err != nil {
		t.Fatalf("HandleWeekPublished: %v", err)
	}
	if len(writer.appended) != 0 {
		t.Fatalf("expected no export for closed week, got %d", len(writer.appended))
	}
}

func TestProcessPendingWeeks(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	writer := &fakeWriter{}
	w := NewExportWorker(repo, writer, 10)

	if err := w.ProcessPendingWeeks(ctx); err != nil {
		t.Fatalf("ProcessPendingWeeks: %v", err)
	}
	if len(writer.appended) != 1 {
		t.Fatalf("appended %d lists, want 1", len(writer.appended))
	}

	// Second sweep finds nothing.
	if err := w.ProcessPendingWeeks(ctx); err != nil {
		t.Fatalf("ProcessPendingWeeks: %v", err)
	}
	if len(writer.appended) != 1 {
		t.Fatalf("re-exported an already exported week")
	}
}

func TestProcessPendingWeeks_WriterFailureLeavesPending(t *testing.T) {
	repo, week := setup(t)
	ctx := context.Background()

	writer := &fakeWriter{err: errors.New("sheets unavailable")}
	w := NewExportWorker(repo, writer, 10)

	if err := w.ProcessPendingWeeks(ctx); err != nil {
		t.Fatalf("ProcessPendingWeeks: %v", err)
	}

	pending, err := repo.ListUnexportedPublishedWeeks(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnexportedPublishedWeeks: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != week.ID {
		t.Fatalf("week should remain pending after writer failure: %+v", pending)
	}
}
