// Package worker exports published week plans to a spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"cucina/internal/amqp"
	"cucina/internal/core"
	"cucina/internal/sheets"
	"cucina/internal/storage"
)

// ExportWorker consumes week-published events and appends the week's derived
// shopping list to the configured spreadsheet. A periodic sweep exports any
// published week whose message was lost.
type ExportWorker struct {
	storage   *storage.Repository
	writer    sheets.ShoppingListWriter
	batchSize int
}

func NewExportWorker(storage *storage.Repository, writer sheets.ShoppingListWriter, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleWeekPublished processes a single week-published message.
func (w *ExportWorker) HandleWeekPublished(ctx context.Context, msg *amqp.WeekPublishedMessage) error {
	slog.InfoContext(ctx, "Processing week-published message",
		"week_plan_id", msg.WeekPlanID,
		"start_date", msg.StartDate)

	week, err := w.storage.GetWeek(ctx, msg.WeekPlanID)
	if err != nil {
		return fmt.Errorf("get week from storage: %w", err)
	}
	if week.Status != core.StatusPublished {
		// The week moved on (or back) since the message was queued.
		slog.WarnContext(ctx, "Skipping export, week no longer published",
			"week_plan_id", week.ID, "status", week.Status)
		return nil
	}

	exported, err := w.storage.WeekExported(ctx, week.ID)
	if err != nil {
		return fmt.Errorf("week export state: %w", err)
	}
	if exported {
		// Redelivered message for a week the sweep or an earlier delivery
		// already handled.
		slog.InfoContext(ctx, "Skipping export, week already exported", "week_plan_id", week.ID)
		return nil
	}

	return w.exportWeek(ctx, week)
}

// ProcessPendingWeeks exports published weeks that were never appended to
// the spreadsheet. Backup mechanism for lost AMQP messages.
func (w *ExportWorker) ProcessPendingWeeks(ctx context.Context) error {
	pending, err := w.storage.ListUnexportedPublishedWeeks(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending weeks: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending week exports", "count", len(pending))

	for _, week := range pending {
		if err := w.exportWeek(ctx, week); err != nil {
			slog.ErrorContext(ctx, "Failed to export week", "week_plan_id", week.ID, "error", err)
			continue
		}
	}
	return nil
}

func (w *ExportWorker) exportWeek(ctx context.Context, week core.WeekPlan) error {
	reqs, err := w.storage.ListRequirements(ctx, week.ID)
	if err != nil {
		return fmt.Errorf("list requirements: %w", err)
	}
	onHand, err := w.storage.OnHandByItem(ctx, week.ID)
	if err != nil {
		return fmt.Errorf("on-hand quantities: %w", err)
	}

	rows := core.BuildShoppingList(reqs, onHand)
	if err := w.writer.AppendShoppingList(ctx, week, rows); err != nil {
		return fmt.Errorf("append shopping list: %w", err)
	}

	if err := w.storage.MarkWeekExported(ctx, week.ID); err != nil {
		return fmt.Errorf("mark week exported: %w", err)
	}

	slog.InfoContext(ctx, "Week exported", "week_plan_id", week.ID, "rows", len(rows))
	return nil
}
