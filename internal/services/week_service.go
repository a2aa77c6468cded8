// Package services orchestrates operations that span storage and messaging.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"cucina/internal/amqp"
	"cucina/internal/core"
	"cucina/internal/storage"
)

// WeekService applies week lifecycle changes and announces published weeks
// on AMQP. The database write always comes first; a publish failure is
// logged and never fails the request. The AMQP client may be nil when the
// deployment runs without a broker.
type WeekService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewWeekService(storage *storage.Repository, amqpClient *amqp.Client) *WeekService {
	return &WeekService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// ChangeStatus updates a week's lifecycle status. Moving to Published emits
// a week-published event for the export worker.
func (s *WeekService) ChangeStatus(ctx context.Context, id int64, status core.WeekStatus) (core.WeekPlan, error) {
	week, err := s.storage.UpdateWeekStatus(ctx, id, status)
	if err != nil {
		return core.WeekPlan{}, fmt.Errorf("update week status: %w", err)
	}

	if status == core.StatusPublished {
		if err := s.publishWeekPublished(ctx, week); err != nil {
			slog.ErrorContext(ctx, "Failed to publish week-published message",
				"week_plan_id", week.ID, "error", err)
			// Status change is committed; the worker's retry sweep picks
			// up unexported published weeks.
		}
	}

	return week, nil
}

func (s *WeekService) publishWeekPublished(ctx context.Context, week core.WeekPlan) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping week-published message",
			"week_plan_id", week.ID)
		return nil
	}
	return s.amqpClient.PublishWeekPublished(ctx, week.ID, week.StartDate.String())
}

// Close closes both storage and AMQP connections.
func (s *WeekService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close week service: %v", errs)
	}
	return nil
}
