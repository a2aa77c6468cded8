package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"cucina/internal/core"
)

func scanWeek(row interface{ Scan(...any) error }) (core.WeekPlan, error) {
	var w core.WeekPlan
	var start string
	var status string
	if err := row.Scan(&w.ID, &start, &status); err != nil {
		return core.WeekPlan{}, err
	}
	d, err := core.ParseDate(start)
	if err != nil {
		return core.WeekPlan{}, fmt.Errorf("stored start_date %q: %w", start, err)
	}
	w.StartDate = d
	w.Status = core.WeekStatus(status)
	return w, nil
}

// ListWeeks returns the latest n week plans, newest (highest id) first.
func (r *Repository) ListWeeks(ctx context.Context, limit int) ([]core.WeekPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, start_date, status FROM week_plans ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	defer rows.Close()

	weeks := []core.WeekPlan{}
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("scan week: %w", err)
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

// CreateWeek inserts a Draft week plan and seeds its seven day plans in one
// transaction. Seeding uses insert-or-ignore on (week_plan_id, date) so that
// re-running it against existing day rows never resets menu or rsvp.
func (r *Repository) CreateWeek(ctx context.Context, start core.Date) (core.WeekPlan, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.WeekPlan{}, fmt.Errorf("begin create week: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO week_plans (start_date, status) VALUES (?, ?)`,
		start.String(), string(core.StatusDraft))
	if err != nil {
		return core.WeekPlan{}, fmt.Errorf("create week: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.WeekPlan{}, fmt.Errorf("week insert id: %w", err)
	}

	for _, day := range core.SeedDays(id, start) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO day_plans (week_plan_id, date, menu, rsvp) VALUES (?, ?, NULL, 0)
			ON CONFLICT (week_plan_id, date) DO NOTHING`,
			day.WeekPlanID, day.Date.String())
		if err != nil {
			return core.WeekPlan{}, fmt.Errorf("seed day %s: %w", day.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.WeekPlan{}, fmt.Errorf("commit create week: %w", err)
	}
	slog.InfoContext(ctx, "Week plan created", "id", id, "start_date", start.String())
	return core.WeekPlan{ID: id, StartDate: start, Status: core.StatusDraft}, nil
}

// GetWeek returns a single week plan row.
func (r *Repository) GetWeek(ctx context.Context, id int64) (core.WeekPlan, error) {
	w, err := scanWeek(r.db.QueryRowContext(ctx,
		`SELECT id, start_date, status FROM week_plans WHERE id = ?`, id))
	if err != nil {
		return core.WeekPlan{}, fmt.Errorf("get week %d: %w", id, err)
	}
	return w, nil
}

// GetWeekDetail returns a week plan with its day plans and requirements
// nested, the shape clients edit a whole week from.
func (r *Repository) GetWeekDetail(ctx context.Context, id int64) (core.WeekDetail, error) {
	week, err := r.GetWeek(ctx, id)
	if err != nil {
		return core.WeekDetail{}, err
	}
	days, err := r.ListDayPlans(ctx, id)
	if err != nil {
		return core.WeekDetail{}, err
	}
	reqs, err := r.ListRequirements(ctx, id)
	if err != nil {
		return core.WeekDetail{}, err
	}
	return core.WeekDetail{WeekPlan: week, DayPlans: days, Requirements: reqs}, nil
}

// UpdateWeekStatus moves a week through its lifecycle and returns the stored
// row.
func (r *Repository) UpdateWeekStatus(ctx context.Context, id int64, status core.WeekStatus) (core.WeekPlan, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE week_plans SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return core.WeekPlan{}, fmt.Errorf("update week %d status: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.WeekPlan{}, fmt.Errorf("update week %d status: %w", id, sql.ErrNoRows)
	}
	return r.GetWeek(ctx, id)
}

// DeleteWeekCascade removes a week plan with its requirements and day plans,
// child rows first, in a single transaction so a failure never leaves a
// half-deleted week behind.
func (r *Repository) DeleteWeekCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete week %d: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_requirements WHERE week_plan_id = ?`, id); err != nil {
		return fmt.Errorf("delete requirements of week %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM day_plans WHERE week_plan_id = ?`, id); err != nil {
		return fmt.Errorf("delete day plans of week %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM week_plans WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete week %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete week %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Week plan deleted", "id", id)
	return nil
}

// ListDayPlans returns a week's day plans, date ascending.
func (r *Repository) ListDayPlans(ctx context.Context, weekPlanID int64) ([]core.DayPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, week_plan_id, date, menu, rsvp
		FROM day_plans WHERE week_plan_id = ? ORDER BY date ASC`, weekPlanID)
	if err != nil {
		return nil, fmt.Errorf("list day plans of week %d: %w", weekPlanID, err)
	}
	defer rows.Close()

	days := []core.DayPlan{}
	for rows.Next() {
		var d core.DayPlan
		var date string
		var menu sql.NullString
		if err := rows.Scan(&d.ID, &d.WeekPlanID, &date, &menu, &d.RSVP); err != nil {
			return nil, fmt.Errorf("scan day plan: %w", err)
		}
		if d.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("stored day date %q: %w", date, err)
		}
		if menu.Valid {
			d.Menu = &menu.String
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// UpsertDayPlans writes menu/rsvp for the given days, keyed on
// (week_plan_id, date). Resubmitting the same day updates the row in place.
func (r *Repository) UpsertDayPlans(ctx context.Context, weekPlanID int64, days []core.DayPlan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert day plans: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO day_plans (week_plan_id, date, menu, rsvp) VALUES (?, ?, ?, ?)
		ON CONFLICT (week_plan_id, date) DO UPDATE SET menu = excluded.menu, rsvp = excluded.rsvp`)
	if err != nil {
		return fmt.Errorf("prepare day plan upsert: %w", err)
	}
	defer stmt.Close()

	for _, d := range days {
		if _, err := stmt.ExecContext(ctx, weekPlanID, d.Date.String(), nullStr(d.Menu), d.RSVP); err != nil {
			return fmt.Errorf("upsert day plan %s: %w", d.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert day plans: %w", err)
	}
	return nil
}

// ListRequirements returns a week's requirements, id ascending, each with
// its item and vendor info nested. The nested on-hand is intentionally zero;
// clients join quantities from the items listing when they need them.
func (r *Repository) ListRequirements(ctx context.Context, weekPlanID int64) ([]core.RequirementDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT req.id, req.week_plan_id, req.item_id, req.required_qty, req.to_buy_override, req.notes,
		       i.name, i.unit, i.vendor_id, v.name
		FROM weekly_requirements req
		JOIN items i ON i.id = req.item_id
		LEFT JOIN vendors v ON v.id = i.vendor_id
		WHERE req.week_plan_id = ?
		ORDER BY req.id ASC`, weekPlanID)
	if err != nil {
		return nil, fmt.Errorf("list requirements of week %d: %w", weekPlanID, err)
	}
	defer rows.Close()

	reqs := []core.RequirementDetail{}
	for rows.Next() {
		var rd core.RequirementDetail
		var required string
		var override, notes, vendorName sql.NullString
		var vendorID sql.NullInt64
		item := core.ItemDetail{}
		if err := rows.Scan(&rd.ID, &rd.WeekPlanID, &rd.ItemID, &required, &override, &notes,
			&item.Name, &item.Unit, &vendorID, &vendorName); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		if rd.RequiredQty, err = parseQty(required); err != nil {
			return nil, err
		}
		if override.Valid {
			qty, err := parseQty(override.String)
			if err != nil {
				return nil, err
			}
			rd.ToBuyOverride = &qty
		}
		if notes.Valid {
			rd.Notes = &notes.String
		}
		item.ID = rd.ItemID
		if vendorID.Valid {
			item.VendorID = &vendorID.Int64
		}
		if vendorName.Valid {
			item.VendorName = &vendorName.String
		}
		rd.Item = &item
		reqs = append(reqs, rd)
	}
	return reqs, rows.Err()
}

// UpsertRequirements writes the submitted requirement rows, keyed on
// (week_plan_id, item_id).
func (r *Repository) UpsertRequirements(ctx context.Context, weekPlanID int64, reqs []core.WeeklyRequirement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert requirements: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weekly_requirements (week_plan_id, item_id, required_qty, to_buy_override, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (week_plan_id, item_id) DO UPDATE SET
			required_qty = excluded.required_qty,
			to_buy_override = excluded.to_buy_override,
			notes = excluded.notes`)
	if err != nil {
		return fmt.Errorf("prepare requirement upsert: %w", err)
	}
	defer stmt.Close()

	for _, req := range reqs {
		var override any
		if req.ToBuyOverride != nil {
			override = req.ToBuyOverride.String()
		}
		if _, err := stmt.ExecContext(ctx, weekPlanID, req.ItemID,
			req.RequiredQty.String(), override, nullStr(req.Notes)); err != nil {
			return fmt.Errorf("upsert requirement for item %d: %w", req.ItemID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert requirements: %w", err)
	}
	return nil
}

// ListUnexportedPublishedWeeks returns published weeks whose shopping list
// has not yet been appended to the spreadsheet. Backup path for lost queue
// messages.
func (r *Repository) ListUnexportedPublishedWeeks(ctx context.Context, limit int) ([]core.WeekPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, start_date, status FROM week_plans
		WHERE status = ? AND exported_at IS NULL
		ORDER BY id ASC LIMIT ?`, string(core.StatusPublished), limit)
	if err != nil {
		return nil, fmt.Errorf("list unexported weeks: %w", err)
	}
	defer rows.Close()

	weeks := []core.WeekPlan{}
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unexported week: %w", err)
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

// WeekExported reports whether the week's shopping list has already been
// appended to the spreadsheet.
func (r *Repository) WeekExported(ctx context.Context, id int64) (bool, error) {
	var exported bool
	err := r.db.QueryRowContext(ctx,
		`SELECT exported_at IS NOT NULL FROM week_plans WHERE id = ?`, id).Scan(&exported)
	if err != nil {
		return false, fmt.Errorf("week %d export state: %w", id, err)
	}
	return exported, nil
}

// MarkWeekExported records a successful spreadsheet append.
func (r *Repository) MarkWeekExported(ctx context.Context, id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx,
		`UPDATE week_plans SET exported_at = ? WHERE id = ?`, now, id); err != nil {
		return fmt.Errorf("mark week %d exported: %w", id, err)
	}
	slog.InfoContext(ctx, "Week marked as exported", "id", id)
	return nil
}
