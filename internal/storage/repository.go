package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cucina/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Repository is the SQLite-backed store for the planner. It is constructed
// explicitly and injected into whatever needs it; there are no package-level
// client singletons.
type Repository struct {
	db *sql.DB
}

// NewRepository opens (and migrates) the database at dbPath.
func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Ping verifies the database connection, used by readiness checks.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func parseQty(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return d, nil
}

func nullStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

// ListVendors returns all vendors, name ascending.
func (r *Repository) ListVendors(ctx context.Context) ([]core.Vendor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, contact_info, address FROM vendors ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	vendors := []core.Vendor{}
	for rows.Next() {
		var v core.Vendor
		var contact, address sql.NullString
		if err := rows.Scan(&v.ID, &v.Name, &contact, &address); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		if contact.Valid {
			v.ContactInfo = &contact.String
		}
		if address.Valid {
			v.Address = &address.String
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *Repository) getVendor(ctx context.Context, id int64) (core.Vendor, error) {
	var v core.Vendor
	var contact, address sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, contact_info, address FROM vendors WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &contact, &address)
	if err != nil {
		return core.Vendor{}, fmt.Errorf("get vendor %d: %w", id, err)
	}
	if contact.Valid {
		v.ContactInfo = &contact.String
	}
	if address.Valid {
		v.Address = &address.String
	}
	return v, nil
}

// CreateVendor inserts a vendor and returns the stored row.
func (r *Repository) CreateVendor(ctx context.Context, v core.Vendor) (core.Vendor, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO vendors (name, contact_info, address) VALUES (?, ?, ?)`,
		v.Name, nullStr(v.ContactInfo), nullStr(v.Address))
	if err != nil {
		return core.Vendor{}, fmt.Errorf("create vendor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Vendor{}, fmt.Errorf("vendor insert id: %w", err)
	}
	slog.InfoContext(ctx, "Vendor created", "id", id, "name", v.Name)
	return r.getVendor(ctx, id)
}

// UpdateVendor applies a partial update and returns the stored row.
func (r *Repository) UpdateVendor(ctx context.Context, id int64, patch core.VendorPatch) (core.Vendor, error) {
	sets := []string{}
	args := []any{}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.ContactInfo.Set {
		sets = append(sets, "contact_info = ?")
		args = append(args, nullStr(patch.ContactInfo.Value))
	}
	if patch.Address.Set {
		sets = append(sets, "address = ?")
		args = append(args, nullStr(patch.Address.Value))
	}
	if len(sets) > 0 {
		args = append(args, id)
		res, err := r.db.ExecContext(ctx,
			`UPDATE vendors SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return core.Vendor{}, fmt.Errorf("update vendor %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.Vendor{}, fmt.Errorf("update vendor %d: %w", id, sql.ErrNoRows)
		}
	}
	return r.getVendor(ctx, id)
}

// DeleteVendor removes a vendor row. Items referencing it keep their
// vendor_id and fail the delete via the foreign key, matching the store-level
// constraint behavior clients expect.
func (r *Repository) DeleteVendor(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vendors WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete vendor %d: %w", id, err)
	}
	return nil
}

// ListItems returns all items name ascending, each joined with its vendor
// name and on-hand quantity (zero when no inventory row exists).
func (r *Repository) ListItems(ctx context.Context) ([]core.ItemDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.name, i.unit, i.vendor_id, v.name, COALESCE(inv.on_hand, '0')
		FROM items i
		LEFT JOIN vendors v ON v.id = i.vendor_id
		LEFT JOIN inventory inv ON inv.item_id = i.id
		ORDER BY i.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []core.ItemDetail{}
	for rows.Next() {
		var it core.ItemDetail
		var vendorID sql.NullInt64
		var vendorName sql.NullString
		var onHand string
		if err := rows.Scan(&it.ID, &it.Name, &it.Unit, &vendorID, &vendorName, &onHand); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if vendorID.Valid {
			it.VendorID = &vendorID.Int64
		}
		if vendorName.Valid {
			it.VendorName = &vendorName.String
		}
		if it.OnHand, err = parseQty(onHand); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repository) getItem(ctx context.Context, id int64) (core.Item, error) {
	var it core.Item
	var vendorID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, unit, vendor_id FROM items WHERE id = ?`, id).
		Scan(&it.ID, &it.Name, &it.Unit, &vendorID)
	if err != nil {
		return core.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	if vendorID.Valid {
		it.VendorID = &vendorID.Int64
	}
	return it, nil
}

// CreateItem inserts an item and returns the stored row.
func (r *Repository) CreateItem(ctx context.Context, it core.Item) (core.Item, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO items (name, unit, vendor_id) VALUES (?, ?, ?)`,
		it.Name, string(it.Unit), nullInt(it.VendorID))
	if err != nil {
		return core.Item{}, fmt.Errorf("create item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Item{}, fmt.Errorf("item insert id: %w", err)
	}
	slog.InfoContext(ctx, "Item created", "id", id, "name", it.Name, "unit", it.Unit)
	return r.getItem(ctx, id)
}

// UpdateItem applies a partial update and returns the stored row.
func (r *Repository) UpdateItem(ctx context.Context, id int64, patch core.ItemPatch) (core.Item, error) {
	sets := []string{}
	args := []any{}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Unit != nil {
		sets = append(sets, "unit = ?")
		args = append(args, string(*patch.Unit))
	}
	if patch.VendorID.Set {
		sets = append(sets, "vendor_id = ?")
		args = append(args, nullInt(patch.VendorID.Value))
	}
	if len(sets) > 0 {
		args = append(args, id)
		res, err := r.db.ExecContext(ctx,
			`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return core.Item{}, fmt.Errorf("update item %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.Item{}, fmt.Errorf("update item %d: %w", id, sql.ErrNoRows)
		}
	}
	return r.getItem(ctx, id)
}

// DeleteItemCascade removes an item together with its requirement and
// inventory rows, child rows first, in a single transaction.
func (r *Repository) DeleteItemCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete item %d: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_requirements WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("delete requirements of item %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("delete inventory of item %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete item %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Item deleted", "id", id)
	return nil
}

// UpsertInventory sets the on-hand quantity of an item, keyed on item_id.
func (r *Repository) UpsertInventory(ctx context.Context, itemID int64, onHand decimal.Decimal) (core.Inventory, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory (item_id, on_hand, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET on_hand = excluded.on_hand, updated_at = excluded.updated_at`,
		itemID, onHand.String(), now)
	if err != nil {
		return core.Inventory{}, fmt.Errorf("upsert inventory for item %d: %w", itemID, err)
	}

	var inv core.Inventory
	var qty, updated string
	err = r.db.QueryRowContext(ctx,
		`SELECT item_id, on_hand, updated_at FROM inventory WHERE item_id = ?`, itemID).
		Scan(&inv.ItemID, &qty, &updated)
	if err != nil {
		return core.Inventory{}, fmt.Errorf("get inventory for item %d: %w", itemID, err)
	}
	if inv.OnHand, err = parseQty(qty); err != nil {
		return core.Inventory{}, err
	}
	if inv.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return core.Inventory{}, fmt.Errorf("parse inventory timestamp: %w", err)
	}
	return inv, nil
}

// OnHandByItem returns the on-hand quantities for every item referenced by a
// week's requirements. Items without an inventory row are simply absent.
func (r *Repository) OnHandByItem(ctx context.Context, weekPlanID int64) (map[int64]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT inv.item_id, inv.on_hand
		FROM inventory inv
		JOIN weekly_requirements req ON req.item_id = inv.item_id
		WHERE req.week_plan_id = ?`, weekPlanID)
	if err != nil {
		return nil, fmt.Errorf("on-hand for week %d: %w", weekPlanID, err)
	}
	defer rows.Close()

	onHand := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var itemID int64
		var qty string
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("scan on-hand row: %w", err)
		}
		if onHand[itemID], err = parseQty(qty); err != nil {
			return nil, err
		}
	}
	return onHand, rows.Err()
}
