package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// BuildShoppingList derives the buy list for a week from its requirements and
// the current on-hand quantities. A missing inventory entry counts as zero on
// hand. The automatic to-buy amount is required minus on-hand, floored at
// zero; a non-nil override replaces it verbatim, including an override of
// zero. The result is sorted by vendor name (rows without a vendor sort as
// the empty string), then by item name, and is deterministic for identical
// inputs.
func BuildShoppingList(reqs []RequirementDetail, onHand map[int64]decimal.Decimal) []ShoppingListRow {
	rows := make([]ShoppingListRow, 0, len(reqs))
	for _, r := range reqs {
		oh := onHand[r.ItemID]

		toBuy := r.RequiredQty.Sub(oh)
		if toBuy.IsNegative() {
			toBuy = decimal.Zero
		}
		if r.ToBuyOverride != nil {
			toBuy = *r.ToBuyOverride
		}

		row := ShoppingListRow{
			ItemID:      r.ItemID,
			OnHand:      oh,
			RequiredQty: r.RequiredQty,
			ToBuy:       toBuy,
			Notes:       r.Notes,
		}
		if r.Item != nil {
			row.ItemName = r.Item.Name
			row.Unit = r.Item.Unit
			row.VendorName = r.Item.VendorName
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := vendorKey(rows[i]), vendorKey(rows[j])
		if vi != vj {
			return vi < vj
		}
		return rows[i].ItemName < rows[j].ItemName
	})
	return rows
}

func vendorKey(r ShoppingListRow) string {
	if r.VendorName == nil {
		return ""
	}
	return *r.VendorName
}

// VendorGroup holds the shopping-list rows of a single vendor, for
// vendor-grouped display and export.
type VendorGroup struct {
	Vendor string
	Rows   []ShoppingListRow
}

// GroupByVendor splits an already-sorted shopping list into per-vendor
// groups, preserving order. Rows without a vendor are grouped under the
// empty string.
func GroupByVendor(rows []ShoppingListRow) []VendorGroup {
	var groups []VendorGroup
	for _, row := range rows {
		key := vendorKey(row)
		if len(groups) == 0 || groups[len(groups)-1].Vendor != key {
			groups = append(groups, VendorGroup{Vendor: key})
		}
		groups[len(groups)-1].Rows = append(groups[len(groups)-1].Rows, row)
	}
	return groups
}

// DisplayVendor returns the group label shown to buyers.
func (g VendorGroup) DisplayVendor() string {
	if strings.TrimSpace(g.Vendor) == "" {
		return "No vendor"
	}
	return g.Vendor
}
