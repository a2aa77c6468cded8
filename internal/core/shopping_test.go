package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func req(itemID int64, required string, override *decimal.Decimal, name string, vendor *string) RequirementDetail {
	return RequirementDetail{
		WeeklyRequirement: WeeklyRequirement{
			ItemID:        itemID,
			RequiredQty:   dec(required),
			ToBuyOverride: override,
		},
		Item: &ItemDetail{
			Item:       Item{ID: itemID, Name: name, Unit: UnitKilogram},
			VendorName: vendor,
		},
	}
}

func TestBuildShoppingList_ToBuy(t *testing.T) {
	tests := []struct {
		name     string
		required string
		onHand   string
		override *decimal.Decimal
		want     string
	}{
		{name: "shortfall", required: "10", onHand: "4", want: "6"},
		{name: "surplus clamps to zero", required: "3", onHand: "5", want: "0"},
		{name: "exact stock", required: "5", onHand: "5", want: "0"},
		{name: "override wins", required: "10", onHand: "4", override: decPtr("2"), want: "2"},
		{name: "override of zero wins", required: "10", onHand: "4", override: decPtr("0"), want: "0"},
		{name: "fractional quantities", required: "2.5", onHand: "0.75", want: "1.75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs := []RequirementDetail{req(1, tt.required, tt.override, "Flour", nil)}
			onHand := map[int64]decimal.Decimal{1: dec(tt.onHand)}

			rows := BuildShoppingList(reqs, onHand)
			if len(rows) != 1 {
				t.Fatalf("expected 1 row, got %d", len(rows))
			}
			if !rows[0].ToBuy.Equal(dec(tt.want)) {
				t.Errorf("to_buy = %s, want %s", rows[0].ToBuy, tt.want)
			}
		})
	}
}

func TestBuildShoppingList_MissingInventoryIsZero(t *testing.T) {
	reqs := []RequirementDetail{req(7, "4", nil, "Olive oil", nil)}

	rows := BuildShoppingList(reqs, map[int64]decimal.Decimal{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].OnHand.IsZero() {
		t.Errorf("on_hand = %s, want 0", rows[0].OnHand)
	}
	if !rows[0].ToBuy.Equal(dec("4")) {
		t.Errorf("to_buy = %s, want 4", rows[0].ToBuy)
	}
}

func TestBuildShoppingList_SortsByVendorThenItem(t *testing.T) {
	reqs := []RequirementDetail{
		req(1, "1", nil, "Zucchini", strPtr("Bianchi")),
		req(2, "1", nil, "Apples", strPtr("Bianchi")),
		req(3, "1", nil, "Milk", strPtr("Alimentari Rossi")),
		req(4, "1", nil, "Napkins", nil),
	}

	rows := BuildShoppingList(reqs, nil)
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.ItemName
	}
	want := []string{"Napkins", "Milk", "Apples", "Zucchini"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if rows[0].VendorName != nil {
		t.Errorf("vendorless row should sort first, got vendor %q", *rows[0].VendorName)
	}
}

func TestBuildShoppingList_CarriesNotesAndMetadata(t *testing.T) {
	r := req(5, "10", nil, "Butter", strPtr("Latteria"))
	r.Notes = strPtr("unsalted")
	r.Item.Unit = UnitGram

	rows := BuildShoppingList([]RequirementDetail{r}, map[int64]decimal.Decimal{5: dec("2")})
	row := rows[0]
	if row.ItemName != "Butter" || row.Unit != UnitGram {
		t.Errorf("item metadata not carried: %+v", row)
	}
	if row.Notes == nil || *row.Notes != "unsalted" {
		t.Errorf("notes not carried: %+v", row.Notes)
	}
	if !row.RequiredQty.Equal(dec("10")) || !row.OnHand.Equal(dec("2")) {
		t.Errorf("quantities not carried: required=%s on_hand=%s", row.RequiredQty, row.OnHand)
	}
}

func TestGroupByVendor(t *testing.T) {
	reqs := []RequirementDetail{
		req(1, "1", nil, "Milk", strPtr("Latteria")),
		req(2, "1", nil, "Butter", strPtr("Latteria")),
		req(3, "1", nil, "Napkins", nil),
		req(4, "1", nil, "Flour", strPtr("Molino")),
	}

	groups := GroupByVendor(BuildShoppingList(reqs, nil))
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Vendor != "" || groups[0].DisplayVendor() != "No vendor" {
		t.Errorf("first group should be vendorless, got %q", groups[0].Vendor)
	}
	if groups[1].Vendor != "Latteria" || len(groups[1].Rows) != 2 {
		t.Errorf("unexpected second group: %+v", groups[1])
	}
	if groups[2].Vendor != "Molino" {
		t.Errorf("unexpected third group: %+v", groups[2])
	}
}
