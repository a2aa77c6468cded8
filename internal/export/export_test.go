package export

import (
	"strings"
	"testing"

	"cucina/internal/core"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func rows() []core.ShoppingListRow {
	return []core.ShoppingListRow{
		{
			ItemID:      1,
			ItemName:    "Napkins",
			Unit:        core.UnitPiece,
			OnHand:      decimal.NewFromInt(0),
			RequiredQty: decimal.NewFromInt(200),
			ToBuy:       decimal.NewFromInt(200),
		},
		{
			ItemID:      2,
			ItemName:    "Milk",
			Unit:        core.UnitLiter,
			VendorName:  strPtr("Grocer"),
			OnHand:      decimal.RequireFromString("2.5"),
			RequiredQty: decimal.NewFromInt(10),
			ToBuy:       decimal.RequireFromString("7.5"),
			Notes:       strPtr("whole\nmilk"),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, rows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), sb.String())
	}
	if lines[0] != "Vendor,Item,On Hand,Required,To Buy,Notes" {
		t.Errorf("header = %q", lines[0])
	}
	// Vendorless rows come first under "No vendor".
	if !strings.HasPrefix(lines[1], "No vendor,Napkins,0 pcs,200 pcs,200 pcs") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "Grocer,Milk,2.5 L,10 L,7.5 L,whole milk") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestRenderPrintable(t *testing.T) {
	var sb strings.Builder
	week := core.WeekPlan{ID: 7, StartDate: core.NewDate(2024, 6, 3), Status: core.StatusPublished}

	if err := RenderPrintable(&sb, week, core.GroupByVendor(rows())); err != nil {
		t.Fatalf("RenderPrintable: %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "Shopping List | Week of Jun 3 - Jun 9, 2024") {
		t.Errorf("missing week range title:\n%s", out)
	}
	for _, want := range []string{"<h2>No vendor</h2>", "<h2>Grocer</h2>", "<td>Milk</td>", "7.5 L"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
