// Package export renders a week's derived shopping list as CSV or as a
// printable vendor-grouped HTML page.
package export

import (
	"encoding/csv"
	"io"
	"strings"

	"cucina/internal/core"
)

// WriteCSV writes the shopping list as CSV, one row per item with the vendor
// in the first column. Quantities carry their unit, e.g. "2.5 kg".
func WriteCSV(w io.Writer, rows []core.ShoppingListRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Vendor", "Item", "On Hand", "Required", "To Buy", "Notes"}); err != nil {
		return err
	}
	for _, group := range core.GroupByVendor(rows) {
		for _, row := range group.Rows {
			notes := ""
			if row.Notes != nil {
				notes = strings.ReplaceAll(*row.Notes, "\n", " ")
			}
			record := []string{
				group.DisplayVendor(),
				row.ItemName,
				qty(row.OnHand.String(), row.Unit),
				qty(row.RequiredQty.String(), row.Unit),
				qty(row.ToBuy.String(), row.Unit),
				notes,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func qty(amount string, unit core.Unit) string {
	return amount + " " + string(unit)
}
