package sheets

import (
	"context"

	"cucina/internal/core"
)

// ShoppingListWriter is the outbound port for exporting a week's derived
// shopping list to a spreadsheet.
type ShoppingListWriter interface {
	AppendShoppingList(ctx context.Context, week core.WeekPlan, rows []core.ShoppingListRow) error
}
