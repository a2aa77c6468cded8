package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"cucina/internal/core"
)

//go:embed templates/*.html
var templatesFS embed.FS

var printableTmpl = template.Must(template.ParseFS(templatesFS, "templates/shopping_list.html"))

type printableData struct {
	Title       string
	GeneratedAt string
	Groups      []core.VendorGroup
}

// RenderPrintable writes the vendor-grouped shopping list as a printable
// HTML page.
func RenderPrintable(w io.Writer, week core.WeekPlan, groups []core.VendorGroup) error {
	return printableTmpl.Execute(w, printableData{
		Title:       fmt.Sprintf("Shopping List | Week of %s", weekRange(week.StartDate)),
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		Groups:      groups,
	})
}

func weekRange(start core.Date) string {
	end := start.AddDays(core.DaysPerWeek - 1)
	return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
}
