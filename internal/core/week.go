package core

// DaysPerWeek is the number of day plans every week plan owns.
const DaysPerWeek = 7

// SeedDays produces the seven day-plan candidates for a week starting at
// start: the start date and the six following days, each with no menu and an
// RSVP count of zero. The rows are meant to be inserted with
// insert-or-ignore semantics keyed on (week_plan_id, date), so re-seeding an
// already-edited week never discards menu or RSVP edits.
func SeedDays(weekPlanID int64, start Date) []DayPlan {
	days := make([]DayPlan, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		days = append(days, DayPlan{
			WeekPlanID: weekPlanID,
			Date:       start.AddDays(i),
			Menu:       nil,
			RSVP:       0,
		})
	}
	return days
}
