package core

import "testing"

func savedReq(id, itemID int64, qty string, notes *string) WeeklyRequirement {
	return WeeklyRequirement{ID: id, ItemID: itemID, RequiredQty: dec(qty), Notes: notes}
}

func TestDiffRequirements_NoChanges(t *testing.T) {
	original := []WeeklyRequirement{
		savedReq(1, 10, "5", nil),
		savedReq(2, 11, "2.5", strPtr("ripe")),
	}
	current := []WeeklyRequirement{
		savedReq(1, 10, "5.0", nil), // numerically equal
		savedReq(2, 11, "2.5", strPtr("ripe")),
	}

	changes := DiffRequirements(original, current)
	if changes.Dirty() {
		t.Fatalf("expected clean diff, got %+v", changes)
	}
}

func TestDiffRequirements_DetectsFieldChanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WeeklyRequirement)
	}{
		{name: "quantity changed", mutate: func(r *WeeklyRequirement) { r.RequiredQty = dec("9") }},
		{name: "item changed", mutate: func(r *WeeklyRequirement) { r.ItemID = 99 }},
		{name: "notes changed", mutate: func(r *WeeklyRequirement) { r.Notes = strPtr("new note") }},
		{name: "notes cleared", mutate: func(r *WeeklyRequirement) { r.Notes = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := []WeeklyRequirement{savedReq(1, 10, "5", strPtr("old"))}
			current := []WeeklyRequirement{savedReq(1, 10, "5", strPtr("old"))}
			tt.mutate(&current[0])

			changes := DiffRequirements(original, current)
			if len(changes.Changed) != 1 || changes.Changed[0].ID != 1 {
				t.Fatalf("expected row 1 changed, got %+v", changes)
			}
		})
	}
}

func TestDiffRequirements_DeletedRows(t *testing.T) {
	original := []WeeklyRequirement{
		savedReq(1, 10, "5", nil),
		savedReq(2, 11, "3", nil),
	}
	current := []WeeklyRequirement{savedReq(1, 10, "5", nil)}

	changes := DiffRequirements(original, current)
	if len(changes.Deleted) != 1 || changes.Deleted[0] != 2 {
		t.Fatalf("expected id 2 deleted, got %+v", changes.Deleted)
	}
	if len(changes.Changed) != 0 {
		t.Errorf("expected no changed rows, got %+v", changes.Changed)
	}
}

func TestDiffRequirements_NewUnsavedRows(t *testing.T) {
	original := []WeeklyRequirement{savedReq(1, 10, "5", nil)}
	current := []WeeklyRequirement{
		savedReq(1, 10, "5", nil),
		{ItemID: 12, RequiredQty: dec("1")}, // no id yet
	}

	changes := DiffRequirements(original, current)
	if len(changes.Changed) != 1 {
		t.Fatalf("expected 1 changed row, got %+v", changes)
	}
	if changes.Changed[0].ID != 0 || changes.Changed[0].Index != 1 {
		t.Errorf("new row should be keyed positionally, got %+v", changes.Changed[0])
	}
}

func TestDiffRequirements_UnsavedRowMatchesPositionally(t *testing.T) {
	// An id-less row identical to the snapshot row at the same position is
	// not a change.
	original := []WeeklyRequirement{savedReq(1, 10, "5", nil)}
	current := []WeeklyRequirement{{ItemID: 10, RequiredQty: dec("5")}}

	changes := DiffRequirements(original, current)
	if len(changes.Changed) != 0 {
		t.Errorf("expected positional match, got %+v", changes.Changed)
	}
	// The saved id is gone from the working set, so it reads as deleted.
	if len(changes.Deleted) != 1 || changes.Deleted[0] != 1 {
		t.Errorf("expected id 1 deleted, got %+v", changes.Deleted)
	}
}
