package core

// RequirementKey identifies a requirement row in a working set: by database
// id when the row has been saved, by position for new, id-less rows.
type RequirementKey struct {
	ID    int64
	Index int
}

// RequirementChanges is the outcome of comparing a working set of
// requirement rows against the last-saved snapshot.
type RequirementChanges struct {
	Changed []RequirementKey
	Deleted []int64
}

// Dirty reports whether anything differs from the snapshot.
func (c RequirementChanges) Dirty() bool {
	return len(c.Changed) > 0 || len(c.Deleted) > 0
}

// DiffRequirements compares current requirement rows against the original
// snapshot. Saved rows match on id and are changed when item, quantity or
// notes differ; unsaved rows match positionally against the snapshot and are
// changed when no counterpart exists at that position. Ids present in the
// snapshot but absent from current are reported as deleted.
func DiffRequirements(original, current []WeeklyRequirement) RequirementChanges {
	byID := make(map[int64]WeeklyRequirement, len(original))
	for _, r := range original {
		if r.ID != 0 {
			byID[r.ID] = r
		}
	}

	var changes RequirementChanges
	seen := make(map[int64]bool, len(current))
	for i, r := range current {
		if r.ID != 0 {
			seen[r.ID] = true
			orig, ok := byID[r.ID]
			if !ok || !requirementEqual(orig, r) {
				changes.Changed = append(changes.Changed, RequirementKey{ID: r.ID, Index: i})
			}
			continue
		}
		if i >= len(original) || !requirementEqual(original[i], r) {
			changes.Changed = append(changes.Changed, RequirementKey{Index: i})
		}
	}

	for _, r := range original {
		if r.ID != 0 && !seen[r.ID] {
			changes.Deleted = append(changes.Deleted, r.ID)
		}
	}
	return changes
}

func requirementEqual(a, b WeeklyRequirement) bool {
	if a.ItemID != b.ItemID {
		return false
	}
	if !a.RequiredQty.Equal(b.RequiredQty) {
		return false
	}
	return stringPtrEqual(a.Notes, b.Notes)
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
