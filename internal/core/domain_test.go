package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUnitValid(t *testing.T) {
	for _, u := range Units() {
		if !u.Valid() {
			t.Errorf("unit %q should be valid", u)
		}
	}
	for _, u := range []Unit{"", "lbs", "KG", "liters"} {
		if u.Valid() {
			t.Errorf("unit %q should be invalid", u)
		}
	}
}

func TestWeekStatusValid(t *testing.T) {
	for _, s := range []WeekStatus{StatusDraft, StatusPublished, StatusClosed} {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if WeekStatus("Archived").Valid() {
		t.Error("status Archived should be invalid")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-03")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2024-06-03" {
		t.Errorf("round trip = %s", d)
	}

	for _, bad := range []string{"", "03/06/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 6, 3)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-06-03"` {
		t.Errorf("marshal = %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip mismatch: %s", back)
	}
}

func TestDecimalJSONIsBareNumber(t *testing.T) {
	row := Inventory{ItemID: 1, OnHand: dec("2.5")}
	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(b); !strings.Contains(got, `"on_hand":2.5`) {
		t.Errorf("on_hand should marshal as a bare number: %s", got)
	}
}

func TestItemValidate(t *testing.T) {
	vendorID := int64(3)
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{name: "valid", item: Item{Name: "Flour", Unit: UnitKilogram, VendorID: &vendorID}},
		{name: "valid without vendor", item: Item{Name: "Salt", Unit: UnitGram}},
		{name: "empty name", item: Item{Name: "  ", Unit: UnitKilogram}, wantErr: true},
		{name: "bad unit", item: Item{Name: "Flour", Unit: "tons"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDayPlanValidate(t *testing.T) {
	valid := DayPlan{Date: NewDate(2024, 6, 3), RSVP: 12}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid day plan rejected: %v", err)
	}
	negative := DayPlan{Date: NewDate(2024, 6, 3), RSVP: -1}
	if err := negative.Validate(); err != ErrNegativeRSVP {
		t.Errorf("expected ErrNegativeRSVP, got %v", err)
	}
	zeroDate := DayPlan{RSVP: 0}
	if err := zeroDate.Validate(); err != ErrInvalidDate {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
