package amqp

import (
	"strings"
	"testing"
	"time"
)

func TestWeekPublishedMessage_RoundTrip(t *testing.T) {
	msg := NewWeekPublishedMessage(42, "2024-06-03")

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := WeekPublishedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	if decoded.WeekPlanID != 42 {
		t.Errorf("week_plan_id = %d, want 42", decoded.WeekPlanID)
	}
	if decoded.StartDate != "2024-06-03" {
		t.Errorf("start_date = %q, want 2024-06-03", decoded.StartDate)
	}
	if decoded.Timestamp.IsZero() || time.Since(decoded.Timestamp) > time.Minute {
		t.Errorf("timestamp not carried: %v", decoded.Timestamp)
	}
}

func TestWeekPublishedMessageFromJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"truncated", `{"week_plan_id": 42`},
		{"wrong type", `{"week_plan_id": "forty-two"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := WeekPublishedMessageFromJSON([]byte(tt.body)); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

func TestWeekPublishedMessage_FieldNames(t *testing.T) {
	body, err := NewWeekPublishedMessage(7, "2024-06-10").ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	for _, want := range []string{`"week_plan_id":7`, `"start_date":"2024-06-10"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("payload missing %s: %s", want, body)
		}
	}
}
