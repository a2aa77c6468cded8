package amqp

import (
	"encoding/json"
	"time"
)

// WeekPublishedMessage signals that a week plan moved to Published. It
// carries only the week id and start date; the worker loads the full
// shopping list from the database.
type WeekPublishedMessage struct {
	WeekPlanID int64     `json:"week_plan_id"`
	StartDate  string    `json:"start_date"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewWeekPublishedMessage(weekPlanID int64, startDate string) *WeekPublishedMessage {
	return &WeekPublishedMessage{
		WeekPlanID: weekPlanID,
		StartDate:  startDate,
		Timestamp:  time.Now(),
	}
}

func (m *WeekPublishedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func WeekPublishedMessageFromJSON(data []byte) (*WeekPublishedMessage, error) {
	var msg WeekPublishedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
