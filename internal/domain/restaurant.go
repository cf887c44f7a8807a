package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/restaurant-hours/backend/internal/hours"
)

type OperatingHours struct {
	ID           int64         `json:"id"`
	RestaurantID int64         `json:"restaurantID"`
	DayOfWeek    hours.Weekday `json:"dayOfWeek"`
	OpenTime     hours.Clock   `json:"-"`
	CloseTime    hours.Clock   `json:"-"`
}

func (oh OperatingHours) String() string {
	return fmt.Sprintf("%s: %s - %s", oh.DayOfWeek, oh.OpenTime.Format12(), oh.CloseTime.Format12())
}

func (oh OperatingHours) Window() hours.Window {
	return hours.Window{
		EntityID: oh.RestaurantID,
		Weekday:  oh.DayOfWeek,
		Open:     oh.OpenTime,
		Close:    oh.CloseTime,
	}
}

// Schedule groups a restaurant's windows by day display name, each window
// rendered as an ["03:04 PM", "03:04 PM"] pair.
type Schedule map[string][][2]string

// MarshalJSON writes days Monday first instead of in map key order.
func (s Schedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for d := hours.Monday; d <= hours.Sunday; d++ {
		windows, ok := s[d.String()]
		if !ok {
			continue
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(d.String())
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(windows)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

type Restaurant struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	OperatingHours []OperatingHours `json:"-"`
	CreatedAt      time.Time        `json:"createdAt"`
}

func (r *Restaurant) Schedule() Schedule {
	schedule := make(Schedule)
	for _, oh := range r.OperatingHours {
		day := oh.DayOfWeek.String()
		schedule[day] = append(schedule[day], [2]string{oh.OpenTime.Format12(), oh.CloseTime.Format12()})
	}
	return schedule
}

func (r *Restaurant) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID             int64     `json:"id"`
		Name           string    `json:"name"`
		OperatingHours Schedule  `json:"operatingHours"`
		CreatedAt      time.Time `json:"createdAt"`
	}{
		ID:             r.ID,
		Name:           r.Name,
		OperatingHours: r.Schedule(),
		CreatedAt:      r.CreatedAt,
	})
}

// SaveResult reports what an idempotent hours upsert actually inserted.
type SaveResult struct {
	RestaurantID      int64 `json:"restaurantID"`
	RestaurantCreated bool  `json:"restaurantCreated"`
	WindowsCreated    int   `json:"windowsCreated"`
}
