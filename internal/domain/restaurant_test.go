package domain

import (
	"encoding/json"
	"testing"

	"github.com/restaurant-hours/backend/internal/hours"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatingHoursString(t *testing.T) {
	oh := OperatingHours{
		DayOfWeek: hours.Monday,
		OpenTime:  hours.NewClock(11, 0),
		CloseTime: hours.NewClock(22, 0),
	}
	assert.Equal(t, "Monday: 11:00 AM - 10:00 PM", oh.String())
}

func TestRestaurantJSONGroupsScheduleByDay(t *testing.T) {
	r := &Restaurant{
		ID:   3,
		Name: "Kushi Tsuru",
		OperatingHours: []OperatingHours{
			{RestaurantID: 3, DayOfWeek: hours.Monday, OpenTime: hours.NewClock(11, 30), CloseTime: hours.NewClock(14, 0)},
			{RestaurantID: 3, DayOfWeek: hours.Monday, OpenTime: hours.NewClock(17, 0), CloseTime: hours.NewClock(21, 30)},
			{RestaurantID: 3, DayOfWeek: hours.Sunday, OpenTime: hours.NewClock(9, 0), CloseTime: hours.NewClock(12, 0)},
		},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got struct {
		ID             int64                 `json:"id"`
		Name           string                `json:"name"`
		OperatingHours map[string][][]string `json:"operatingHours"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, "Kushi Tsuru", got.Name)
	assert.Equal(t, map[string][][]string{
		"Monday": {{"11:30 AM", "02:00 PM"}, {"05:00 PM", "09:30 PM"}},
		"Sunday": {{"09:00 AM", "12:00 PM"}},
	}, got.OperatingHours)
}

func TestRestaurantWithoutHoursHasEmptySchedule(t *testing.T) {
	data, err := json.Marshal(&Restaurant{ID: 1, Name: "Closed For Good"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"operatingHours":{}`)
}

func TestScheduleJSONKeepsWeekdayOrder(t *testing.T) {
	r := &Restaurant{
		OperatingHours: []OperatingHours{
			{DayOfWeek: hours.Sunday, OpenTime: hours.NewClock(9, 0), CloseTime: hours.NewClock(12, 0)},
			{DayOfWeek: hours.Friday, OpenTime: hours.NewClock(17, 0), CloseTime: hours.NewClock(23, 0)},
			{DayOfWeek: hours.Monday, OpenTime: hours.NewClock(11, 0), CloseTime: hours.NewClock(22, 0)},
		},
	}

	data, err := json.Marshal(r.Schedule())
	require.NoError(t, err)
	assert.Equal(t,
		`{"Monday":[["11:00 AM","10:00 PM"]],"Friday":[["05:00 PM","11:00 PM"]],"Sunday":[["09:00 AM","12:00 PM"]]}`,
		string(data))
}
