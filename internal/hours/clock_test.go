package hours

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		token string
		want  Clock
	}{
		{"3 PM", NewClock(15, 0)},
		{"3:30 PM", NewClock(15, 30)},
		{"3:30 pm", NewClock(15, 30)},
		{"11:30 am", NewClock(11, 30)},
		{"12:00 pm", NewClock(12, 0)},
		{"12 AM", NewClock(0, 0)},
		{"12:15 am", NewClock(0, 15)},
		{"09:05 Pm", NewClock(21, 5)},
		{"  10 pm  ", NewClock(22, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseTime(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTime_Invalid(t *testing.T) {
	for _, token := range []string{
		"invalid time",
		"",
		"15:00",
		"0 PM",
		"13 PM",
		"3:60 PM",
		"3:30:00 PM",
		"3PM",
		"3 XM",
		"3 - PM",
	} {
		t.Run(token, func(t *testing.T) {
			_, err := ParseTime(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTime)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, token, pe.Token)
		})
	}
}

func TestClockFormatting(t *testing.T) {
	assert.Equal(t, "15:30:00", NewClock(15, 30).String())
	assert.Equal(t, "03:30 PM", NewClock(15, 30).Format12())
	assert.Equal(t, "12:00 AM", NewClock(0, 0).Format12())
	assert.Equal(t, "12:00 PM", NewClock(12, 0).Format12())
	assert.Equal(t, "09:05 AM", NewClock(9, 5).Format12())
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("21:30:00")
	require.NoError(t, err)
	assert.Equal(t, NewClock(21, 30), c)

	c, err = ParseClock("07:05")
	require.NoError(t, err)
	assert.Equal(t, NewClock(7, 5), c)

	_, err = ParseClock("25:00:00")
	assert.Error(t, err)
}

func TestClockCompare(t *testing.T) {
	assert.Equal(t, -1, NewClock(10, 59).Compare(NewClock(11, 0)))
	assert.Equal(t, 0, NewClock(11, 0).Compare(NewClock(11, 0)))
	assert.Equal(t, 1, Clock{Hour: 22, Second: 1}.Compare(NewClock(22, 0)))
}
