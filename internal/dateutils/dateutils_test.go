package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateTime(t *testing.T) {
	assert.Equal(t, "2024-03-01", TruncateTime("2024-03-01T03:00:00.000Z"))
	assert.Equal(t, "2024-03-01", TruncateTime("2024-03-01 10:00:00"))
	assert.Equal(t, "2024-03-01", TruncateTime(" 2024-03-01 "))
	assert.Equal(t, "", TruncateTime(""))
}

func TestNormalizeISO(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-01", "2024-03-01"},
		{"2024-03-01T03:00:00.000Z", "2024-03-01"},
		{"15/02/2024", "2024-02-15"},
		{"15.02.2024", "2024-02-15"},
		{"garbage", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeISO(tt.in))
		})
	}
}

func TestShiftIntoMonth(t *testing.T) {
	tests := []struct {
		name  string
		src   time.Time
		year  int
		month time.Month
		want  string
	}{
		{"same day exists", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), 2024, time.March, "2024-03-15"},
		{"clamped to leap february", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 2024, time.February, "2024-02-29"},
		{"clamped to april", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), 2024, time.April, "2024-04-30"},
		{"across years", time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC), 2024, time.January, "2024-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToISODate(ShiftIntoMonth(tt.src, tt.year, tt.month)))
		})
	}
}

func TestPreviousMonth(t *testing.T) {
	y, m := PreviousMonth(2024, time.January)
	assert.Equal(t, 2023, y)
	assert.Equal(t, time.December, m)

	y, m = PreviousMonth(2024, time.March)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.February, m)
}

func TestParseYearMonth(t *testing.T) {
	y, m, err := ParseYearMonth("2024-03")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.March, m)

	_, _, err = ParseYearMonth("03/2024")
	assert.Error(t, err)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Março 2024", MonthLabel(2024, time.March))
	assert.Equal(t, "Dezembro 2023", MonthLabel(2023, time.December))
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 31, DaysIn(2024, time.December))
}
