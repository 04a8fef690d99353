package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", PeriodDay, false},
		{"day", PeriodDay, false},
		{" Month ", PeriodMonth, false},
		{"total", "", true},
		{"week", "", true},
	}
	for _, tc := range tests {
		got, err := ParsePeriod(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestBounds(t *testing.T) {
	at := time.Date(2026, 2, 28, 15, 4, 5, 0, time.UTC)

	start, end := PeriodDay.Bounds(at)
	assert.True(t, start.Equal(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)), "day start %v", start)
	assert.True(t, end.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)), "day end %v", end)

	start, end = PeriodMonth.Bounds(at)
	assert.True(t, start.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)), "month start %v", start)
	assert.True(t, end.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)), "month end %v", end)
}

func TestReport_Exhausted(t *testing.T) {
	assert.False(t, Report{Limit: 0, Remaining: -1}.Exhausted(), "unlimited budget is never exhausted")
	assert.False(t, Report{Limit: 100, Remaining: 1}.Exhausted())
	assert.True(t, Report{Limit: 100, Remaining: 0}.Exhausted())
}
