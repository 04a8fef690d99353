package usage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domusage "github.com/kailas-cloud/riskdesk/internal/domain/usage"
)

// --- Mock ---

type mockBudgetReader struct {
	dailyLimit       int64
	monthlyLimit     int64
	dailyUsed        int64
	monthlyUsed      int64
	remainingDaily   int64
	remainingMonthly int64
}

func (m *mockBudgetReader) DailyLimit() int64       { return m.dailyLimit }
func (m *mockBudgetReader) MonthlyLimit() int64     { return m.monthlyLimit }
func (m *mockBudgetReader) DailyUsed() int64        { return m.dailyUsed }
func (m *mockBudgetReader) MonthlyUsed() int64      { return m.monthlyUsed }
func (m *mockBudgetReader) RemainingDaily() int64   { return m.remainingDaily }
func (m *mockBudgetReader) RemainingMonthly() int64 { return m.remainingMonthly }

var fixedNow = time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)

func newTestService(br BudgetReader) *Service {
	s := New(br)
	s.now = func() time.Time { return fixedNow }
	return s
}

// --- Tests ---

func TestGetReport_Day(t *testing.T) {
	br := &mockBudgetReader{dailyLimit: 10000, dailyUsed: 3000, remainingDaily: 7000}
	r := newTestService(br).GetReport(context.Background(), domusage.PeriodDay)

	assert.Equal(t, int64(3000), r.Used)
	assert.Equal(t, int64(10000), r.Limit)
	assert.Equal(t, int64(7000), r.Remaining)
	assert.True(t, r.Start.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)), "start %v", r.Start)
	assert.False(t, r.Exhausted())
}

func TestGetReport_Month(t *testing.T) {
	br := &mockBudgetReader{monthlyLimit: 100000, monthlyUsed: 100000, remainingMonthly: 0}
	r := newTestService(br).GetReport(context.Background(), domusage.PeriodMonth)

	assert.True(t, r.End.Equal(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)), "end %v", r.End)
	assert.True(t, r.Exhausted(), "monthly budget is used up")
}

func TestGetReport_NoBudget(t *testing.T) {
	r := newTestService(nil).GetReport(context.Background(), domusage.PeriodDay)

	assert.Zero(t, r.Limit)
	assert.Zero(t, r.Used)
	assert.Equal(t, int64(-1), r.Remaining)
	assert.False(t, r.Exhausted(), "no budget is never exhausted")
}
