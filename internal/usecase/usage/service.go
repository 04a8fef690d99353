package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/riskdesk/internal/domain/usage"
)

// Service reports generation token usage against the configured budget.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (no budget configured).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// GetReport builds a usage report for the current period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	start, end := period.Bounds(s.now())
	r := domusage.Report{Period: period, Start: start, End: end, Remaining: -1}
	if s.br == nil {
		return r
	}

	if period == domusage.PeriodMonth {
		r.Used, r.Limit, r.Remaining = s.br.MonthlyUsed(), s.br.MonthlyLimit(), s.br.RemainingMonthly()
	} else {
		r.Used, r.Limit, r.Remaining = s.br.DailyUsed(), s.br.DailyLimit(), s.br.RemainingDaily()
	}
	return r
}
