package riskdesk

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/riskdesk/internal/usecase/health"
)

// Health checks the registry, the cache and the generator.
// A registry failure is "error"; cache or generator failures are "degraded".
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
		At:     time.Now().UTC(),
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
