package health

import "context"

// Pinger checks availability of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GeneratorChecker checks text generation provider availability.
type GeneratorChecker interface {
	HealthCheck(ctx context.Context) error
}
