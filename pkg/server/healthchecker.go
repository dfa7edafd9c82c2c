package server

import "context"

// HealthChecker backs the health endpoint.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckFunc adapts a plain function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) bool

func (f HealthCheckFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

// NewOkHealthChecker reports healthy unconditionally, for deployments
// without external dependencies.
func NewOkHealthChecker() HealthChecker {
	return HealthCheckFunc(func(context.Context) bool { return true })
}

// CompositeHealthChecker is healthy when every checker is.
type CompositeHealthChecker struct {
	checkers []HealthChecker
}

func NewCompositeHealthChecker(checkers ...HealthChecker) *CompositeHealthChecker {
	return &CompositeHealthChecker{checkers: checkers}
}

func (hc *CompositeHealthChecker) Healthy(ctx context.Context) bool {
	for _, c := range hc.checkers {
		if c != nil && !c.Healthy(ctx) {
			return false
		}
	}
	return true
}
