package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const DefaultProbeInterval = 10 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type StatusSetter interface {
	SetServingStatus(service string, servingStatus grpc_health_v1.HealthCheckResponse_ServingStatus)
}

// StoreProbe reports the store's reachability through the health service.
// The status is set for the overall server ("") and for Service.
type StoreProbe struct {
	store    Pinger
	health   StatusSetter
	Service  string
	Interval time.Duration
	Timeout  time.Duration
}

func NewStoreProbe(store Pinger, health StatusSetter, service string) *StoreProbe {
	return &StoreProbe{
		store:    store,
		health:   health,
		Service:  service,
		Interval: DefaultProbeInterval,
		Timeout:  2 * time.Second,
	}
}

// Check pings the store once and publishes the result.
func (p *StoreProbe) Check(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := p.store.Ping(pingCtx); err != nil {
		zap.L().Warn("Store ping failed", zap.String("service", p.Service), zap.Error(err))
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	p.health.SetServingStatus("", status)
	if p.Service != "" {
		p.health.SetServingStatus(p.Service, status)
	}
	return status
}

// Run checks immediately and then on every tick until ctx is done.
func (p *StoreProbe) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	last := p.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if status := p.Check(ctx); status != last {
				zap.L().Info("Health status changed",
					zap.String("service", p.Service),
					zap.String("from", last.String()),
					zap.String("to", status.String()),
				)
				last = status
			}
		}
	}
}
