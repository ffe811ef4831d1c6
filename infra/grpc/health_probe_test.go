package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type fakePinger struct {
	PingFunc func(ctx context.Context) error
	calls    int
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.calls++
	if f.PingFunc != nil {
		return f.PingFunc(ctx)
	}
	return nil
}

func checkStatus(t *testing.T, hs *health.Server, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := hs.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q): %v", service, err)
	}
	return resp.GetStatus()
}

func TestStoreProbe_Check(t *testing.T) {
	hs := health.NewServer()
	pinger := &fakePinger{}
	probe := NewStoreProbe(pinger, hs, "isucari")

	if got := probe.Check(context.Background()); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("Check() = %v, want SERVING", got)
	}
	if got := checkStatus(t, hs, "isucari"); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("service status = %v, want SERVING", got)
	}

	pinger.PingFunc = func(context.Context) error { return errors.New("connection refused") }
	if got := probe.Check(context.Background()); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("Check() = %v, want NOT_SERVING", got)
	}
	if got := checkStatus(t, hs, ""); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("server status = %v, want NOT_SERVING", got)
	}
	if got := checkStatus(t, hs, "isucari"); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("service status = %v, want NOT_SERVING", got)
	}
}

func TestStoreProbe_CheckAppliesTimeout(t *testing.T) {
	pinger := &fakePinger{PingFunc: func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("ping without deadline")
		}
		return nil
	}}
	probe := NewStoreProbe(pinger, health.NewServer(), "")

	if got := probe.Check(context.Background()); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("Check() = %v, want SERVING", got)
	}
}

func TestStoreProbe_RunStopsOnCancel(t *testing.T) {
	pinger := &fakePinger{}
	probe := NewStoreProbe(pinger, health.NewServer(), "isucari")
	probe.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := probe.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if pinger.calls != 1 {
		t.Errorf("ping calls = %d, want the initial check only", pinger.calls)
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Panic"}
	panicking := func(context.Context, any) (any, error) {
		panic("boom")
	}

	resp, err := recoveryInterceptor(context.Background(), nil, info, panicking)
	if resp != nil {
		t.Errorf("resp = %v, want nil", resp)
	}
	if status.Code(err) != codes.Internal {
		t.Errorf("code = %v, want Internal", status.Code(err))
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Echo"}
	wantErr := status.Error(codes.NotFound, "missing")
	handler := func(_ context.Context, req any) (any, error) {
		return req, wantErr
	}

	resp, err := loggingInterceptor(context.Background(), "ping", info, handler)
	if resp != "ping" {
		t.Errorf("resp = %v, want ping", resp)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
