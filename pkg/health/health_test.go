package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubCheck struct {
	name string
	err  error
}

func (s *stubCheck) Name() string                    { return s.name }
func (s *stubCheck) Check(ctx context.Context) error { return s.err }

// blockingCheck waits for its context.
type blockingCheck struct{}

func (blockingCheck) Name() string { return "blocking" }

func (blockingCheck) Check(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestHealthCheckerRegistration(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(&stubCheck{name: "a"})
	hc.AddCheck(&stubCheck{name: "b", err: errors.New("down")})

	if got := len(hc.CheckHealth(context.Background()).Checks); got != 2 {
		t.Fatalf("expected 2 checks, got %d", got)
	}

	// replacing by name keeps one entry
	hc.AddCheck(&stubCheck{name: "b"})
	status := hc.CheckHealth(context.Background())
	if len(status.Checks) != 2 || status.Status != StatusHealthy {
		t.Errorf("expected 2 healthy checks after replace, got %+v", status)
	}

	hc.RemoveCheck("a")
	hc.RemoveCheck("missing")
	if got := len(hc.CheckHealth(context.Background()).Checks); got != 1 {
		t.Errorf("expected 1 check after remove, got %d", got)
	}
}

func TestCheckHealthAggregates(t *testing.T) {
	tests := []struct {
		name   string
		checks []HealthCheck
		want   string
	}{
		{"no checks", nil, StatusHealthy},
		{"all pass", []HealthCheck{&stubCheck{name: "a"}, &stubCheck{name: "b"}}, StatusHealthy},
		{"one fails", []HealthCheck{&stubCheck{name: "a"}, &stubCheck{name: "b", err: errors.New("boom")}}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for _, c := range tt.checks {
				hc.AddCheck(c)
			}
			status := hc.CheckHealth(context.Background())
			if status.Status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, status.Status)
			}
			for _, c := range tt.checks {
				if _, ok := status.Checks[c.Name()]; !ok {
					t.Errorf("missing result for %s", c.Name())
				}
			}
		})
	}
}

func TestCheckHealthReportsMessage(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(&stubCheck{name: "fuel", err: errors.New("tank empty")})

	got := hc.CheckHealth(context.Background()).Checks["fuel"]
	if got.Status != StatusUnhealthy || got.Message != "tank empty" {
		t.Errorf("unexpected component result %+v", got)
	}
}

func TestReadinessTimesOut(t *testing.T) {
	hc := NewHealthChecker()
	hc.timeout = 20 * time.Millisecond
	hc.AddCheck(blockingCheck{})

	rec := httptest.NewRecorder()
	start := time.Now()
	hc.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("readiness did not honour its timeout, took %s", elapsed)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestHandlerRoutes(t *testing.T) {
	hc := NewHealthChecker()
	failing := &stubCheck{name: "player", err: errors.New("player destroyed")}
	hc.AddCheck(failing)
	srv := httptest.NewServer(hc.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	var alive map[string]string
	json.NewDecoder(resp.Body).Decode(&alive)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || alive["status"] != "alive" {
		t.Errorf("liveness: got %d %v", resp.StatusCode, alive)
	}

	resp, err = http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatal(err)
	}
	var status HealthStatus
	json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 with a failing check, got %d", resp.StatusCode)
	}
	if status.Checks["player"].Message != "player destroyed" {
		t.Errorf("unexpected readiness body %+v", status)
	}

	failing.err = nil
	resp, err = http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 once healthy, got %d", resp.StatusCode)
	}
}

func TestTickHealthCheck(t *testing.T) {
	var tick uint64
	clock := time.Unix(1000, 0)

	check := NewTickHealthCheck(func() uint64 { return tick }, 2*time.Second)
	check.now = func() time.Time { return clock }
	check.lastChange = clock

	if check.Name() != "simulation" {
		t.Errorf("unexpected name %q", check.Name())
	}

	clock = clock.Add(time.Second)
	if err := check.Check(context.Background()); err != nil {
		t.Errorf("within the stall window: %v", err)
	}

	clock = clock.Add(3 * time.Second)
	if err := check.Check(context.Background()); err == nil {
		t.Error("expected a stall error")
	}

	tick = 42
	if err := check.Check(context.Background()); err != nil {
		t.Errorf("advancing tick should be healthy: %v", err)
	}

	clock = clock.Add(time.Second)
	if err := check.Check(context.Background()); err != nil {
		t.Errorf("stall window restarts on progress: %v", err)
	}
}

func TestPlayerHealthCheck(t *testing.T) {
	alive := true
	check := NewPlayerHealthCheck(func() bool { return alive })

	if err := check.Check(context.Background()); err != nil {
		t.Errorf("live player: %v", err)
	}
	alive = false
	if err := check.Check(context.Background()); err == nil {
		t.Error("expected an error for a destroyed player")
	}
}

func TestMemoryHealthCheck(t *testing.T) {
	usage := int64(50)
	check := NewMemoryHealthCheck(100, func() int64 { return usage })

	if check.Name() != "memory" {
		t.Errorf("unexpected name %q", check.Name())
	}
	if err := check.Check(context.Background()); err != nil {
		t.Errorf("under limit: %v", err)
	}
	usage = 150
	if err := check.Check(context.Background()); err == nil {
		t.Error("expected an error over the limit")
	}
}

func TestHeapAllocMB(t *testing.T) {
	if HeapAllocMB() < 0 {
		t.Error("heap allocation should not be negative")
	}
}
