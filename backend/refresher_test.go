package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/etnz/pdash"
	"github.com/rs/zerolog"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSource) Snapshot(ctx context.Context) (*pdash.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &pdash.Snapshot{Account: pdash.Account{NetLiquidityUSD: pdash.M(f.calls, "USD")}}, nil
}

type recorder struct {
	mu    sync.Mutex
	snaps []*pdash.Snapshot
}

func (r *recorder) Update(s *pdash.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func TestRefresher_RunNow(t *testing.T) {
	src := &fakeSource{}
	dst := &recorder{}
	r := NewRefresher(src, dst, time.Minute, zerolog.Nop())

	if err := r.RunNow(context.Background()); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}
	if dst.len() != 1 {
		t.Fatalf("got %d updates, want 1", dst.len())
	}

	src.err = errors.New("backend down")
	if err := r.RunNow(context.Background()); err == nil {
		t.Error("RunNow() succeeded with a failing source")
	}
	if dst.len() != 1 {
		t.Errorf("a failed refresh updated the snapshot")
	}
}

func TestRefresher_Schedule(t *testing.T) {
	src := &fakeSource{}
	dst := &recorder{}
	r := NewRefresher(src, dst, time.Second, zerolog.Nop())
	if err := r.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for dst.len() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	r.Stop()
	if dst.len() == 0 {
		t.Error("no scheduled refresh ran")
	}
}

func TestRefresher_InvalidInterval(t *testing.T) {
	r := NewRefresher(&fakeSource{}, &recorder{}, 0, zerolog.Nop())
	if err := r.Start(); err == nil {
		t.Error("Start() with a zero interval succeeded")
	}
}

func TestRefresher_UpdatesEngine(t *testing.T) {
	e := pdash.NewEngine(pdash.DefaultConfig(), zerolog.Nop())
	src := NewFile("testdata/portfolio.json", pdash.DefaultConfig())
	if err := NewRefresher(src, e, time.Minute, zerolog.Nop()).RunNow(context.Background()); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}
	if got := e.View().KPI.PositionsCount; got != 2 {
		t.Errorf("PositionsCount = %d, want 2", got)
	}
}
