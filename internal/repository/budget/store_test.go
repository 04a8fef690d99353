package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/riskdesk/internal/db"
)

type mockKV struct {
	data    map[string][]byte
	incrs   map[string]int64
	expires map[string]time.Duration
	getErr  error
	incrErr error
}

func newMockKV() *mockKV {
	return &mockKV{
		data:    map[string][]byte{},
		incrs:   map[string]int64{},
		expires: map[string]time.Duration{},
	}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) IncrCounter(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	if m.incrErr != nil {
		return 0, m.incrErr
	}
	m.incrs[key] += delta
	if _, set := m.expires[key]; !set {
		m.expires[key] = ttl
	}
	return m.incrs[key], nil
}

func TestIncrBy_SetsTTLByPeriod(t *testing.T) {
	kv := newMockKV()
	s := New(kv, time.Hour, 2*time.Hour)
	ctx := context.Background()

	daily := "riskdesk:budget:openai:daily:2026-10-19"
	monthly := "riskdesk:budget:openai:monthly:2026-10"
	if err := s.IncrBy(ctx, daily, 5); err != nil {
		t.Fatal(err)
	}
	if err := s.IncrBy(ctx, monthly, 5); err != nil {
		t.Fatal(err)
	}

	if kv.incrs[daily] != 5 {
		t.Errorf("daily incr = %d", kv.incrs[daily])
	}
	if kv.expires[daily] != time.Hour {
		t.Errorf("daily ttl = %v, want 1h", kv.expires[daily])
	}
	if kv.expires[monthly] != 2*time.Hour {
		t.Errorf("monthly ttl = %v, want 2h", kv.expires[monthly])
	}
}

func TestNew_DefaultTTLs(t *testing.T) {
	s := New(newMockKV(), 0, -1)
	if s.dailyTTL != DefaultDailyTTL || s.monthTTL != DefaultMonthlyTTL {
		t.Errorf("unexpected defaults: %v %v", s.dailyTTL, s.monthTTL)
	}
}

func TestIncrBy_Error(t *testing.T) {
	cause := errors.New("conn reset")

	kv := newMockKV()
	kv.incrErr = cause
	if err := New(kv, 0, 0).IncrBy(context.Background(), "k", 1); !errors.Is(err, cause) {
		t.Errorf("expected incr cause, got %v", err)
	}
}

func TestGet(t *testing.T) {
	kv := newMockKV()
	kv.data["present"] = []byte("1234")
	kv.data["garbage"] = []byte("12a")
	s := New(kv, 0, 0)
	ctx := context.Background()

	if v, err := s.Get(ctx, "present"); err != nil || v != 1234 {
		t.Errorf("Get(present) = %d, %v", v, err)
	}
	if v, err := s.Get(ctx, "missing"); err != nil || v != 0 {
		t.Errorf("Get(missing) = %d, %v; want 0, nil", v, err)
	}
	if _, err := s.Get(ctx, "garbage"); err == nil {
		t.Error("expected parse error")
	}

	kv.getErr = errors.New("timeout")
	if _, err := s.Get(ctx, "present"); err == nil {
		t.Error("expected store error")
	}
}
