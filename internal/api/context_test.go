package api

import (
	"context"
	"testing"
	"time"

	"github.com/dekadapp/dekad/internal/types"
)

func TestWithToday_TodayFromContext_RoundTrip(t *testing.T) {
	today := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

	got, ok := TodayFromContext(WithToday(context.Background(), today))
	if !ok {
		t.Fatal("TodayFromContext reported no value")
	}
	if !got.Equal(today) {
		t.Errorf("got %v, want %v", got, today)
	}
}

func TestTodayFromContext_Missing(t *testing.T) {
	if _, ok := TodayFromContext(context.Background()); ok {
		t.Error("expected ok=false without a reference day")
	}
}

func TestWithPeriod_PeriodFromContext_RoundTrip(t *testing.T) {
	p := &types.Period{ID: "01J0000000000000000000000A", Year: 2025, Number: 4}

	got, err := PeriodFromContext(WithPeriod(context.Background(), p))
	if err != nil {
		t.Fatalf("PeriodFromContext returned error: %v", err)
	}
	if got != p {
		t.Errorf("got different period instance, want same instance")
	}
}

func TestPeriodFromContext_NoPeriod(t *testing.T) {
	_, err := PeriodFromContext(context.Background())
	if err != ErrNoPeriodInContext {
		t.Errorf("error = %v, want ErrNoPeriodInContext", err)
	}
}

func TestPeriodFromContext_NilPeriod(t *testing.T) {
	_, err := PeriodFromContext(WithPeriod(context.Background(), nil))
	if err != ErrNoPeriodInContext {
		t.Errorf("error = %v, want ErrNoPeriodInContext", err)
	}
}

func TestMustPeriodFromContext_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustPeriodFromContext did not panic")
		}
	}()

	MustPeriodFromContext(context.Background())
}
