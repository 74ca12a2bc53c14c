package api

import (
	"context"
	"errors"
	"time"

	"github.com/dekadapp/dekad/internal/types"
)

// todayContextKey is the context key for the reference day of a request.
type todayContextKey struct{}

// periodContextKey is the context key for the period resolved from the URL.
type periodContextKey struct{}

// ErrNoPeriodInContext indicates no period was found in the context.
var ErrNoPeriodInContext = errors.New("no period in context")

// WithToday returns a new context carrying the reference day.
func WithToday(ctx context.Context, today time.Time) context.Context {
	return context.WithValue(ctx, todayContextKey{}, today)
}

// TodayFromContext extracts the reference day from the context.
// ok is false when none was set.
func TodayFromContext(ctx context.Context) (today time.Time, ok bool) {
	today, ok = ctx.Value(todayContextKey{}).(time.Time)
	return today, ok
}

// WithPeriod returns a new context with the period attached.
func WithPeriod(ctx context.Context, p *types.Period) context.Context {
	return context.WithValue(ctx, periodContextKey{}, p)
}

// PeriodFromContext extracts the period from the context.
// Returns ErrNoPeriodInContext if not present or nil.
func PeriodFromContext(ctx context.Context) (*types.Period, error) {
	p, ok := ctx.Value(periodContextKey{}).(*types.Period)
	if !ok || p == nil {
		return nil, ErrNoPeriodInContext
	}
	return p, nil
}

// MustPeriodFromContext extracts the period or panics.
// Use only when middleware guarantees period presence.
func MustPeriodFromContext(ctx context.Context) *types.Period {
	p, err := PeriodFromContext(ctx)
	if err != nil {
		panic("period not in context: middleware misconfiguration")
	}
	return p
}
