package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("backup storage temporarily unavailable")

// BreakerUploader stops calling a failing remote after a run of consecutive
// upload errors and probes it again once the timeout has passed.
type BreakerUploader struct {
	next    Uploader
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerUploader wraps next with a circuit breaker that opens after
// threshold consecutive failures. A zero threshold defaults to 3.
func NewBreakerUploader(next Uploader, threshold uint32, timeout time.Duration, logger *slog.Logger) *BreakerUploader {
	if threshold == 0 {
		threshold = 3
	}
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "backup-upload",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"component", "backup",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerUploader{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Upload forwards to the wrapped uploader unless the breaker is open.
func (b *BreakerUploader) Upload(ctx context.Context, name string, filePath string) error {
	_, err := b.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Upload(ctx, name, filePath)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// PresignedURL signs locally and bypasses the breaker.
func (b *BreakerUploader) PresignedURL(ctx context.Context, name string) (string, time.Time, error) {
	return b.next.PresignedURL(ctx, name)
}

// State reports the breaker state for health output.
func (b *BreakerUploader) State() string {
	return b.breaker.State().String()
}
