package backup

import (
	"context"
	"errors"
	"testing"
	"time"
)

// countingUploader fails every upload with err and counts calls.
type countingUploader struct {
	err   error
	calls int
}

func (c *countingUploader) Upload(ctx context.Context, name string, filePath string) error {
	c.calls++
	return c.err
}

func (c *countingUploader) PresignedURL(ctx context.Context, name string) (string, time.Time, error) {
	return "https://example.com/" + name, time.Time{}, nil
}

func TestBreakerUploader_OpensAfterThreshold(t *testing.T) {
	boom := errors.New("connection refused")
	next := &countingUploader{err: boom}
	b := NewBreakerUploader(next, 2, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := b.Upload(ctx, "x.db", "/tmp/x.db"); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected remote error, got %v", i, err)
		}
	}

	err := b.Upload(ctx, "x.db", "/tmp/x.db")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable once open, got %v", err)
	}
	if next.calls != 2 {
		t.Errorf("remote called %d times, want 2", next.calls)
	}
	if b.State() != "open" {
		t.Errorf("State() = %q, want open", b.State())
	}
}

func TestBreakerUploader_SuccessResetsFailures(t *testing.T) {
	next := &countingUploader{err: errors.New("flaky")}
	b := NewBreakerUploader(next, 2, time.Minute, nil)
	ctx := context.Background()

	_ = b.Upload(ctx, "x.db", "/tmp/x.db")
	next.err = nil
	if err := b.Upload(ctx, "x.db", "/tmp/x.db"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	next.err = errors.New("flaky")
	_ = b.Upload(ctx, "x.db", "/tmp/x.db")

	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerUploader_HalfOpenAfterTimeout(t *testing.T) {
	next := &countingUploader{err: errors.New("down")}
	b := NewBreakerUploader(next, 1, 20*time.Millisecond, nil)
	ctx := context.Background()

	_ = b.Upload(ctx, "x.db", "/tmp/x.db")
	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}

	time.Sleep(40 * time.Millisecond)
	next.err = nil
	if err := b.Upload(ctx, "x.db", "/tmp/x.db"); err != nil {
		t.Fatalf("probe upload error = %v", err)
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed after successful probe", b.State())
	}
}

func TestBreakerUploader_PresignedURLPassesThrough(t *testing.T) {
	b := NewBreakerUploader(&countingUploader{}, 1, time.Minute, nil)

	got, _, err := b.PresignedURL(context.Background(), "x.db")
	if err != nil || got != "https://example.com/x.db" {
		t.Errorf("PresignedURL = %q, %v", got, err)
	}
}
