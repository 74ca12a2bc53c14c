package backup

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// Source is the store side of a backup.
type Source interface {
	GenerateBackup(ctx context.Context, path string) error
	RecordBackup(ctx context.Context, at time.Time) error
}

// Result describes a completed backup.
type Result struct {
	Path     string
	Name     string
	Uploaded bool
	TakenAt  time.Time
}

// Take writes a snapshot of src into dir, uploads it and records the backup
// time. A failed upload leaves the local snapshot in place and is returned
// as an error; the backup time is only recorded once the upload succeeds.
func Take(ctx context.Context, src Source, uploader Uploader, dir string, now time.Time) (*Result, error) {
	name := SnapshotName(now)
	path := filepath.Join(dir, name)

	if err := src.GenerateBackup(ctx, path); err != nil {
		return nil, fmt.Errorf("generate snapshot: %w", err)
	}

	res := &Result{Path: path, Name: name, TakenAt: now}
	if uploader != nil {
		if _, local := uploader.(*NoopUploader); !local {
			if err := uploader.Upload(ctx, name, path); err != nil {
				return res, fmt.Errorf("upload snapshot: %w", err)
			}
			res.Uploaded = true
		}
	}

	if err := src.RecordBackup(ctx, now); err != nil {
		return res, fmt.Errorf("record backup: %w", err)
	}
	return res, nil
}
