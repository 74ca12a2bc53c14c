package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dekadapp/dekad/internal/backup"
)

var (
	backupOut        string
	backupPresign    bool
	backupJSONOutput bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a database snapshot",
	Long:  "Write a consistent snapshot of the database and upload it when a backup bucket is configured.",
	Args:  cobra.NoArgs,
	RunE:  runBackup,
}

func init() {
	addLocalFlags(backupCmd)
	backupCmd.Flags().StringVar(&backupOut, "out", "",
		"Snapshot directory (default: backup.dir from config)")
	backupCmd.Flags().BoolVar(&backupPresign, "presign", false,
		"Print a pre-signed download URL for the uploaded snapshot")
	backupCmd.Flags().BoolVar(&backupJSONOutput, "json", false,
		"Output in JSON format")
}

func runBackup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, db, err := openLocalStore()
	if err != nil {
		return err
	}
	defer db.Close()

	uploader, err := backup.NewUploader(cfg.Backup, slog.Default())
	if err != nil {
		return fmt.Errorf("configure uploader: %w", err)
	}

	dir := backupOut
	if dir == "" {
		dir = cfg.Backup.Dir
	}

	res, err := backup.Take(ctx, db, uploader, dir, time.Now().UTC())
	if err != nil {
		if res != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Snapshot kept locally at %s\n", res.Path)
		}
		return err
	}

	var url string
	var expires time.Time
	if backupPresign && !res.Uploaded {
		fmt.Fprintln(cmd.ErrOrStderr(), "No backup bucket configured; nothing to presign")
	}
	if backupPresign && res.Uploaded {
		url, expires, err = uploader.PresignedURL(ctx, res.Name)
		if err != nil {
			return fmt.Errorf("presign snapshot: %w", err)
		}
	}

	if backupJSONOutput {
		out := map[string]any{
			"path":     res.Path,
			"name":     res.Name,
			"uploaded": res.Uploaded,
			"taken_at": res.TakenAt,
		}
		if url != "" {
			out["url"] = url
			out["url_expires_at"] = expires
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", res.Path)
	if res.Uploaded {
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded as %s\n", res.Name)
	}
	if url != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Download URL (expires %s): %s\n", expires.Format(time.RFC3339), url)
	}
	return nil
}
