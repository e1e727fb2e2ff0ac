package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tpqls774/libris/internal/config"
	"github.com/tpqls774/libris/internal/profile"
	"github.com/tpqls774/libris/internal/storage"
)

// BackupCommand exports every stored slot to a JSON file.
type BackupCommand struct {
	DatabasePath string
	OutputPath   string
	Verbose      bool
}

func NewBackupCommand() *BackupCommand {
	return &BackupCommand{}
}

func (cmd *BackupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.OutputPath, "output", "", "Path of the backup file to write (required)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s backup -output <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the bookshelf, profile and notifications to a JSON file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s backup -output ~/backups/libris.json\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.OutputPath == "" {
		return fmt.Errorf("required flag -output not provided")
	}

	return nil
}

// backupFile mirrors the HTTP export format so either output restores
// through the restore command or the import endpoint.
type backupFile struct {
	ExportedAt string            `json:"exportedAt"`
	Slots      map[string]string `json:"slots"`
}

func (cmd *BackupCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	slots, err := storage.Open(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer slots.Close()

	all, err := slots.All()
	if err != nil {
		return fmt.Errorf("failed to read slots: %w", err)
	}

	now := time.Now()
	doc := backupFile{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Slots:      all,
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := os.WriteFile(cmd.OutputPath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	if err := profile.NewStore(slots).MarkBackup(now); err != nil {
		return fmt.Errorf("failed to stamp last backup time: %w", err)
	}

	if cmd.Verbose {
		for key := range all {
			fmt.Printf("  exported %s\n", key)
		}
	}

	fmt.Printf("Backed up %d slots to %s\n", len(all), cmd.OutputPath)
	return nil
}
