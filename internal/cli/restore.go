package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tpqls774/libris/internal/config"
	"github.com/tpqls774/libris/internal/storage"
)

// RestoreCommand loads slots from a backup file, overwriting the
// current values of the keys it carries.
type RestoreCommand struct {
	DatabasePath string
	InputPath    string
	Verbose      bool
	DryRun       bool
}

func NewRestoreCommand() *RestoreCommand {
	return &RestoreCommand{}
}

func (cmd *RestoreCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.InputPath, "file", "", "Path of the backup file to restore (required)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be restored without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s restore -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Restore the bookshelf, profile and notifications from a backup file.\n")
		fmt.Fprintf(os.Stderr, "Keys present in the backup overwrite the stored values.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s restore -file ~/backups/libris.json\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.InputPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *RestoreCommand) Run() error {
	raw, err := os.ReadFile(cmd.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var doc backupFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode backup file: %w", err)
	}
	if len(doc.Slots) == 0 {
		return fmt.Errorf("backup carries no slots")
	}

	fmt.Printf("Backup from %s with %d slots\n", doc.ExportedAt, len(doc.Slots))

	if cmd.DryRun {
		for key := range doc.Slots {
			fmt.Printf("  would restore %s\n", key)
		}
		fmt.Println("Dry run complete. Use without -dry-run to restore.")
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	slots, err := storage.Open(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer slots.Close()

	for key, value := range doc.Slots {
		if err := slots.Set(key, value); err != nil {
			return fmt.Errorf("failed to restore %s: %w", key, err)
		}
		if cmd.Verbose {
			fmt.Printf("  restored %s\n", key)
		}
	}

	fmt.Printf("Restored %d slots to %s\n", len(doc.Slots), absDBPath)
	return nil
}
