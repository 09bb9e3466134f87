// ABOUTME: Root Cobra command for nutrition CLI.
// ABOUTME: Handles config, logger, storage, catalog and ledger lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/nutrition/internal/catalog"
	"github.com/harperreed/nutrition/internal/config"
	"github.com/harperreed/nutrition/internal/ledger"
	"github.com/harperreed/nutrition/internal/logger"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	log    *logger.Logger
	repo   storage.Repository
	cat    *catalog.Catalog
	led    *ledger.Ledger
	userID int64
)

// newLogger builds the process logger; tests swap it to observe output.
var newLogger = logger.New

var rootCmd = &cobra.Command{
	Use:   "nutrition",
	Short: "Personal nutrition and hydration ledger",
	Long: `Nutrition is a CLI tool for logging what you eat and drink.

WHAT IT TRACKS:

  Meals     foods from a built-in catalog, converted to calories and macros
  Water     millilitres per day
  Weight    one body-weight sample per day
  Combos    saved groups of foods you eat together

QUICK START:

  $ nutrition food search rice                       # Find food IDs
  $ nutrition log lunch white-rice:150 bread-slice:2 # Log 150 g rice, 2 slices
  $ nutrition water 500                              # Log 500 ml water
  $ nutrition weight add 81.4                        # Log today's weight
  $ nutrition today                                  # See today's totals

COMBOS:

  $ nutrition combo save breakfast oats:40 milk:200  # Save a combo
  $ nutrition combo list                             # List combos
  $ nutrition combo log 1 breakfast                  # Log combo 1

MCP INTEGRATION:

  Run 'nutrition mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "nutrition": { "command": "nutrition", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data is stored locally in SQLite at ~/.local/share/nutrition/nutrition.db
  (or a Badger key/value store with 'nutrition config set backend kv').
  Settings live in ~/.config/nutrition/config.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		base, err := newLogger(cfg.GetLogLevel())
		if err != nil {
			return err
		}
		log = base.With("command", cmd.CommandPath())

		// Skip storage for commands that don't need it
		if !needsStorage(cmd) {
			return nil
		}

		cat, err = cfg.LoadCatalog()
		if err != nil {
			return fmt.Errorf("failed to load food catalog: %w", err)
		}

		repo, err = cfg.OpenStorage(log)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		userID = cfg.GetUserID()
		led = ledger.New(repo, ledger.WithLogger(log))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if repo != nil {
			err = repo.Close()
			repo = nil
		}
		if log != nil {
			log.Sync()
		}
		return err
	},
}

// needsStorage reports whether cmd reads or writes the ledger.
func needsStorage(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", "completion", "install-skill":
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return false
		}
	}
	return true
}

// parseTime accepts the timestamp formats the CLI understands.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// parseDate resolves a --date flag. Empty means today.
func parseDate(s string) (models.Date, error) {
	if s == "" {
		if led != nil {
			return led.Today(), nil
		}
		return models.Today(), nil
	}
	t, err := parseTime(s)
	if err != nil {
		return "", fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", s)
	}
	return models.DateOf(t), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
