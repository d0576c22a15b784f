package main

import (
	"database/sql"
	"fmt"
	"os"

	"ainotebook/internal"
	"ainotebook/internal/config"
	"ainotebook/internal/focuslog"
	"ainotebook/internal/logging"
	"ainotebook/internal/note"
	"ainotebook/internal/pomodoro"
	"ainotebook/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg      config.Config
	logger   *zap.Logger
	db       *sql.DB
	notes    *note.Repository
	sessions *focuslog.Repository
)

var rootCmd = &cobra.Command{
	Use:   "ainotebook",
	Short: "Terminal notebook with a pomodoro timer",
	Long: `ainotebook keeps markdown notes, notebooks and tags in a local SQLite
database and tracks focus sessions with a 25 minute pomodoro timer.

Run without arguments to open the interactive interface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.Log, verbose)
		if err != nil {
			return err
		}

		db, err = store.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		notes = note.NewRepository(db)
		sessions = focuslog.NewRepository(db)
		logger.Debug("database opened", zap.String("path", cfg.Database.Path))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func runInteractive() error {
	engine := pomodoro.New(
		pomodoro.WithLogger(logger.Named("pomodoro")),
		pomodoro.WithOnExpire(bell),
	)

	m, err := internal.NewModel(internal.Deps{
		Notes:    notes,
		Sessions: sessions,
		Timer:    engine,
		Logger:   logger.Named("tui"),
		Preview:  cfg.Preview,
	})
	if err != nil {
		engine.Close()
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func bell() {
	if cfg.Pomodoro.Bell {
		fmt.Fprint(os.Stderr, "\a")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(listCmd, addCmd, showCmd, notebookCmd, tagsCmd, sessionsCmd, timerCmd)
}

// execute runs the command line and releases what PersistentPreRunE
// opened, whether or not the command failed.
func execute() error {
	err := rootCmd.Execute()
	teardown()
	return err
}

func teardown() {
	if db != nil {
		db.Close()
		db = nil
	}
	if logger != nil {
		_ = logger.Sync()
		logger = nil
	}
	notes, sessions = nil, nil
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
