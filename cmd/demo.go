package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pullscroll/internal/colors"
	"github.com/cristianoliveira/pullscroll/internal/config"
	"github.com/cristianoliveira/pullscroll/internal/feed"
	"github.com/cristianoliveira/pullscroll/internal/logging"
	"github.com/cristianoliveira/pullscroll/internal/tui/demo"
	"github.com/spf13/cobra"
)

var (
	failEveryFlag int
	resetFlag     bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive demo feed",
	Long: `Run the interactive demo feed.

USAGE:
    pullscroll demo [--fail-every N] [--reset]

MOUSE:
    Drag down at the top       Refresh the feed
    Drag up at the bottom      Load the next page
    Wheel                      Scroll

KEY BINDINGS:
    j/k         Scroll up/down
    q           Quit`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&failEveryFlag, "fail-every", -1, "make every Nth action fail (overrides fail_every)")
	demoCmd.Flags().BoolVar(&resetFlag, "reset", false, "start from the initial page")
	RootCmd.AddCommand(demoCmd)
}

// demoConfig builds the demo settings from the loaded configuration.
func demoConfig() demo.Config {
	cfg := demo.Config{
		Pager: feed.Pager{
			Initial:  config.GetInt("initial_items", 20),
			PageSize: config.GetInt("page_size", 10),
			MaxPages: config.GetInt("max_pages", 5),
		},
		CellHeight:   config.GetInt("cell_height", 16),
		RefreshDelay: time.Duration(config.GetInt("refresh_delay_ms", 1000)) * time.Millisecond,
		LoadDelay:    time.Duration(config.GetInt("load_delay_ms", 1000)) * time.Millisecond,
		FailEvery:    config.GetInt("fail_every", 0),
	}
	if failEveryFlag >= 0 {
		cfg.FailEvery = failEveryFlag
	}
	return cfg
}

func feedPath() string {
	return filepath.Join(config.Get("state_dir", ""), "feed.db")
}

func runDemo(cmd *cobra.Command, args []string) error {
	config.Load()
	colors.SetDebug(config.GetBool("debug", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning(fmt.Sprintf("File logging disabled: %v", err))
	}
	defer func() { _ = logging.ShutdownGlobal() }()
	// The alternate screen owns the terminal from here on.
	colors.DisableStructuredLogging()
	defer colors.EnableStructuredLogging()

	store, err := feed.Open(feedPath())
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg := demoConfig()
	if resetFlag {
		if err := store.Reset(ctx, cfg.Pager.Initial); err != nil {
			return fmt.Errorf("demo: %w", err)
		}
	}

	model, err := demo.NewModel(ctx, store, cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("demo: run: %w", err)
	}
	return nil
}
