package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/feelsunbreeze/gradecalc/internal/config"
	"github.com/feelsunbreeze/gradecalc/internal/forms"
	"github.com/feelsunbreeze/gradecalc/internal/logging"
	"github.com/feelsunbreeze/gradecalc/internal/session"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

const appVersion = "1.0.0"

// app carries what every command needs once flags are parsed.
type app struct {
	cfg     config.Config
	logger  gokitlog.Logger
	closer  io.Closer
	session *session.Session
}

func (a *app) setup(cmd *cobra.Command, envFile, dataDir string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	a.cfg = cfg

	// The TUI owns the terminal, so it logs to a file; subcommands log to stderr.
	if cmd.Parent() == nil {
		logger, closer, err := logging.New(cfg.DataDir, config.AppName, cfg.LogLevel)
		if err != nil {
			return err
		}
		a.logger, a.closer = logger, closer
	} else {
		a.logger = logging.NewWriter(cmd.ErrOrStderr(), cfg.LogLevel)
	}

	s, err := session.Open(cfg.DataDir, a.logger)
	if err != nil {
		return err
	}
	a.session = s
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

func (a *app) runTUI() error {
	client := forms.NewClient(a.cfg.ProfileEndpoint, a.cfg.QueryEndpoint, a.cfg.HTTPTimeout, a.logger)
	p := tea.NewProgram(NewModel(a.session, client, a.cfg.ExportDir), tea.WithAltScreen())

	return logging.TimeFunction(a.logger, "tui", func() error {
		_, err := p.Run()
		return err
	})
}

func newRootCmd() *cobra.Command {
	var (
		envFile string
		dataDir string
		a       app
	)

	cmd := &cobra.Command{
		Use:           "gradecalc",
		Short:         "REC grade calculator: end-sem targets, GPA and CGPA",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, envFile, dataDir)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			level.Info(a.logger).Log("msg", "starting", "version", appVersion, "data_dir", a.cfg.DataDir)
			return a.runTUI()
		},
	}

	cmd.Version = appVersion
	cmd.SetVersionTemplate("gradecalc v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Env file to load before reading GRADECALC_* variables")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for the profile, history and logs (overrides GRADECALC_DATA_DIR)")

	cmd.AddCommand(
		newEndSemCmd(&a),
		newCGPACmd(&a),
		newHistoryCmd(&a),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
