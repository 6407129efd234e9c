package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wfl-lang/wflpattern"
	"github.com/wfl-lang/wflpattern/internal/config"
	"github.com/wfl-lang/wflpattern/internal/logger"
)

const appName = "wflpat"

var (
	Version     = "0.1.0"
	CommitSha   = "unknown"
	FullVersion = Version + "-" + CommitSha
)

// errNoMatch makes the process exit with status 1 without a message,
// like grep when nothing matched.
var errNoMatch = errors.New("no match")

// app holds the global flags and the state they resolve to.
type app struct {
	configPath string
	colorMode  string
	stepLimit  int
	logFile    string

	cfg    *config.Config
	closer io.Closer
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfigFromFile(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cmd.Flags().Changed("color") {
		cfg.Output.Color = a.colorMode
	}
	if a.stepLimit > 0 {
		cfg.Engine.StepLimit = a.stepLimit
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	closer, err := logger.InitLogger(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		// Logging is best effort; matching still works without it.
		logger.Discard()
	} else {
		a.closer = closer
	}

	color.NoColor = !useColor(cfg.Output.Color, cmd.OutOrStdout())
	slog.Debug("configured", "config", a.configPath, "step_limit", cfg.Engine.StepLimit, "color", cfg.Output.Color)
	return nil
}

func (a *app) teardown() {
	if a.closer != nil {
		a.closer.Close() // nolint: errcheck
		a.closer = nil
	}
}

func (a *app) options() wflpattern.Options {
	return wflpattern.Options{StepLimit: a.cfg.Engine.StepLimit}
}

// useColor resolves the color mode; "auto" colors only a terminal.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Compile and run WFL natural-language patterns",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Compile and run WFL natural-language patterns. %s",
			color.New(color.FgBlue).Sprintf("(%s)", FullVersion),
		),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "Path of the configuration file")
	rootCmd.PersistentFlags().StringVar(&a.colorMode, "color", "auto", "Color output: auto, always or never")
	rootCmd.PersistentFlags().IntVar(&a.stepLimit, "step-limit", 0, "Backtracking budget per match attempt (0 uses the configured default)")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Write the log to this file instead of the configured one")

	rootCmd.AddCommand(
		newCheckCmd(a),
		newMatchCmd(a),
		newFindCmd(a),
		newReplaceCmd(a),
		newSplitCmd(a),
		newGenCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNoMatch) {
			slog.Error("Error executing command", "error", err)
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
