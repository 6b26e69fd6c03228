// Package cli implements the mkp command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/mkp/internal/version"
	"github.com/arthur-debert/mkp/pkg/config"
	"github.com/arthur-debert/mkp/pkg/errors"
	"github.com/arthur-debert/mkp/pkg/logging"
	"github.com/arthur-debert/mkp/pkg/ui"
)

// app carries global flags and the state derived from them to the commands
type app struct {
	verbosity  int
	configFile string
	format     string

	cfg *config.Config
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

// Execute runs the command line and renders a failure to stderr. It
// returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		a.renderError(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mkp",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLoggerWithOutput(a.verbosity, cmd.ErrOrStderr())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "build", Title: "BUILD:"})
	rootCmd.AddGroup(&cobra.Group{ID: "inspect", Title: "INSPECT:"})

	rootCmd.AddCommand(newFindCmd(a))
	rootCmd.AddCommand(newPackCmd(a))
	rootCmd.AddCommand(newDistCmd(a))
	rootCmd.AddCommand(newValidateCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadConfig layers the configuration and applies flag overrides
func (a *app) loadConfig(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("format") {
		format, err := ui.ParseFormat(a.format)
		if err != nil {
			return err
		}
		overrides["output.format"] = format.String()
	}

	cfg, err := config.LoadConfiguration(config.LoadOptions{
		File:      a.configFile,
		Overrides: overrides,
	})
	if err != nil {
		return err
	}
	config.Initialize(cfg)
	a.cfg = cfg
	return nil
}

// settings returns the loaded configuration, or the defaults before loading
func (a *app) settings() *config.Config {
	if a.cfg == nil {
		return config.Default()
	}
	return a.cfg
}

func (a *app) renderer(w io.Writer) (ui.Renderer, error) {
	cfg := a.settings()
	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, w, ui.Options{Width: cfg.Output.Width})
}

// renderError reports err in the configured format. The --format flag wins
// so that a broken configuration can still be reported as JSON.
func (a *app) renderError(w io.Writer, err error) {
	format, perr := ui.ParseFormat(a.format)
	if perr != nil || a.format == "" {
		format, _ = ui.ParseFormat(a.settings().Output.Format)
	}

	r, rerr := ui.NewRenderer(format, w, ui.Options{})
	if rerr == nil && r.RenderError(err) == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
