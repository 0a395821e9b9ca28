// Package root contains the root command for the application
package root

import (
	"bytes"
	"fmt"

	"fjacquet/ud-extract/internal/config"
	"fjacquet/ud-extract/internal/container"
	"fjacquet/ud-extract/internal/extracterror"
	"fjacquet/ud-extract/internal/fileutils"
	"fjacquet/ud-extract/internal/logging"
	"fjacquet/ud-extract/internal/report"

	"github.com/spf13/cobra"
)

// State is shared between the root command and its subcommands. App is
// available once the persistent pre-run hook has loaded the configuration.
type State struct {
	ConfigFile  string
	PrintConfig bool
	App         *container.Container
}

// Subcommand builds a child command bound to the shared state.
type Subcommand func(st *State) *cobra.Command

// ExactArgs is cobra.ExactArgs reporting extracterror.ErrInvalidArguments.
func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", extracterror.ErrInvalidArguments, err)
		}
		return nil
	}
}

// NewCommand builds the root command: a full two-pass extraction of
// <input-file> for <merchant-id>/<product-id>.
func NewCommand(subcommands ...Subcommand) *cobra.Command {
	st := &State{}

	cmd := &cobra.Command{
		Use:   "ud-extract <input-file> <merchant-id> <product-id>",
		Short: "Extract and summarize the log records of one merchant/product pair",
		Long: `ud-extract reads a line-oriented log file twice. The first pass collects the
trace ids of lines mentioning the merchant and then the product; the second
pass gathers every line carrying one of those trace ids. The report lists
the status and retCode found for each trace id, or nil when absent.

Progress and warnings are written to stderr; the report goes to stdout.`,
		Args:          ExactArgs(3),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return st.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, st, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&st.ConfigFile, "config", "", "Config file (default: ud-extract.yaml in ., .ud-extract or $HOME/.ud-extract)")
	pf.BoolVar(&st.PrintConfig, "print-config", false, "Print the effective configuration to stderr")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text or json)")
	pf.String("compression", "auto", "Input compression (auto, none, gzip, zstd)")
	pf.Int("max-line-bytes", 0, "Longest accepted input line in bytes (default 20 MiB)")
	pf.Bool("in-memory", false, "Read the input once into memory instead of re-opening it for each pass")
	pf.Bool("strict", false, "Abort when a matching line has no trace id instead of skipping it")

	f := cmd.Flags()
	f.String("format", "text", "Report format (text, csv, json, yaml)")
	f.StringP("output", "o", "", "Write the report to a file instead of stdout")
	f.Bool("sort", false, "Sort report rows by trace id")

	for _, sub := range subcommands {
		cmd.AddCommand(sub(st))
	}

	return cmd
}

func (st *State) init(cmd *cobra.Command) error {
	cfg, err := config.Load(st.ConfigFile, cmd.Flags())
	if err != nil {
		return err
	}

	if st.PrintConfig {
		if err := cfg.WriteYAML(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	app, err := container.NewContainerWithLogger(cfg, cfg.NewLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	st.App = app
	return nil
}

func runExtract(cmd *cobra.Command, st *State, args []string) error {
	log := st.App.GetLogger()
	cfg := st.App.GetConfig()

	req := container.Request{InputFile: args[0], MerchantID: args[1], ProductID: args[2]}
	log.Info("Extract command called",
		logging.F(logging.FieldInputFile, req.InputFile),
		logging.F(logging.FieldMerchant, req.MerchantID),
		logging.F(logging.FieldProduct, req.ProductID))

	rows, err := st.App.Extract(cmd.Context(), req)
	if err != nil {
		return err
	}

	// Render fully before writing so a failure never leaves a partial report.
	var buf bytes.Buffer
	if err := report.Write(&buf, rows, cfg.ReportFormat()); err != nil {
		return err
	}

	if err := WriteOutput(cmd, cfg.Output.File, buf.Bytes()); err != nil {
		return err
	}

	log.Info("Report written",
		logging.F(logging.FieldCount, len(rows)),
		logging.F(logging.FieldFormat, string(cfg.ReportFormat())),
		logging.F(logging.FieldOutputFile, cfg.Output.File))
	return nil
}

// WriteOutput writes data to path, or to the command's stdout when path is empty.
func WriteOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("error writing report: %w", err)
		}
		return nil
	}

	file, err := fileutils.CreateFile(path)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("error writing report to %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing report %s: %w", path, err)
	}
	return nil
}
