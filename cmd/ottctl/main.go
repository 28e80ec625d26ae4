// Command ottctl inspects an OTT usage dataset from the terminal.
//
// It runs the same classification, reshaping and filtering as the web
// dashboard and prints the results as tables or CSV.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/JonMunkholm/ottdash/internal/config"
	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/JonMunkholm/ottdash/internal/loader"
	"github.com/JonMunkholm/ottdash/internal/logging"
	"github.com/JonMunkholm/ottdash/internal/schema"
	"github.com/JonMunkholm/ottdash/internal/source"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app holds the flags shared by every subcommand and the service built from them.
type app struct {
	file       string
	sheet      string
	schemaFile string
	logLevel   string

	svc *core.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ottctl",
		Short:         "Inspect OTT usage-rate datasets",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.file, "file", "f", defaultDatasetPath(), "dataset file (.csv, .tsv or .xlsx)")
	flags.StringVar(&a.sheet, "sheet", os.Getenv("DATASET_SHEET"), "XLSX sheet name (default: first sheet)")
	flags.StringVar(&a.schemaFile, "schema", os.Getenv("DATASET_SCHEMA_FILE"), "YAML file overriding column conventions")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newClassifyCmd(a),
		newOptionsCmd(a),
		newViewCmd(a),
		newRecordsCmd(a),
		newExportCmd(a),
	)
	return root
}

// defaultDatasetPath follows the server: DATASET_PATH, then DATA_PATH, then
// the published file name.
func defaultDatasetPath() string {
	for _, key := range []string{"DATASET_PATH", "DATA_PATH"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return config.DefaultDatasetPath
}

func (a *app) init(cmd *cobra.Command) error {
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), a.logLevel, "text"))

	conv := schema.Default()
	if a.schemaFile != "" {
		var err error
		if conv, err = schema.LoadFile(a.schemaFile); err != nil {
			return err
		}
	}

	src, err := source.Open(a.file, source.Options{Sheet: a.sheet})
	if err != nil {
		return err
	}

	a.svc, err = core.NewService(loader.New(), src, conv)
	return err
}

// dataset loads the dataset, turning errors into their user message.
func (a *app) dataset(ctx context.Context) (*core.Dataset, error) {
	ds, err := a.svc.Dataset(ctx)
	if err != nil {
		return nil, userError(err)
	}
	return ds, nil
}

// userError keeps the technical error in the log and returns the message
// a user can act on.
func userError(err error) error {
	slog.Debug("command failed", "error", err)
	msg := core.MapError(err)
	return fmt.Errorf("%s (%s): %s\n  %s", msg.Message, msg.Code, err, msg.Action)
}
