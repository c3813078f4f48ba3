package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SirClappington/reingest/internal/config"
	"github.com/SirClappington/reingest/internal/reingest"
	"github.com/SirClappington/reingest/internal/storage"
)

var errPartialFailure = errors.New("some records failed to reingest")

func main() {
	cmd := rootCmd()
	err := cmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, errPartialFailure):
		os.Exit(2)
	default:
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parallel-ingest",
		Short: "Reingest bibliographic records in parallel batches.",
		Long: `parallel-ingest selects non-deleted records from biblio.record_entry and
re-runs the selected reingest phases for each one, spreading batches of
records across a pool of workers with one database connection each.

Connection settings are taken from --db-* flags, then the PGHOST, PGPORT,
PGUSER, PGDATABASE and PGAPPNAME environment variables, then defaults.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd)
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintf(c.ErrOrStderr(), "Error processing options: %v\n\n%s", err, c.UsageString())
		return err
	})

	fs := cmd.Flags()
	config.AddFlags(fs)
	config.AddJobFlags(fs)
	fs.Duration("connect-timeout", 0, "Give up connecting after this long (0 waits indefinitely)")
	fs.Bool("strict", false, "Exit with status 2 if any record or batch failed")

	return cmd
}

func runIngest(cmd *cobra.Command) error {
	rt, err := config.LoadRuntime()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	logger, err := newLogger(rt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer logger.Sync()
	log := logger.Sugar()

	fs := cmd.Flags()
	job, err := config.JobFromFlags(fs)
	if err != nil {
		log.Errorw("Error processing options", "error", err)
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
		return err
	}

	b := config.NewConnBuilder()
	if err := b.ApplyFlags(fs); err != nil {
		log.Errorw("Error processing options", "error", err)
		return err
	}
	timeout, err := fs.GetDuration("connect-timeout")
	if err != nil {
		return err
	}
	b.SetConnectTimeout(timeout)
	params, err := b.Build()
	if err != nil {
		log.Errorw("Error resolving connection settings", "error", err)
		return err
	}
	log.Infow("Connection settings",
		"host", params.Host, "port", params.Port, "user", params.User, "database", params.Database)

	engine, err := reingest.New(job, storage.NewDialer(params), log)
	if err != nil {
		log.Errorw("Error configuring run", "error", err)
		return err
	}

	summary, err := engine.Run(context.Background())
	if err != nil {
		log.Errorw("Reingest aborted", "error", err)
		return err
	}

	strict, err := fs.GetBool("strict")
	if err != nil {
		return err
	}
	if strict && summary.Failed() {
		log.Warnw("Exiting with failure status", "run_id", summary.RunID)
		return errPartialFailure
	}
	return nil
}

func newLogger(rt config.Runtime) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(rt.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", rt.LogLevel)
	}
	var cfg zap.Config
	switch rt.LogFormat {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.Development = false
	default:
		return nil, errors.Errorf("unknown log format %q", rt.LogFormat)
	}
	cfg.Level = level
	return cfg.Build()
}
