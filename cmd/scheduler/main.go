package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tidewell/scheduler/internal/config"
	"github.com/tidewell/scheduler/internal/factory"
	"github.com/tidewell/scheduler/internal/logger"
	"github.com/tidewell/scheduler/internal/scheduler"
)

const commandTimeout = 15 * time.Second

// options are the persistent flags shared by every sub-command.
type options struct {
	debug    bool
	driver   string
	storeURL string
	dbPath   string
}

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "scheduler",
		Short:         "Manage appointments in the configured store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.NewConsole(cmd.ErrOrStderr(), opts.debug)
			log.Debug().Msg("debug logging enabled")
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&opts.driver, "store", "", "Store driver: memory, sqlite, postgres or http (default from SCHEDULER_STORE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&opts.storeURL, "store-url", "", "Base URL of the appointment store service (http driver)")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (sqlite driver)")

	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newEditCmd(opts))
	rootCmd.AddCommand(newDeleteCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newShellCmd(opts))

	return rootCmd
}

// session is one controller over the configured store for a single command.
type session struct {
	ctl   *scheduler.Controller
	store io.Closer
}

func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.driver != "" {
		cfg.StoreDriver = o.driver
	}
	if o.storeURL != "" {
		cfg.StoreURL = o.storeURL
		if o.driver == "" {
			cfg.StoreDriver = config.DriverHTTP
		}
	}
	if o.dbPath != "" {
		cfg.SQLitePath = o.dbPath
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open builds and starts a controller. A failed initial load is reported as
// an error here, since a command working on an empty calendar would mislead.
func (o *options) open(ctx context.Context) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	st, closer, err := factory.NewStore(ctx, cfg, log.Logger)
	if err != nil {
		return nil, err
	}
	ctl, err := scheduler.New(st,
		scheduler.WithQueueConfig(cfg.Queue),
		scheduler.WithLocation(cfg.Location()),
		scheduler.WithDayStart(cfg.DayStartHour),
		scheduler.WithTimeout(cfg.RequestTimeout),
		scheduler.WithLogger(log.Logger),
	)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	s := &session{ctl: ctl, store: closer}
	if err := ctl.Start(ctx); err != nil {
		_ = s.close()
		return nil, err
	}
	if v := ctl.View(); loadFailed(v) {
		_ = s.close()
		return nil, fmt.Errorf("could not load appointments: %s", noticeText(v))
	}
	return s, nil
}

// finish waits for outstanding writes and reports any that failed.
func (s *session) finish(ctx context.Context) error {
	if err := s.ctl.AwaitConsistency(ctx); err != nil {
		return fmt.Errorf("waiting for the store: %w", err)
	}
	if n := failedWrites(s.ctl.View()); n > 0 {
		return fmt.Errorf("%d write(s) failed: %s", n, noticeText(s.ctl.View()))
	}
	return nil
}

func (s *session) close() error {
	err := s.ctl.Close()
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// run opens a session, calls fn and waits for its writes before closing.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	s, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.close() }()

	if err := fn(ctx, s); err != nil {
		return err
	}
	return s.finish(ctx)
}
