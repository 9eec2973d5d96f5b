package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lbtheory/isoortho/internal/builder"
	"github.com/lbtheory/isoortho/internal/cache"
	"github.com/lbtheory/isoortho/internal/config"
	"github.com/lbtheory/isoortho/internal/logging"
	"github.com/lbtheory/isoortho/internal/metrics"
)

// session bundles what a tensor command needs for one invocation.
type session struct {
	cfg       config.Config
	formatter *OutputFormatter
	logger    *logging.Logger
	builder   *builder.Builder
	store     cache.Store
	metrics   *metrics.Prometheus
}

func newSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg := opts.settings()
	formatter := &OutputFormatter{
		Format:    cfg.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
	logger := newLogger(cfg.Log, cmd.ErrOrStderr())

	// Intermediate orders are shared across one invocation even without a
	// persistent cache.
	var store cache.Store = cache.NewMemory()
	if cfg.Cache.Path != "" {
		sqlite, err := cache.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, formatter.Fail(ExitCommandError, ErrCodeIO,
				fmt.Errorf("failed to open cache %s: %w", cfg.Cache.Path, err))
		}
		store = sqlite
		logger.Debug("opened tensor cache", "path", cfg.Cache.Path)
	}

	s := &session{
		cfg:       cfg,
		formatter: formatter,
		logger:    logger,
		store:     store,
	}
	builderOpts := []builder.Option{
		builder.WithParallel(cfg.Parallel),
		builder.WithLogger(logger),
		builder.WithCache(store),
	}
	if cfg.Metrics.Textfile != "" {
		s.metrics = metrics.NewPrometheus()
		builderOpts = append(builderOpts, builder.WithMetrics(s.metrics))
	}
	s.builder = builder.New(builderOpts...)
	return s, nil
}

// Close releases the cache and writes the metrics textfile.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("failed to close cache", "error", err)
	}
	if s.metrics != nil {
		if err := s.metrics.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
			s.logger.Warn("failed to write metrics", "path", s.cfg.Metrics.Textfile, "error", err)
		}
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) *logging.Logger {
	level := logging.ParseLevel(cfg.Level)
	if cfg.Format == "json" {
		return logging.NewJSONLogger(w, level)
	}
	return logging.NewTextLogger(w, level)
}

// dim returns the --dim flag if set, otherwise the configured dimension.
func (s *session) dim(cmd *cobra.Command, flagValue int) int {
	if cmd.Flags().Changed("dim") {
		return flagValue
	}
	return s.cfg.Dim
}
