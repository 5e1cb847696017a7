package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/teranos/sembrowse/am"
	"github.com/teranos/sembrowse/browse"
	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/honeycomb"
	"github.com/teranos/sembrowse/logger"
	"github.com/teranos/sembrowse/server"
	"github.com/teranos/sembrowse/usage"
)

// ServeCmd builds the attribute hierarchy and serves it
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Build the attribute hierarchy and serve it over HTTP",
	Long: `Load the registry roots, correlate attributes with Honeycomb dataset
columns when an API key is available, and serve the namespace hierarchy
until interrupted.

Registry roots come from --root (repeatable, nick=path) or from the
[[corpora]] entries of the configuration.`,
	RunE: runServe,
}

var (
	serveRoots   []string
	serveHost    string
	servePort    int
	serveNoUsage bool
)

func init() {
	ServeCmd.Flags().StringArrayVar(&serveRoots, "root", nil, "Registry root as nick=path (repeatable)")
	ServeCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides server.host)")
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides server.port)")
	ServeCmd.Flags().BoolVar(&serveNoUsage, "no-usage", false, "Skip Honeycomb usage collection")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if serveNoUsage {
		cfg.Usage.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	corpora, err := resolveCorpora(cfg, serveRoots)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := browse.Options{
		Corpora: corpora,
		Usage:   usageOptions(cfg),
	}
	var exists server.ExistsLinker
	if client, ok := usageClient(cfg); ok {
		opts.Backend = client
		exists = client
	}

	index, err := browse.Build(ctx, opts, logger.ComponentLogger("browse"))
	if err != nil {
		return err
	}

	srv, err := server.New(index, server.Options{
		Exists:          exists,
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second,
	}, logger.ComponentLogger("server"))
	if err != nil {
		return err
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	printStartupBanner(cmd.OutOrStdout(), verbosity, cfg.Address(), index)

	return srv.ListenAndServe(ctx, cfg.Address())
}

// usageClient returns a Honeycomb client when usage collection is enabled
// and a key is configured. A missing key only disables usage.
func usageClient(cfg *am.Config) (*honeycomb.Client, bool) {
	if !cfg.Usage.Enabled {
		logger.Infow("Usage collection disabled")
		return nil, false
	}
	client, err := honeycomb.NewClient(honeycomb.Config{
		APIKey:       cfg.Honeycomb.APIKey,
		BaseURL:      cfg.Honeycomb.BaseURL,
		Timeout:      time.Duration(cfg.Honeycomb.TimeoutSeconds) * time.Second,
		AllowPrivate: cfg.Honeycomb.AllowPrivate,
	}, logger.ComponentLogger("honeycomb"))
	if err != nil {
		logger.Warnw("Usage collection unavailable, serving registry only",
			logger.FieldError, err,
			"hint", errors.FlattenHints(err))
		return nil, false
	}
	return client, true
}

func usageOptions(cfg *am.Config) usage.Options {
	return usage.Options{
		Concurrency:       cfg.Usage.Concurrency,
		RecentWithin:      time.Duration(cfg.Usage.RecentDays) * 24 * time.Hour,
		RequestsPerSecond: cfg.Usage.RequestsPerSecond,
	}
}
