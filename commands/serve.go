package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/go-usage-timeline/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveListen    string
	serveRateLimit float64
	serveBurst     int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve usage timeline queries over HTTP",
	Long: `Starts an HTTP server for timeline hosts.

Endpoints:
  GET /api/events?start=<epoch>&end=<epoch>   timeline events for the range
  GET /metrics                                Prometheus metrics
  GET /health                                 liveness check`,
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "",
		"Listen address (overrides server.listen)")
	serveCmd.Flags().Float64Var(&serveRateLimit, "rate-limit", 0,
		"Requests per second per client (overrides server.rate_limit)")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 0,
		"Request burst per client (overrides server.burst)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Server.Listen = serveListen
	}
	if flags.Changed("rate-limit") {
		cfg.Server.RateLimit = serveRateLimit
	}
	if flags.Changed("burst") {
		cfg.Server.Burst = serveBurst
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(a, server.Config{
		Listen:    cfg.Server.Listen,
		RateLimit: cfg.Server.RateLimit,
		Burst:     cfg.Server.Burst,
	})
	return srv.Run(ctx)
}
