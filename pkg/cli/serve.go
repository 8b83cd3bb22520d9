package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracedapp/tracedapp/pkg/config"
	"github.com/tracedapp/tracedapp/pkg/engine"
	"github.com/tracedapp/tracedapp/pkg/logging"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown. It must
// exceed the longest configurable simulated delay so in-flight requests can
// finish.
const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server (default command)",
	Example: `  # Start with defaults (PORT env var or 8080)
  tracedapp serve

  # Custom port and a policy override file
  tracedapp serve --port 3000 --config tracedapp.yaml

  # JSON logs for aggregation
  tracedapp serve --log-format json --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func registerServeFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("port", "p", 0, "HTTP listen port (overrides PORT env var)")
	cmd.Flags().StringP("config", "c", "", "Path to a YAML configuration file")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	cmd.Flags().String("log-format", "", "Log format: text, json (overrides LOG_FORMAT)")
}

func initServeCmd() {
	registerServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	format, _ := cmd.Flags().GetString("log-format")
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(level),
		Format: logging.ParseFormat(format),
	})

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	srv := engine.NewServer(cfg, engine.WithLogger(log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(); err != nil {
		return err
	}
	log.Info("ready", "port", cfg.Port, "endpoints", srv.Routes())

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
