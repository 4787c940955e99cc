package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	forecaster "github.com/aouyang1/ozone-forecaster"
	"github.com/aouyang1/ozone-forecaster/dashboard"
	"github.com/gin-gonic/gin"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

func addServe(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forecast dashboard.",
		Example: `
ozoneboard serve --addr :8501 --model modelo_O3_prophet.json
OZONE_PROFILE=cpu ozoneboard serve
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("addr", DefaultAddr, "Address the dashboard listens on.")
	cmd.Flags().Duration("session-ttl", time.Hour, "Idle time after which a session is dropped.")
	cmd.Flags().String("profile", "", "Profile the server. One of 'cpu' or 'mem'.")

	topLevel.AddCommand(cmd)
}

func serve(ctx context.Context, cfg Config) error {
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	f, err := forecaster.Load(cfg.Model)
	if err != nil {
		return fmt.Errorf("unable to load model %s, %w", cfg.Model, err)
	}
	info := dashboard.NewModelInfo(f)
	logger.Info("model loaded",
		"path", cfg.Model,
		"name", info.Name,
		"history", f.History().Len(),
		"train_end", info.TrainEndTime,
	)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	store := dashboard.NewSessionStore(cfg.SessionTTL)
	srv, err := dashboard.NewServer(dashboard.NewInvoker(f), store, info, logger)
	if err != nil {
		return err
	}

	go store.Run(ctx, cfg.SessionTTL/4)
	return srv.Run(ctx, cfg.Addr)
}
