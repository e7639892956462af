package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"health-triage/internal/agent"
	"health-triage/internal/config"
	"health-triage/internal/copilot"
	"health-triage/internal/healthlog"
	"health-triage/internal/logging"
	"health-triage/internal/metrics"
	"health-triage/internal/platform/telegram"
	"health-triage/internal/report"
	"health-triage/internal/server"
	"health-triage/internal/storage"
	"health-triage/internal/triage"
	"health-triage/internal/vaccine"
)

func main() {
	var configFile string
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Run the health triage API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configFile)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to triage.yaml")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string) error {
	// 1. Configuration
	logging.Setup("info", "console")
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// 2. Infrastructure
	db, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	log.Info().Str("driver", db.Driver).Msg("Connected to database")

	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	m := metrics.New()

	// 3. Clients
	tgClient := telegram.NewClient(cfg.Telegram.Token)
	sttClient := agent.NewWhisperClient(cfg.STT.URL)
	responder := agent.NewResponder()

	// 4. Services
	historyRepo := healthlog.NewRepository(db)
	classifier := triage.WithLatency(triage.Rules{}, cfg.Triage.SimulatedLatency)

	doctorChat := report.NewDoctorChat(tgClient, cfg.Telegram.DoctorChatID)
	opts := []healthlog.Option{healthlog.WithSTT(sttClient), healthlog.WithMetrics(m)}
	if cfg.DoctorAlertsEnabled() {
		opts = append(opts, healthlog.WithNotifier(doctorChat))
	} else {
		log.Warn().Msg("Telegram token or doctor chat id not set, doctor alerts disabled")
	}
	healthSvc := healthlog.NewService(historyRepo, classifier, opts...)
	reportSvc := report.NewService(healthSvc, doctorChat, cfg.Report.FontPath)

	copilotSvc := copilot.NewService(copilot.NewRepository(db), responder)
	vaccineSvc := vaccine.NewService(vaccine.NewRepository(db))

	// 5. Router
	router := server.NewRouter(server.Deps{
		Healthlog: healthlog.NewHandler(healthSvc),
		Copilot:   copilot.NewHandler(copilotSvc),
		Vaccine:   vaccine.NewHandler(vaccineSvc),
		Report:    report.NewHandler(reportSvc),
		Metrics:   m,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	})

	return server.Run(ctx, fmt.Sprintf(":%d", cfg.Server.Port), router)
}
