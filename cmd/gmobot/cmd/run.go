package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gmocoin-trader/bot"
	"gmocoin-trader/config"
	"gmocoin-trader/gmo"
	"gmocoin-trader/journal"
	"gmocoin-trader/logging"
	"gmocoin-trader/risk"
	"gmocoin-trader/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one trading pass",
	Long: `Run a single evaluation pass: position checks, signal evaluation,
risk gating, and at most one order.

Exits non-zero when the pass fails, including when the consecutive
transport error limit is breached.

Example:
  gmobot run --config config.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "config.yaml", "path to config file")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	logger := logging.New(cfg.Logging)
	defer logger.Sync()

	client := gmo.NewClient(cfg.API.Key, cfg.API.Secret, cfg.API.Endpoint, logger)

	jrnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrnl.Close()

	manager := risk.NewManager(risk.Limits{
		StopLossJPY:          cfg.Risk.StopLoss,
		TakeProfitJPY:        cfg.Risk.TakeProfit,
		MaxPositionSize:      cfg.Risk.MaxPositionSize,
		MaxReversalCount:     cfg.Risk.MaxReversalCount,
		MaxConsecutiveErrors: cfg.Risk.MaxConsecutiveErrors,
	}, client, logger)

	crossover := strategies.NewCrossover(
		cfg.Trading.MovingAverage.ShortPeriod,
		cfg.Trading.MovingAverage.LongPeriod,
		logger,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bot.New(client, jrnl, manager, crossover, cfg.Trading, logger)
	if err := b.Run(ctx); err != nil {
		logger.Error("trading pass failed", zap.Error(err))
		return err
	}
	return nil
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	if cfg.Type == "sqlite" {
		return journal.NewSQLite(cfg.DBPath)
	}
	return journal.NewCSV(journal.DailyPath(cfg.Dir, time.Now()))
}
