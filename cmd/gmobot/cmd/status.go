package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gmocoin-trader/config"
	"gmocoin-trader/gmo"
	"gmocoin-trader/logging"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show exchange status, balances, and open positions",
	Long: `Query the exchange and print its service status and the current
price. With API credentials set, also print asset balances, open
positions, and active orders. Never places orders.

Example:
  gmobot status --config config.yaml`,
	RunE: runStatus,
}

var statusConfigPath string

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusConfigPath, "config", "f", "config.yaml", "path to config file")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(statusConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Logging)
	defer logger.Sync()

	client := gmo.NewClient(cfg.API.Key, cfg.API.Secret, cfg.API.Endpoint, logger)
	ctx := context.Background()

	status, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("exchange status: %w", err)
	}
	fmt.Printf("Exchange status: %s\n", status)

	ticker, err := client.Ticker(ctx, cfg.Trading.Symbol)
	if err != nil {
		return fmt.Errorf("ticker: %w", err)
	}
	fmt.Printf("%s last: %.0f  bid: %.0f  ask: %.0f\n", cfg.Trading.Symbol, ticker.Last, ticker.Bid, ticker.Ask)

	if cfg.RequireCredentials() != nil {
		fmt.Printf("\nSet %s and %s to see balances and positions.\n", config.EnvAPIKey, config.EnvAPISecret)
		return nil
	}

	assets, err := client.Assets(ctx)
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	fmt.Println("\nAssets:")
	for _, a := range assets {
		fmt.Printf("  %-6s amount: %-16s available: %s\n", a.Symbol, a.Amount, a.Available)
	}

	positions, err := client.OpenPositions(ctx, cfg.Trading.Symbol)
	if err != nil {
		return fmt.Errorf("open positions: %w", err)
	}
	fmt.Printf("\nOpen positions: %d\n", len(positions))
	for _, p := range positions {
		fmt.Printf("  %s %s size: %g entry: %.0f\n", p.PositionID, p.Side, p.Size, p.EntryPrice)
	}

	orders, err := client.ActiveOrders(ctx, cfg.Trading.Symbol)
	if err != nil {
		return fmt.Errorf("active orders: %w", err)
	}
	fmt.Printf("\nActive orders: %d\n", len(orders))
	for _, o := range orders {
		fmt.Printf("  %s %s %s size: %s price: %s\n", o.OrderID, o.Side, o.ExecutionType, o.Size, o.Price)
	}

	return nil
}
