package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gmobot",
	Short: "A run-once moving-average crossover trading bot for GMO Coin",
	Long: `gmobot evaluates a simple moving-average crossover against GMO Coin
and places at most one order per invocation.

Each run performs a single pass:
  - Close open positions that hit their stop-loss or take-profit
  - Fetch recent candles and compute the crossover signal
  - Gate the signal through the risk limits
  - Place the order and append it to the trade journal

It is designed to be driven by cron or a systemd timer; all state that
must survive between runs lives in the journal.

API credentials are read from the GMO_API_KEY and GMO_API_SECRET
environment variables, never from the config file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
