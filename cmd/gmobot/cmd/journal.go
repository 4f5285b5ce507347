package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gmocoin-trader/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recent trade journal records",
	Long: `Print recent records from the SQLite trade journal, newest first.

CSV journals are plain files under the journal directory; open those
directly.

Examples:
  gmobot journal --db data/journal.db
  gmobot journal --db data/journal.db --limit 5`,
	Args: cobra.NoArgs,
	RunE: runJournal,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().StringVarP(&journalDBPath, "db", "d", "data/journal.db", "path to SQLite journal DB")
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum number of records to show")
}

func runJournal(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListTrades(journalLimit)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("No trades recorded.")
		return nil
	}

	fmt.Printf("%-27s %-25s %-5s %-10s %-10s %-12s %-21s %s\n",
		"ID", "TIMESTAMP", "SIDE", "SIZE", "PRICE", "STATUS", "SOURCE", "ORDER")
	for _, rec := range recs {
		fmt.Printf("%-27s %-25s %-5s %-10g %-10.0f %-12s %-21s %s\n",
			rec.ID,
			rec.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			rec.Side,
			rec.Size,
			rec.Price,
			rec.Status,
			rec.SignalSource,
			rec.OrderID)
		if rec.ErrorMessage != "" {
			fmt.Printf("  error: %s\n", rec.ErrorMessage)
		}
	}
	return nil
}
