package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trade-advisor/internal/store"
)

func newHistoryCmd(app *App) *cobra.Command {
	var (
		limit int
		days  int
	)

	cmd := &cobra.Command{
		Use:   "history [SYMBOL]",
		Short: "Show past analysis runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			filter := store.AnalysisFilter{Limit: limit}
			if len(args) == 1 {
				filter.Symbol = args[0]
			}
			if days > 0 {
				filter.StartDate = time.Now().AddDate(0, 0, -days)
			}

			records, err := app.Store.GetAnalyses(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}
			if len(records) == 0 {
				output.Dim("no analyses recorded")
				return nil
			}
			for _, r := range records {
				output.Printf("%s  %-8s  %5.1f  %-12s %s\n",
					r.CreatedAt.Format("2006-01-02 15:04"),
					r.Symbol, r.Composite, FormatRating(r.Rating), r.Regime)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "max rows")
	cmd.Flags().IntVar(&days, "days", 0, "only the last N days")

	return cmd
}
