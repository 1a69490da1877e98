package cli

import (
	"github.com/spf13/cobra"

	"trade-advisor/internal/analysis/regime"
	"trade-advisor/internal/models"
)

func newRegimeCmd(app *App) *cobra.Command {
	var snapshot models.MarketSnapshot

	cmd := &cobra.Command{
		Use:   "regime",
		Short: "Classify the market regime from index, VIX, and breadth data",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			classifier := regime.NewClassifierWithThresholds(app.Config.Analysis.RegimeThresholds)
			result := classifier.Classify(snapshot)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Regime: %s (confidence %.0f)", result.Regime, result.Confidence)
			output.Printf("Volatility: %s   Trend: %s   Breadth: %.2f\n",
				result.VolatilityLevel, result.TrendStrength, snapshot.BreadthRatio())
			for _, c := range result.Characteristics {
				output.Printf("  %s\n", c)
			}
			output.Bold("Suggestions")
			for _, s := range result.StrategySuggestions {
				output.Dim("  - %s", s)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&snapshot.SPYPrice, "spy", 0, "SPY price")
	cmd.Flags().Float64Var(&snapshot.SPYChange, "spy-change", 0, "SPY percent change on the day")
	cmd.Flags().Float64Var(&snapshot.VIX, "vix", 0, "VIX level")
	cmd.Flags().IntVar(&snapshot.Advancers, "advancers", 0, "advancing issues")
	cmd.Flags().IntVar(&snapshot.Decliners, "decliners", 0, "declining issues")
	cmd.Flags().IntVar(&snapshot.NewHighs, "new-highs", 0, "new 52-week highs")
	cmd.Flags().IntVar(&snapshot.NewLows, "new-lows", 0, "new 52-week lows")

	return cmd
}
