package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"trade-advisor/internal/advisor"
	"trade-advisor/internal/analysis/sentiment"
	"trade-advisor/internal/logging"
	"trade-advisor/internal/models"
)

// candleRow is the CSV row shape for candle files. The timestamp column
// accepts RFC 3339 or plain dates.
type candleRow struct {
	Timestamp string  `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    int64   `csv:"volume"`
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		candlesPath string
		ratiosPath  string
		newsPath    string
		marketPath  string
		price       float64
	)

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run the full multi-factor analysis for a symbol",
		Long: `Analyze scores a symbol across technical, fundamental, sentiment, and
pattern factors, classifies the market regime when market data is given,
and proposes a regime-adjusted strategy.

Candles are read from a CSV file with columns
timestamp,open,high,low,close,volume. Ratios, sentiment inputs, and the
market snapshot are optional JSON files; missing inputs score neutral.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			output := NewOutput(cmd)

			candles, err := loadCandles(candlesPath)
			if err != nil {
				return err
			}

			in := advisor.Inputs{
				Symbol:       symbol,
				CurrentPrice: price,
				Candles:      candles,
			}
			if ratiosPath != "" {
				var ratios models.FinancialRatios
				if err := loadJSON(ratiosPath, &ratios); err != nil {
					return fmt.Errorf("loading ratios: %w", err)
				}
				in.Ratios = &ratios
			}
			if newsPath != "" {
				var si sentiment.Inputs
				if err := loadJSON(newsPath, &si); err != nil {
					return fmt.Errorf("loading sentiment inputs: %w", err)
				}
				in.Sentiment = si
			}
			if marketPath != "" {
				var market models.MarketSnapshot
				if err := loadJSON(marketPath, &market); err != nil {
					return fmt.Errorf("loading market snapshot: %w", err)
				}
				in.Market = &market
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger)
			report, err := app.Advisor().Analyze(ctx, in)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(report)
			}
			renderReport(output, report)
			if app.Store != nil && !hasStoreWarning(report.Warnings) {
				output.Success("Analysis saved to history")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&candlesPath, "candles", "", "CSV file of OHLCV candles (required)")
	cmd.Flags().StringVar(&ratiosPath, "ratios", "", "JSON file of financial ratios")
	cmd.Flags().StringVar(&newsPath, "sentiment", "", "JSON file of news/analyst/insider/social inputs")
	cmd.Flags().StringVar(&marketPath, "market", "", "JSON file of the market snapshot")
	cmd.Flags().Float64Var(&price, "price", 0, "current price (default: last close)")
	cmd.MarkFlagRequired("candles")

	return cmd
}

// loadCandles reads a candle CSV ordered oldest first.
func loadCandles(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening candles: %w", err)
	}
	defer f.Close()

	var rows []candleRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing candles: %w", err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for i, r := range rows {
		ts, err := parseTimestamp(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("candle row %d: %w", i+1, err)
		}
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		})
	}
	return candles, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// hasStoreWarning reports whether persistence failed during the run.
func hasStoreWarning(warnings []string) bool {
	for _, w := range warnings {
		if strings.HasPrefix(w, "store:") {
			return true
		}
	}
	return false
}

func loadJSON(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// renderReport prints the human-readable report.
func renderReport(output *Output, report *advisor.Report) {
	output.Bold("%s  %s", report.Symbol, FormatPrice(report.Price))
	output.Println()

	s := report.Scores
	output.Bold("Composite: %.1f %s  %s", s.Composite, ScoreBar(s.Composite, 20), FormatRating(string(s.Rating)))
	output.Printf("  Technical:   %5.1f %s\n", s.Technical.Score, ScoreBar(s.Technical.Score, 20))
	output.Printf("  Pattern:     %5.1f %s\n", s.Pattern.Score, ScoreBar(s.Pattern.Score, 20))
	output.Printf("  Sentiment:   %5.1f %s\n", s.Sentiment.Score, ScoreBar(s.Sentiment.Score, 20))
	output.Printf("  Fundamental: %5.1f %s\n", s.Fundamental.Score, ScoreBar(s.Fundamental.Score, 20))

	if len(report.Patterns) > 0 {
		output.Println()
		output.Bold("Patterns")
		for _, p := range report.Patterns {
			line := fmt.Sprintf("  %-28s %-6s %s", p.Type, p.Confidence, p.Description)
			switch string(p.Direction) {
			case "bullish":
				output.Bullish("%s", line)
			case "bearish":
				output.Bearish("%s", line)
			default:
				output.Printf("%s\n", line)
			}
		}
	}

	if report.Regime != nil {
		output.Println()
		output.Bold("Market Regime: %s (confidence %.0f)", report.Regime.Regime, report.Regime.Confidence)
		for _, sg := range report.Regime.StrategySuggestions {
			output.Dim("  - %s", sg)
		}
	}

	if report.Strategy != nil {
		st := report.Strategy
		output.Println()
		output.Bold("Strategy: %s @ %s", st.Side, FormatPrice(st.Entry))
		output.Printf("  Stop:       %s (%s)\n", FormatPrice(st.StopLoss.Price), FormatPercent(-st.StopLoss.Percentage))
		for i, t := range st.Targets {
			output.Printf("  Target %d:   %s\n", i+1, FormatPrice(t))
		}
		output.Printf("  Position:   %.1f%% (max %.1f%%)\n", st.Sizing.RecommendedPosition, st.Sizing.MaxPosition)
		output.Printf("  Confidence: %.0f\n", st.Confidence)
		if st.Thesis != "" {
			output.Dim("  %s", st.Thesis)
		}
		for _, n := range st.Notes {
			output.Info("  * %s", n)
		}
	}

	for _, w := range report.Warnings {
		output.Warning("warning: %s", w)
	}
}
