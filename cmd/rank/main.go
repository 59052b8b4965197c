// rank prints one ranking view to stdout, without the HTTP layer.
// Useful for cron jobs and for eyeballing a variant's data from a shell.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"crypto_board/internal/app/di"
	"crypto_board/internal/feature/rankings/domain/entity"
)

var (
	flagPeriod    string
	flagLimit     int
	flagMinVolume float64
)

var rootCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print exchange volume and movers rankings",
	SilenceUsage: true,
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Top trading pairs by volume (24h or 7d)",
	RunE: func(cmd *cobra.Command, args []string) error {
		uc, _, err := di.NewRankings()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := uc.TopVolume(ctx, entity.Period(flagPeriod), flagLimit)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var moversCmd = &cobra.Command{
	Use:   "movers",
	Short: "Biggest 24h gainers above a minimum volume",
	RunE: func(cmd *cobra.Command, args []string) error {
		uc, _, err := di.NewRankings()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := uc.HighVolumeMovers(ctx, flagMinVolume, flagLimit)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List tradable symbols on the configured variant",
	RunE: func(cmd *cobra.Command, args []string) error {
		market, _, err := di.NewMarket()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		info, err := market.ExchangeInfo(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SYMBOL\tBASE\tQUOTE\tSTATUS")
		for _, s := range info.Symbols {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Symbol, s.BaseAsset, s.QuoteAsset, s.Status)
		}
		return w.Flush()
	},
}

func printResult(result *entity.RankedResult) {
	if result.NoData() {
		fmt.Println("no data: no pairs matched the current filters")
		return
	}

	if result.Note != nil && result.Note.WasAdjusted {
		fmt.Printf("note: requested min volume %.0f was infeasible; applied %.2f\n",
			result.Note.RequestedThreshold, result.Note.AppliedThreshold)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "COIN\tPRICE\tCHANGE %s%%\tVOLUME\n", result.Period)
	for _, r := range result.Rows {
		fmt.Fprintf(w, "%s\t%.8g\t%+.2f\t%.0f\n", r.Coin, r.Price, r.ChangePct, r.QuoteVolume)
	}
	w.Flush()
}

func init() {
	topCmd.Flags().StringVar(&flagPeriod, "period", "24h", "lookback window: 24h or 7d")
	rootCmd.PersistentFlags().IntVar(&flagLimit, "limit", 20, "number of rows (5-50)")
	moversCmd.Flags().Float64Var(&flagMinVolume, "min-volume", 100_000_000, "minimum 24h quote volume")

	rootCmd.AddCommand(topCmd, moversCmd, symbolsCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
