package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kaelinwanghu/swingvisualizer/internal/cli"
	"github.com/kaelinwanghu/swingvisualizer/internal/common"
	"github.com/kaelinwanghu/swingvisualizer/internal/config"
	"github.com/kaelinwanghu/swingvisualizer/internal/csvio"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
	"github.com/kaelinwanghu/swingvisualizer/internal/swing"
)

func swingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swings",
		Short: "Compute inter-cycle swings for adjacent election pairs",
		Long: `Join two cycles of aggregated results and compute per-county swing
metrics: share swing, margin change, turnout change, and flip detection.

Each cycle pair is processed independently; a join-integrity failure in one
pair does not stop the others, but any failure makes the command exit
non-zero. When more than one pair is processed, a cross-period summary and
a county volatility ranking are also written.`,
		RunE: runSwings,
	}

	cmd.Flags().Int("year1", 0, "first cycle of the pair")
	cmd.Flags().Int("year2", 0, "second cycle of the pair")
	cmd.Flags().Bool("all", false, "process every adjacent cycle pair")

	_ = viper.BindPFlag("swings.year1", cmd.Flags().Lookup("year1"))
	_ = viper.BindPFlag("swings.year2", cmd.Flags().Lookup("year2"))
	_ = viper.BindPFlag("swings.all", cmd.Flags().Lookup("all"))

	return cmd
}

func selectPairs() ([][2]int, error) {
	if viper.GetBool("swings.all") {
		return config.AdjacentPairs(), nil
	}

	year1 := viper.GetInt("swings.year1")
	year2 := viper.GetInt("swings.year2")
	if year1 == 0 && year2 == 0 {
		pairs := config.AdjacentPairs()
		return pairs[len(pairs)-1:], nil
	}
	if !config.ValidYear(year1) {
		return nil, fmt.Errorf("%w: year1 %d", common.ErrInvalidYear, year1)
	}
	if !config.ValidYear(year2) {
		return nil, fmt.Errorf("%w: year2 %d", common.ErrInvalidYear, year2)
	}
	if year2 <= year1 {
		return nil, fmt.Errorf("%w: year2 %d must follow year1 %d", common.ErrInvalidYear, year2, year1)
	}
	return [][2]int{{year1, year2}}, nil
}

func runSwings(_ *cobra.Command, _ []string) error {
	paths, err := config.Load()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	pairs, err := selectPairs()
	if err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Calculating election swings"))

	calculator := swing.NewCalculator(newMatcher())
	var summaries []model.PairSummary
	var allRecords [][]model.SwingRecord
	failed := 0

	for _, pair := range pairs {
		year1, year2 := pair[0], pair[1]

		records, err := processPair(paths, calculator, year1, year2)
		if err != nil {
			common.LogError(err, cli.FormatError("cycle pair failed"),
				common.Fields{"year1": year1, "year2": year2})
			failed++
			continue
		}

		summary := swing.Analyze(records, year1, year2)
		summaries = append(summaries, summary)
		allRecords = append(allRecords, records)

		slog.Info(cli.FormatSuccess(fmt.Sprintf("%d -> %d", year1, year2)),
			"counties", summary.TotalCounties,
			"avg_swing", fmt.Sprintf("%.2f", summary.AvgSwing),
			"flips", summary.TotalFlips)
	}

	if len(summaries) > 1 {
		if err := csvio.WriteSwingSummary(paths, summaries); err != nil {
			return err
		}
		volatility := swing.AggregateVolatility(allRecords)
		if err := csvio.WriteVolatility(paths, volatility); err != nil {
			return err
		}
		slog.Info("wrote cross-period artifacts",
			"summary", paths.SwingSummaryFile(),
			"volatility", paths.VolatilityFile(),
			"counties_ranked", len(volatility))

		totalFlips := 0
		for _, s := range summaries {
			totalFlips += s.TotalFlips
		}
		fmt.Fprintln(os.Stderr, cli.RenderBox("Cross-period summary",
			fmt.Sprintf("cycle pairs:      %d\ntotal flips:      %d\ncounties ranked:  %d",
				len(summaries), totalFlips, len(volatility))))
	}

	if failed > 0 {
		return common.NewUserError(fmt.Sprintf("%d of %d cycle pairs failed", failed, len(pairs)), nil)
	}
	slog.Info(cli.FormatSuccess(fmt.Sprintf("all %d cycle pairs processed", len(pairs))))
	return nil
}

func processPair(paths config.Paths, calculator *swing.Calculator, year1, year2 int) ([]model.SwingRecord, error) {
	y1, err := csvio.LoadElection(paths, year1)
	if err != nil {
		return nil, err
	}
	y2, err := csvio.LoadElection(paths, year2)
	if err != nil {
		return nil, err
	}

	records, err := calculator.Calculate(y1, y2, year1, year2)
	if err != nil {
		return nil, err
	}
	if err := csvio.WriteSwings(paths, year1, year2, records); err != nil {
		return nil, err
	}
	return records, nil
}
