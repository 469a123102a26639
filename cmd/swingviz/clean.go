package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kaelinwanghu/swingvisualizer/internal/cli"
	"github.com/kaelinwanghu/swingvisualizer/internal/common"
	"github.com/kaelinwanghu/swingvisualizer/internal/config"
	"github.com/kaelinwanghu/swingvisualizer/internal/csvio"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
)

func cleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Aggregate raw county returns into per-cycle results",
		Long: `Clean and aggregate the raw MIT Election Lab returns file into one
wide-format CSV per election cycle: one row per county with per-party vote
columns, two-party shares, margin, and winner.

Each selected year is processed independently; a failure in one year does
not stop the others, but any failure makes the command exit non-zero.`,
		RunE: runClean,
	}

	cmd.Flags().IntP("year", "y", 0, "process a single election year")
	cmd.Flags().Bool("all", false, "process every supported election year")
	cmd.Flags().Bool("validate-only", false, "validate the raw input without writing output")

	_ = viper.BindPFlag("clean.year", cmd.Flags().Lookup("year"))
	_ = viper.BindPFlag("clean.all", cmd.Flags().Lookup("all"))
	_ = viper.BindPFlag("clean.validate_only", cmd.Flags().Lookup("validate-only"))

	return cmd
}

func runClean(_ *cobra.Command, _ []string) error {
	paths, err := config.Load()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	years, err := selectYears(viper.GetInt("clean.year"), viper.GetBool("clean.all"))
	if err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Cleaning election data"))

	rawPath, err := csvio.DiscoverRawReturns(paths.RawDir())
	if err != nil {
		return err
	}
	rows, err := csvio.LoadRawReturns(rawPath)
	if err != nil {
		return err
	}
	slog.Info("loaded raw returns", "path", rawPath, "rows", len(rows))

	if viper.GetBool("clean.validate_only") {
		return validateRaw(rows, years)
	}

	aggregator := newAggregator()
	failed := 0
	for _, year := range years {
		results, stats := aggregator.AggregateCycle(rows, year)
		if len(results) == 0 {
			slog.Error(cli.FormatError(fmt.Sprintf("no counties produced for %d", year)),
				"raw_rows", stats.RawRows)
			failed++
			continue
		}
		if err := csvio.WriteElection(paths, year, results); err != nil {
			slog.Error(cli.FormatError(fmt.Sprintf("writing %d failed", year)), "error", err)
			failed++
			continue
		}
		slog.Info(cli.FormatSuccess(fmt.Sprintf("cleaned %d", year)),
			"counties", stats.Counties,
			"total_votes", stats.TotalVotes,
			"invalid_fips", stats.InvalidFIPS,
			"low_turnout", stats.LowTurnout)
	}

	if failed > 0 {
		return common.NewUserError(fmt.Sprintf("%d of %d years failed", failed, len(years)), nil)
	}
	slog.Info(cli.FormatSuccess(fmt.Sprintf("all %d years cleaned", len(years))))
	return nil
}

// validateRaw checks coverage of the raw file against the selected years
// without producing any artifact.
func validateRaw(rows []model.CountyReturn, years []int) error {
	byYear := make(map[int]int)
	for _, row := range rows {
		byYear[row.Year]++
	}

	missing := 0
	for _, year := range years {
		count := byYear[year]
		if count == 0 {
			slog.Warn(cli.FormatWarning(fmt.Sprintf("no raw rows for %d", year)))
			missing++
			continue
		}
		slog.Info("raw coverage", "year", year, "rows", count)
	}
	if missing > 0 {
		return fmt.Errorf("raw input missing %d of %d selected years", missing, len(years))
	}
	slog.Info(cli.FormatSuccess("raw input covers every selected year"))
	return nil
}
