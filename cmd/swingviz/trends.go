package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kaelinwanghu/swingvisualizer/internal/cli"
	"github.com/kaelinwanghu/swingvisualizer/internal/config"
	"github.com/kaelinwanghu/swingvisualizer/internal/csvio"
	"github.com/kaelinwanghu/swingvisualizer/internal/geo"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
	"github.com/kaelinwanghu/swingvisualizer/internal/swing"
	"github.com/kaelinwanghu/swingvisualizer/internal/trend"
)

func trendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trends",
		Short: "Compute long-run trends, classifications, and bellwether scores",
		Long: `Fold every county's full multi-cycle history into long-run metrics:
stability, volatility, trajectory, a categorical classification, and a
bellwether score against the national popular-vote winner. Writes the
classification CSV and the bellwether shortlist, and merges the trend
columns into each cycle's combined GeoJSON when present.`,
		RunE: runTrends,
	}
}

func runTrends(_ *cobra.Command, _ []string) error {
	paths, err := config.Load()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	engine, err := trend.NewEngine(config.NationalWinners, config.ElectionYears)
	if err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Calculating county trends"))

	resultsByYear := make(map[int][]model.CountyResult)
	for _, year := range config.ElectionYears {
		results, err := csvio.LoadElection(paths, year)
		if err != nil {
			slog.Warn(cli.FormatWarning(fmt.Sprintf("no election data for %d", year)), "error", err)
			continue
		}
		resultsByYear[year] = results
		slog.Info("loaded cycle", "year", year, "counties", len(results))
	}
	if len(resultsByYear) == 0 {
		return fmt.Errorf("no election data found, run 'clean' first")
	}

	var swingPairs [][]model.SwingRecord
	for _, pair := range config.AdjacentPairs() {
		records, err := csvio.LoadSwings(paths, pair[0], pair[1])
		if err != nil {
			slog.Warn(cli.FormatWarning(fmt.Sprintf("no swing data for %d -> %d", pair[0], pair[1])))
			continue
		}
		swingPairs = append(swingPairs, records)
	}

	histories := trend.BuildHistories(resultsByYear, swingPairs)
	slog.Info("built county histories", "counties", len(histories))

	bar := progressbar.NewOptions(len(histories),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Computing county trends..."),
	)

	records := make([]model.TrendRecord, 0, len(histories))
	byClass := make(map[model.Classification]int)
	for _, h := range histories {
		record := engine.Compute(h.FIPS, h.County, h.State, h.Observations)
		records = append(records, record)
		byClass[record.Classification]++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	for class, count := range byClass {
		slog.Info("classification", "class", class, "counties", count)
	}

	if err := csvio.WriteClassifications(paths, records); err != nil {
		return err
	}
	shortlist := trend.BellwetherShortlist(records)
	if err := csvio.WriteBellwethers(paths, shortlist); err != nil {
		return err
	}
	slog.Info(cli.FormatSuccess("wrote classification artifacts"),
		"classifications", paths.ClassificationsFile(),
		"bellwethers", len(shortlist))

	// Attach trend columns to every combined file that exists; trends are
	// cycle-independent, so each year gets the same columns.
	rows := make(map[string]map[string]interface{}, len(records))
	for _, r := range records {
		rows[r.FIPS] = trendProperties(r)
	}
	enriched := 0
	for year := range resultsByYear {
		combined := paths.CombinedFile(year)
		if _, err := os.Stat(combined); err != nil {
			continue
		}
		set, err := geo.Load(combined)
		if err != nil {
			slog.Warn(cli.FormatWarning(fmt.Sprintf("could not enrich %d", year)), "error", err)
			continue
		}
		set.MergeLeft(rows)
		if err := set.Save(combined); err != nil {
			slog.Warn(cli.FormatWarning(fmt.Sprintf("could not save enriched %d", year)), "error", err)
			continue
		}
		enriched++
	}
	if enriched > 0 {
		slog.Info(cli.FormatSuccess(fmt.Sprintf("enriched %d combined files with trend columns", enriched)))
	}

	// Keep the volatility ranking in sync when swing data was loaded.
	if len(swingPairs) > 1 {
		volatility := swing.AggregateVolatility(swingPairs)
		if err := csvio.WriteVolatility(paths, volatility); err != nil {
			return err
		}
	}

	return nil
}
