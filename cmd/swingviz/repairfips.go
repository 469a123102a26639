package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaelinwanghu/swingvisualizer/internal/cli"
	"github.com/kaelinwanghu/swingvisualizer/internal/config"
	"github.com/kaelinwanghu/swingvisualizer/internal/csvio"
	"github.com/kaelinwanghu/swingvisualizer/internal/match"
	"github.com/kaelinwanghu/swingvisualizer/internal/model"
	"github.com/kaelinwanghu/swingvisualizer/internal/normalize"
)

func repairFIPSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repairfips",
		Short: "Rebuild the 2024 cycle with FIPS codes from the 2020 reference",
		Long: fmt.Sprintf(`The %d raw release ships systematically wrong county FIPS codes. This
command discards them entirely: every raw %d row is re-keyed by normalized
county+state lookup against the aggregated %d results, then re-aggregated.
The existing %d output is kept as a .backup file.`,
			config.CorruptedFIPSYear, config.CorruptedFIPSYear,
			config.ReferenceFIPSYear, config.CorruptedFIPSYear),
		RunE: runRepairFIPS,
	}
}

func runRepairFIPS(_ *cobra.Command, _ []string) error {
	paths, err := config.Load()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	slog.Info(cli.FormatTitle(fmt.Sprintf("Repairing %d FIPS codes", config.CorruptedFIPSYear)))

	reference, err := csvio.LoadElection(paths, config.ReferenceFIPSYear)
	if err != nil {
		return err
	}

	rawPath, err := csvio.DiscoverRawReturns(paths.RawDir())
	if err != nil {
		return err
	}
	raw, err := csvio.LoadRawReturns(rawPath)
	if err != nil {
		return err
	}

	corrupted := make([]model.CountyReturn, 0, len(raw))
	for _, row := range raw {
		if row.Year == config.CorruptedFIPSYear {
			corrupted = append(corrupted, row)
		}
	}
	if len(corrupted) == 0 {
		return fmt.Errorf("raw input has no rows for %d", config.CorruptedFIPSYear)
	}

	names := normalize.NewNameNormalizer(normalize.DefaultNameConfig())
	lookup := match.BuildFIPSLookup(names, reference)
	repaired, stats := match.RepairCycle(names, corrupted, lookup)

	slog.Info("repair summary",
		"raw_rows", stats.Total,
		"repaired", stats.Repaired,
		"corrected", stats.Corrected,
		"dropped", stats.Dropped)
	if stats.Repaired == 0 {
		return fmt.Errorf("no %d rows could be matched against the %d reference",
			config.CorruptedFIPSYear, config.ReferenceFIPSYear)
	}

	results, aggStats := newAggregator().AggregateCycle(repaired, config.CorruptedFIPSYear)

	// Keep the broken output around for comparison.
	target := paths.ElectionFile(config.CorruptedFIPSYear)
	if _, err := os.Stat(target); err == nil {
		backup := target + ".backup"
		if err := os.Rename(target, backup); err != nil {
			return fmt.Errorf("backing up %s: %w", target, err)
		}
		slog.Info("backed up previous output", "path", backup)
	}

	if err := csvio.WriteElection(paths, config.CorruptedFIPSYear, results); err != nil {
		return err
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("rebuilt %d with trusted FIPS codes", config.CorruptedFIPSYear)),
		"counties", aggStats.Counties, "total_votes", aggStats.TotalVotes)
	return nil
}
