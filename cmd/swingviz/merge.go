package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kaelinwanghu/swingvisualizer/internal/cli"
	"github.com/kaelinwanghu/swingvisualizer/internal/common"
	"github.com/kaelinwanghu/swingvisualizer/internal/config"
	"github.com/kaelinwanghu/swingvisualizer/internal/csvio"
	"github.com/kaelinwanghu/swingvisualizer/internal/geo"
)

func mergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge election results with county boundaries",
		Long: `Left-join each cycle's aggregated results (and, when available, its
swing metrics) onto the processed county boundaries, producing one combined
GeoJSON per cycle. Every boundary survives the join; counties without
election data simply carry no election properties.`,
		RunE: runMerge,
	}

	cmd.Flags().IntP("year", "y", 0, "merge a single election year")
	cmd.Flags().Bool("all", false, "merge every supported election year")
	cmd.Flags().Bool("include-swings", true, "merge swing metrics when the pair artifact exists")

	_ = viper.BindPFlag("merge.year", cmd.Flags().Lookup("year"))
	_ = viper.BindPFlag("merge.all", cmd.Flags().Lookup("all"))
	_ = viper.BindPFlag("merge.include_swings", cmd.Flags().Lookup("include-swings"))

	return cmd
}

func runMerge(_ *cobra.Command, _ []string) error {
	paths, err := config.Load()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	years, err := selectYears(viper.GetInt("merge.year"), viper.GetBool("merge.all"))
	if err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Merging election data with geography"))

	failed := 0
	for _, year := range years {
		if err := mergeYear(paths, year); err != nil {
			slog.Error(cli.FormatError(fmt.Sprintf("merging %d failed", year)), "error", err)
			failed++
		}
	}

	if failed > 0 {
		return common.NewUserError(fmt.Sprintf("%d of %d years failed", failed, len(years)), nil)
	}
	slog.Info(cli.FormatSuccess(fmt.Sprintf("all %d years merged", len(years))))
	return nil
}

func mergeYear(paths config.Paths, year int) error {
	// Reload the base boundaries for every year so merged properties never
	// leak between cycles.
	set, err := geo.Load(paths.CountiesGeoJSON())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.NewMissingInputError(paths.CountiesGeoJSON(), csvio.StageGeography, err)
		}
		return err
	}

	results, err := csvio.LoadElection(paths, year)
	if err != nil {
		return err
	}

	rows := make(map[string]map[string]interface{}, len(results))
	for _, r := range results {
		rows[r.FIPS] = electionProperties(r, year)
	}
	stats := set.MergeLeft(rows)
	slog.Info("merged election data",
		"year", year,
		"matched", stats.Matched,
		"geo_only", stats.UnmatchedGeo,
		"election_only", stats.UnmatchedTable)

	if viper.GetBool("merge.include_swings") {
		mergeSwings(paths, set, year)
	}

	if err := set.Save(paths.CombinedFile(year)); err != nil {
		return err
	}
	slog.Info(cli.FormatSuccess(fmt.Sprintf("merged %d", year)), "path", paths.CombinedFile(year))
	return nil
}

// mergeSwings attaches the swing metrics of the pair ending in year, when
// that artifact exists. A missing swing file degrades the merge, never
// fails it.
func mergeSwings(paths config.Paths, set *geo.BoundarySet, year int) {
	var year1 int
	for _, pair := range config.AdjacentPairs() {
		if pair[1] == year {
			year1 = pair[0]
			break
		}
	}
	if year1 == 0 {
		return
	}

	records, err := csvio.LoadSwings(paths, year1, year)
	if err != nil {
		slog.Warn(cli.FormatWarning(fmt.Sprintf("no swing data for %d -> %d", year1, year)), "error", err)
		return
	}

	rows := make(map[string]map[string]interface{}, len(records))
	for _, r := range records {
		rows[r.FIPS] = swingProperties(r)
	}
	stats := set.MergeLeft(rows)
	slog.Info("merged swing data", "year", year, "matched", stats.Matched)
}
