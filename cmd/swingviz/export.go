package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kaelinwanghu/swingvisualizer/internal/cli"
	"github.com/kaelinwanghu/swingvisualizer/internal/common"
	"github.com/kaelinwanghu/swingvisualizer/internal/config"
	"github.com/kaelinwanghu/swingvisualizer/internal/csvio"
	"github.com/kaelinwanghu/swingvisualizer/internal/export"
	"github.com/kaelinwanghu/swingvisualizer/internal/geo"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Package combined GeoJSON into the frontend bundle",
		Long: `Split the combined GeoJSON files into one shared base-geometry file plus
compact per-year election JSON keyed by FIPS, generate a manifest with file
sizes and available years, then validate the bundle.`,
		RunE: runExport,
	}

	cmd.Flags().Int("source-year", 0, "cycle whose combined file supplies the base geometry (default: latest available)")
	cmd.Flags().String("output-dir", "", "bundle destination (default: <data-dir>/exports)")

	_ = viper.BindPFlag("export.source_year", cmd.Flags().Lookup("source-year"))
	_ = viper.BindPFlag("export.output_dir", cmd.Flags().Lookup("output-dir"))

	return cmd
}

func runExport(_ *cobra.Command, _ []string) error {
	paths, err := config.Load()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	outDir := viper.GetString("export.output_dir")
	if outDir == "" {
		outDir = paths.ExportsDir()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	slog.Info(cli.FormatTitle("Exporting frontend bundle"), "output", outDir)

	available := availableYears(paths)
	if len(available) == 0 {
		return common.NewMissingInputError(paths.CombinedFile(config.ElectionYears[0]), csvio.StageMerge, nil)
	}

	sourceYear := viper.GetInt("export.source_year")
	if sourceYear == 0 {
		sourceYear = available[len(available)-1]
	} else if !hasYear(available, sourceYear) {
		return common.NewMissingInputError(paths.CombinedFile(sourceYear), csvio.StageMerge, nil)
	}

	source, err := geo.Load(paths.CombinedFile(sourceYear))
	if err != nil {
		return err
	}
	geometryPath, err := export.WriteBaseGeometry(source.FeatureCollection(), outDir)
	if err != nil {
		return err
	}

	electionPaths := make(map[int]string, len(available))
	for _, year := range available {
		set, err := geo.Load(paths.CombinedFile(year))
		if err != nil {
			return err
		}
		path, err := export.WriteElectionData(set.FeatureCollection(), year, outDir)
		if err != nil {
			return err
		}
		electionPaths[year] = path
	}

	generated := time.Now().UTC().Format(time.RFC3339)
	if _, err := export.WriteManifest(outDir, geometryPath, electionPaths, generated); err != nil {
		return err
	}

	if missing := export.Validate(outDir, available); len(missing) > 0 {
		return fmt.Errorf("export bundle incomplete, %d files missing", len(missing))
	}

	slog.Info(cli.FormatSuccess("frontend bundle exported"),
		"years", len(available), "source_year", sourceYear)
	return nil
}

// availableYears lists cycles whose combined GeoJSON exists, ascending.
func availableYears(paths config.Paths) []int {
	var years []int
	for _, year := range config.ElectionYears {
		if _, err := os.Stat(paths.CombinedFile(year)); err == nil {
			years = append(years, year)
		}
	}
	return years
}

func hasYear(years []int, year int) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}
