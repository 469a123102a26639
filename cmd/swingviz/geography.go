package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kaelinwanghu/swingvisualizer/internal/cli"
	"github.com/kaelinwanghu/swingvisualizer/internal/config"
	"github.com/kaelinwanghu/swingvisualizer/internal/geo"
)

func geographyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geography",
		Short: "Process Census county boundaries for web mapping",
		Long: `Standardize the raw Census county boundary GeoJSON: rename TIGER/Line
properties, clean FIPS codes, drop empty geometries, and simplify the
remaining geometry for web delivery.`,
		RunE: runGeography,
	}

	cmd.Flags().Float64("simplify", config.SimplifyTolerance, "simplification tolerance in degrees")
	cmd.Flags().Bool("no-simplify", false, "skip geometry simplification")
	cmd.Flags().Bool("validate-only", false, "validate the boundary input without writing output")

	_ = viper.BindPFlag("geography.simplify", cmd.Flags().Lookup("simplify"))
	_ = viper.BindPFlag("geography.no_simplify", cmd.Flags().Lookup("no-simplify"))
	_ = viper.BindPFlag("geography.validate_only", cmd.Flags().Lookup("validate-only"))

	return cmd
}

func runGeography(_ *cobra.Command, _ []string) error {
	paths, err := config.Load()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Processing county boundaries"))

	set, err := geo.Load(paths.RawCountiesGeoJSON())
	if err != nil {
		return err
	}
	slog.Info("loaded boundaries", "features", set.Count())

	stats := set.Standardize()
	bound := set.Bound()
	slog.Info("standardized boundaries",
		"features", stats.Features,
		"invalid_fips", stats.InvalidFIPS,
		"duplicate_fips", stats.DuplicateFIPS,
		"empty_geometry", stats.EmptyGeometry,
		"bounds", fmt.Sprintf("(%.2f, %.2f) to (%.2f, %.2f)",
			bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()))

	if stats.Features == 0 {
		return fmt.Errorf("no valid county boundaries survived standardization")
	}

	if viper.GetBool("geography.validate_only") {
		slog.Info(cli.FormatSuccess("validation complete, no output written"))
		return nil
	}

	if viper.GetBool("geography.no_simplify") {
		slog.Info("skipping simplification")
	} else {
		set.Simplify(viper.GetFloat64("geography.simplify"))
	}

	if err := set.Save(paths.CountiesGeoJSON()); err != nil {
		return err
	}
	slog.Info(cli.FormatSuccess("exported county boundaries"),
		"path", paths.CountiesGeoJSON(), "counties", set.Count())
	return nil
}
