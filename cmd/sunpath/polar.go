package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/star/sunpath/internal/config"
	"github.com/star/sunpath/internal/skyproj"
	"github.com/star/sunpath/internal/sunview"
)

var (
	polarLat    float64
	polarDay    int
	polarRadius float64
	polarJSON   bool
)

var polarCmd = &cobra.Command{
	Use:     "polar",
	Aliases: []string{"p"},
	Short:   "Project the visible sun path onto a polar sky chart",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, day, err := selectionFlags(cmd, polarLat, polarDay)
		if err != nil {
			return err
		}
		radius := polarRadius
		if !cmd.Flags().Changed("radius") {
			radius = cfg.Defaults.Radius
		}
		if !(radius > 0) || radius > config.MaxRadius {
			return fmt.Errorf("radius %g out of range, must be greater than 0 and at most %g", radius, config.MaxRadius)
		}

		proj, err := sunview.Polar(cfg.Model, lat, day, radius)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if polarJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(proj)
		}

		fmt.Fprintf(out, "%s  latitude %s, day %d, radius %g\n",
			color.CyanString("Polar chart"), formatLatitude(lat), day, proj.Radius)

		if len(proj.HorizonCrossings) == 0 {
			fmt.Fprintln(out, "No horizon crossings")
		}
		for _, c := range proj.HorizonCrossings {
			kind := color.GreenString("%-4s", c.Kind)
			if c.Kind == skyproj.CrossingSet {
				kind = color.RedString("%-4s", c.Kind)
			}
			fmt.Fprintf(out, "%s  azimuth %s  at (%.3f, %.3f)\n", kind, c.Label, c.X, c.Y)
		}

		fmt.Fprintf(out, "Visible samples  %d of path, %d segments\n", len(proj.Path), len(proj.Segments))
		for _, a := range proj.CompassAnchors {
			fmt.Fprintf(out, "%s (%.2f, %.2f)  ", a.Label, a.X, a.Y)
		}
		fmt.Fprintf(out, "\nPlot range  ±%.2f\n", proj.PlotRange)
		return nil
	},
}

func init() {
	polarCmd.Flags().Float64Var(&polarLat, "lat", 45, "observer latitude in degrees (-90 to 90)")
	polarCmd.Flags().IntVarP(&polarDay, "day", "d", 0, "day of the year (1-366, default today)")
	polarCmd.Flags().Float64VarP(&polarRadius, "radius", "r", 1, "plot radius")
	polarCmd.Flags().BoolVar(&polarJSON, "json", false, "emit the projection as JSON")
	rootCmd.AddCommand(polarCmd)
}
