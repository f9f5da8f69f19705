package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/star/sunpath/internal/solar"
)

var declinationDay int

var declinationCmd = &cobra.Command{
	Use:   "declination",
	Short: "Solar declination for a day of the year",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := declinationDay
		if !cmd.Flags().Changed("day") {
			day = solar.DayOfYear(now())
		}
		if !solar.ValidDay(day) {
			return fmt.Errorf("day %d out of range, must be %d-%d", day, solar.MinDay, solar.MaxDay)
		}

		dec := cfg.Model.DayToDeclination(float64(day))
		fmt.Fprintf(cmd.OutOrStdout(), "Day %d (%s)  %s\n", day, solar.DayLabel(day), solar.FormatDeclination(dec))
		return nil
	},
}

var dayDeclination float64

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Days of the year on which the Sun reaches a declination",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tilt := math.Abs(cfg.Model.AxialTilt)
		if math.IsNaN(dayDeclination) || math.Abs(dayDeclination) > tilt {
			return fmt.Errorf("declination %g out of range, must be %g to %g", dayDeclination, -tilt, tilt)
		}

		asc := cfg.Model.DeclinationToDay(dayDeclination)
		desc := cfg.Model.DescendingDay(dayDeclination)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Ascending   day %.2f (%s)\n", asc, solar.DayLabel(int(math.Round(asc))))
		fmt.Fprintf(out, "Descending  day %.2f (%s)\n", desc, solar.DayLabel(int(math.Round(desc))))
		return nil
	},
}

func init() {
	declinationCmd.Flags().IntVarP(&declinationDay, "day", "d", 0, "day of the year (1-366, default today)")
	dayCmd.Flags().Float64Var(&dayDeclination, "declination", 0, "solar declination in degrees")
	dayCmd.MarkFlagRequired("declination")
	rootCmd.AddCommand(declinationCmd, dayCmd)
}
