package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/star/sunpath/internal/solar"
	"github.com/star/sunpath/internal/sunview"
)

var (
	trackLat     float64
	trackDay     int
	trackSamples bool
)

var trackCmd = &cobra.Command{
	Use:     "track",
	Aliases: []string{"t"},
	Short:   "Summarise the Sun's path for a latitude and day",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, day, err := selectionFlags(cmd, trackLat, trackDay)
		if err != nil {
			return err
		}

		track := sunview.Track(cfg.Model, lat, day)
		s := track.Summary()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%s  latitude %s, day %d (%s)\n",
			color.CyanString("Sun path"), formatLatitude(lat), day, solar.DayLabel(day))
		fmt.Fprintln(out, solar.FormatDeclination(track.Declination))
		fmt.Fprintf(out, "Peak altitude  %.1f° at hour angle %.1f°, azimuth %.1f°\n",
			s.PeakAltitude, s.PeakHourAngle, s.PeakAzimuth)

		switch {
		case s.PolarDay:
			fmt.Fprintln(out, color.YellowString("Daylight       polar day, the Sun never sets"))
		case s.PolarNight:
			fmt.Fprintln(out, color.BlueString("Daylight       polar night, the Sun never rises"))
		default:
			fmt.Fprintf(out, "Daylight       %.1f h (%.0f%% of samples)\n", s.DaylightHours, s.DaylightFraction*100)
		}

		if !trackSamples {
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%10s %10s %10s\n", "hour angle", "altitude", "azimuth")
		above := color.New(color.FgYellow)
		for i := range track.HourAngles {
			row := fmt.Sprintf("%10.1f %10.2f %10.2f", track.HourAngles[i], track.Altitude[i], track.Azimuth[i])
			if track.Altitude[i] > 0 {
				row = above.Sprint(row)
			}
			fmt.Fprintln(out, row)
		}
		return nil
	},
}

func formatLatitude(lat float64) string {
	switch {
	case lat > 0:
		return fmt.Sprintf("%.2f°N", lat)
	case lat < 0:
		return fmt.Sprintf("%.2f°S", -lat)
	default:
		return "0.00°"
	}
}

func init() {
	trackCmd.Flags().Float64Var(&trackLat, "lat", 45, "observer latitude in degrees (-90 to 90)")
	trackCmd.Flags().IntVarP(&trackDay, "day", "d", 0, "day of the year (1-366, default today)")
	trackCmd.Flags().BoolVarP(&trackSamples, "samples", "s", false, "print every sample")
	rootCmd.AddCommand(trackCmd)
}
