package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/star/sunpath/internal/config"
	"github.com/star/sunpath/internal/solar"
)

var (
	cfgFile string
	cfg     config.Config

	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "sunpath",
	Short: "Apparent path of the Sun across the sky",
	Long: `Compute the Sun's altitude and azimuth over a day for a latitude and a
day of the year, and project the visible part onto a polar sky chart.

Examples:
  sunpath track --lat 45 --day 172
  sunpath polar --lat -33.9 --day 355 --json
  sunpath declination --day 81
  sunpath day --declination 10
  sunpath serve --config sunpath.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
		var err error
		cfg, err = config.Load(cfgFile, logger)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, JSON or TOML)")
}

// selectionFlags returns the latitude and day chosen on the command line,
// falling back to the configured latitude and today's day of the year.
func selectionFlags(cmd *cobra.Command, lat float64, day int) (float64, int, error) {
	if !cmd.Flags().Changed("lat") {
		lat = cfg.Defaults.Latitude
	}
	if !solar.ValidLatitude(lat) {
		return 0, 0, fmt.Errorf("latitude %g out of range, must be -90 to 90", lat)
	}
	if !cmd.Flags().Changed("day") {
		day = solar.DayOfYear(now())
	}
	if !solar.ValidDay(day) {
		return 0, 0, fmt.Errorf("day %d out of range, must be %d-%d", day, solar.MinDay, solar.MaxDay)
	}
	return lat, day, nil
}
