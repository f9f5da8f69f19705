package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/star/sunpath/internal/skyproj"
)

// run executes the root command with args after resetting every flag, since
// cobra keeps flag values on the package-level commands between runs.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCmd_Metadata(t *testing.T) {
	if rootCmd.Use != "sunpath" {
		t.Errorf("expected Use 'sunpath', got %q", rootCmd.Use)
	}
	for _, name := range []string{"serve", "track", "polar", "declination", "day"} {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("config flag not found")
	}
}

func TestTrackCmd(t *testing.T) {
	out, err := run(t, "track", "--lat", "45", "--day", "182")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"latitude 45.00°N, day 182 (Jul 1)",
		"Solar declination: 23.1°",
		"Peak altitude",
		"Daylight",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTrackCmd_PolarDay(t *testing.T) {
	out, err := run(t, "track", "--lat", "80", "--day", "172")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "polar day") {
		t.Errorf("expected polar day, got:\n%s", out)
	}
}

func TestTrackCmd_Samples(t *testing.T) {
	out, err := run(t, "track", "--lat", "0", "--day", "81", "--samples")
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	header := -1
	for i, l := range lines {
		if strings.Contains(l, "hour angle") {
			header = i
		}
	}
	if header < 0 {
		t.Fatalf("no sample header in output:\n%s", out)
	}
	if rows := len(lines) - header - 1; rows != 100 {
		t.Errorf("sample rows = %d, want 100", rows)
	}
}

func TestTrackCmd_DefaultsToToday(t *testing.T) {
	old := now
	now = func() time.Time { return time.Date(2025, time.March, 22, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = old })

	out, err := run(t, "track")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "day 81 (Mar 22)") {
		t.Errorf("expected today's day of year, got:\n%s", out)
	}
}

func TestTrackCmd_InvalidInput(t *testing.T) {
	tests := [][]string{
		{"track", "--lat", "91"},
		{"track", "--lat", "-90.5"},
		{"track", "--day", "0"},
		{"track", "--day", "367"},
	}
	for _, args := range tests {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestPolarCmd_JSON(t *testing.T) {
	out, err := run(t, "polar", "--lat", "45", "--day", "182", "--radius", "2", "--json")
	if err != nil {
		t.Fatal(err)
	}

	var proj skyproj.PolarProjection
	if err := json.Unmarshal([]byte(out), &proj); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if proj.Radius != 2 {
		t.Errorf("radius = %v, want 2", proj.Radius)
	}
	if len(proj.HorizonCrossings) != 2 {
		t.Errorf("crossings = %d, want 2", len(proj.HorizonCrossings))
	}
	if len(proj.CompassAnchors) != 4 {
		t.Errorf("anchors = %d, want 4", len(proj.CompassAnchors))
	}
}

func TestPolarCmd_Text(t *testing.T) {
	out, err := run(t, "polar", "--lat", "45", "--day", "182")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"rise", "set", "N (0.00, 1.10)", "Plot range  ±1.30"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "polar", "--lat", "-85", "--day", "172")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No horizon crossings") {
		t.Errorf("expected no crossings at polar night:\n%s", out)
	}
}

func TestPolarCmd_InvalidRadius(t *testing.T) {
	for _, r := range []string{"0", "-2", "101"} {
		if _, err := run(t, "polar", "--day", "1", "--radius", r); err == nil {
			t.Errorf("radius %s: expected error", r)
		}
	}
}

func TestDeclinationCmd(t *testing.T) {
	out, err := run(t, "declination", "--day", "81")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Day 81 (Mar 22)  Solar declination: 0.0°") {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := run(t, "declination", "--day", "400"); err == nil {
		t.Error("expected error for day 400")
	}
}

func TestDayCmd(t *testing.T) {
	out, err := run(t, "day", "--declination", "0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Ascending   day 81.00 (Mar 22)") {
		t.Errorf("missing ascending day:\n%s", out)
	}
	if !strings.Contains(out, "Descending  day 263.50 (Sep 21)") {
		t.Errorf("missing descending day:\n%s", out)
	}

	if _, err := run(t, "day", "--declination", "30"); err == nil {
		t.Error("expected error beyond the axial tilt")
	}
	if _, err := run(t, "day"); err == nil {
		t.Error("expected error without --declination")
	}
}
