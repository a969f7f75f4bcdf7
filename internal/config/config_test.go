package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DatasetPath != "StudentsPerformance.csv" || c.PlotBins != 10 || c.PlotWidth != 50 || c.SampleRows != 5 || !c.Color {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.PlotDir != "" {
		t.Fatalf("plot export should be off by default, got %q", c.PlotDir)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("dataset_path: exams.tsv\nplot_bins: 4\ncolor: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EXAMSTAT_PLOT_BINS", "7")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DatasetPath != "exams.tsv" || c.Color {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.PlotBins != 7 {
		t.Fatalf("env should win over file, plot_bins=%d", c.PlotBins)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set("plot_dir", "/tmp/plots"); err != nil {
		t.Fatal(err)
	}
	if err := Save(c, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".examstat", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	again, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if again.PlotDir != "/tmp/plots" {
		t.Fatalf("plot_dir = %q", again.PlotDir)
	}
}

func TestSetValidates(t *testing.T) {
	c := &Global{Delimiter: ",", DecimalSeparator: "."}
	cases := []struct{ key, val string }{
		{"plot_bins", "0"},
		{"plot_bins", "12abc"},
		{"delimiter", "#"},
		{"decimal_separator", "x"},
		{"color", "maybe"},
		{"api_key", "x"},
	}
	for _, tc := range cases {
		if err := c.Set(tc.key, tc.val); err == nil {
			t.Fatalf("Set(%s, %s) should fail", tc.key, tc.val)
		}
	}
	if c.Delimiter != "," {
		t.Fatalf("rejected value was stored: %q", c.Delimiter)
	}
	if err := c.Set("delimiter", "tab"); err != nil {
		t.Fatal(err)
	}
	opt, err := c.DatasetOptions()
	if err != nil || opt.Delimiter != '\t' || opt.DecimalSeparator != '.' {
		t.Fatalf("opt=%+v err=%v", opt, err)
	}
}

func TestLoadFileIgnoresEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("plot_bins: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EXAMSTAT_PLOT_BINS", "7")
	t.Setenv("EXAMSTAT_DATASET_PATH", "/tmp/env-only.csv")
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.PlotBins != 4 || c.DatasetPath != "StudentsPerformance.csv" {
		t.Fatalf("environment leaked into file config: %+v", c)
	}
}
