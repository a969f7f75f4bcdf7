package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const studentsCSV = `"gender","race/ethnicity","parental level of education","lunch","test preparation course","math score","reading score","writing score"
"female","group B","bachelor's degree","standard","none","72","72","74"
"female","group C","some college","standard","completed","69","90","88"
"male","group A","associate's degree","free/reduced","none","47","57","44"
"male","group C","some college","standard","none","76","78","75"
"female","group B","master's degree","standard","completed","90","95","93"
`

// runCmd executes the root command with args, feeding stdin and returning stdout and stderr.
func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	// Reset flag-bound variables that persist across invocations
	dataPath, cfgFile, debug = "", "", false
	infoRows, plotBins = 0, 0
	repOutputPath, repSampleRows = "", 0
	repGroupBy = []string{"gender", "test_preparation_course"}
	if fl := reportCmd.Flags().Lookup("group-by"); fl != nil {
		fl.Changed = false
	}
	cfg = nil

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "StudentsPerformance.csv")
	if err := os.WriteFile(path, []byte(studentsCSV), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestCLI_InteractiveSession(t *testing.T) {
	data := setup(t)
	out, _, err := runCmd(t, "2\n5\nrace/ethnicity\n4\n7\n", "--data", data)
	if err != nil {
		t.Fatalf("interactive run failed: %v", err)
	}
	for _, want := range []string{
		"Student Exam Performance Analyzer",
		"SCORE STATISTICS",
		"70.80", // math mean
		"Comparing scores by race_ethnicity",
		"TEST PREPARATION EFFECT",
		"Exiting program.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "| group B") > strings.Index(out, "| group C") || strings.Index(out, "| group C") > strings.Index(out, "| group A") {
		t.Fatalf("groups not in first-seen order:\n%s", out)
	}
}

func TestCLI_MissingDatasetTerminatesGracefully(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	out, errOut, err := runCmd(t, "2\n", "--data", filepath.Join(home, "nope.csv"))
	if err != nil {
		t.Fatalf("expected graceful exit, got %v", err)
	}
	if !strings.Contains(errOut, "✗ Error:") || !strings.Contains(errOut, "nope.csv") {
		t.Fatalf("stderr = %q", errOut)
	}
	if strings.Contains(out, "SCORE STATISTICS") {
		t.Fatalf("menu ran without a dataset:\n%s", out)
	}
}

func TestCLI_Subcommands(t *testing.T) {
	data := setup(t)
	cases := []struct {
		args []string
		want []string
	}{
		{[]string{"info", "-n", "2"}, []string{"Rows: 5", "Columns: 8", "First 2 rows:"}},
		{[]string{"stats"}, []string{"Math Score", "70.80", "47", "90"}},
		{[]string{"corr"}, []string{"SUBJECT CORRELATION", "1.000"}},
		{[]string{"compare", "Gender"}, []string{"Comparing scores by gender", "female", "male"}},
		{[]string{"testprep"}, []string{"Interpretation:"}},
		{[]string{"plot", "writing", "--bins", "4"}, []string{"Distribution of Writing Score", "Frequency"}},
	}
	for _, tc := range cases {
		out, _, err := runCmd(t, "", append(tc.args, "--data", data)...)
		if err != nil {
			t.Fatalf("%v failed: %v", tc.args, err)
		}
		for _, want := range tc.want {
			if !strings.Contains(out, want) {
				t.Fatalf("%v output missing %q:\n%s", tc.args, want, out)
			}
		}
	}
}

func TestCLI_CompareUnknownCategoryFails(t *testing.T) {
	data := setup(t)
	_, _, err := runCmd(t, "", "compare", "zodiac", "--data", data)
	if err == nil || !strings.Contains(err.Error(), `unknown category "zodiac"`) {
		t.Fatalf("expected unknown category error, got %v", err)
	}
}

func TestCLI_ReportToFile(t *testing.T) {
	data := setup(t)
	outPath := filepath.Join(t.TempDir(), "report.md")
	out, _, err := runCmd(t, "", "report", "-o", outPath, "--group-by", "lunch,zodiac", "--data", data)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "Wrote report to") {
		t.Fatalf("stdout = %q", out)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	md := string(b)
	for _, want := range []string{"[DATASET SUMMARY]", "Run: ", "[SCORE STATISTICS]", "[GROUP-BY LUNCH]", "[TEST PREPARATION EFFECT]", `skipped group-by "zodiac"`} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if _, _, err := runCmd(t, "", "config", "set", "plot_bins", "12"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".examstat", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	out, _, err := runCmd(t, "", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "plot_bins: 12") || !strings.Contains(out, "dataset_path: StudentsPerformance.csv") {
		t.Fatalf("config show = %q", out)
	}
	if _, _, err := runCmd(t, "", "config", "set", "plot_bins", "zero"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestCLI_ConfigSetKeepsOneOffOverridesOut(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("EXAMSTAT_SAMPLE_ROWS", "9")
	oneOff := filepath.Join(home, "one-off.csv")
	if _, _, err := runCmd(t, "", "config", "set", "plot_bins", "12", "--data", oneOff); err != nil {
		t.Fatalf("config set: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(home, ".examstat", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	saved := string(b)
	if strings.Contains(saved, "one-off.csv") || !strings.Contains(saved, "dataset_path: StudentsPerformance.csv") {
		t.Fatalf("--data leaked into saved config:\n%s", saved)
	}
	if strings.Contains(saved, "sample_rows: 9") || !strings.Contains(saved, "plot_bins: 12") {
		t.Fatalf("environment leaked into saved config:\n%s", saved)
	}

	// --data still applies to the current run.
	out, _, err := runCmd(t, "", "config", "show", "--data", oneOff)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "dataset_path: "+oneOff) {
		t.Fatalf("config show = %q", out)
	}
}
