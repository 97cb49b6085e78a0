package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const surveyCSV = "sex,age,SBP,DBP,SGOT_AST,SGOT_ALT,gamma_GTP,serum_creatinine,tot_chole,HDL_chole,LDL_chole,SMK_stat_type_cd,DRK_YN\n" +
	"Male,35,120,80,21,35,40,1.0,193,48,126,1,Y\n" +
	"Female,40,130,82,20,36,27,0.9,228,55,148,3,N\n" +
	"Male,45,118,75,47,32,68,0.9,136,41,74,2,N\n"

// resetFlags restores every flag to its default so that values and Changed
// state do not leak between invocations of the shared root command.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--no-color", "-q"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "survey.csv")
	if err := os.WriteFile(path, []byte(surveyCSV), 0o644); err != nil {
		t.Fatalf("write survey: %v", err)
	}
	return path
}

func TestCLI_SummaryFormats(t *testing.T) {
	data := setupHome(t)

	out := mustRun(t, "summary", "--data", data, "--format", "csv")
	for _, want := range []string{
		"sex,SMK_stat_type_cd,DRK_YN,average age,count",
		"Female,still smoke,not drink,40,1",
		"Male,never smoked,drink,35,1",
		"Male,used to smoke,not drink,45,1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("csv summary missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "summary", "--data", data, "--format", "json")
	if !strings.Contains(out, `"average age": 40`) {
		t.Fatalf("json summary missing average age:\n%s", out)
	}

	out = mustRun(t, "summary", "--data", data)
	if !strings.Contains(out, "3 groups") {
		t.Fatalf("table summary missing caption:\n%s", out)
	}

	if _, err := runCmd(t, "summary", "--data", data, "--format", "xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestCLI_RenderWritesPageAndFigures(t *testing.T) {
	data := setupHome(t)
	dir := t.TempDir()
	page := filepath.Join(dir, "site", "index.html")
	figs := filepath.Join(dir, "figures")

	out := mustRun(t, "render", "--data", data, "--out", page, "--figures-dir", figs)
	if !strings.Contains(out, "Wrote 8 figures") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	html := string(b)
	for _, want := range []string{"Smoking and drinking influence", `id="group-organs"`, `id="fig-pressure-sbp-strip"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("page missing %q", want)
		}
	}
	if strings.Contains(html, "@post(") {
		t.Fatalf("static page should not carry toggle actions")
	}
	entries, err := os.ReadDir(figs)
	if err != nil {
		t.Fatalf("read figures dir: %v", err)
	}
	if len(entries) != 8 {
		t.Fatalf("figures = %d, want 8", len(entries))
	}
	if _, err := os.Stat(filepath.Join(figs, "organs-matrix.json")); err != nil {
		t.Fatalf("organs-matrix.json: %v", err)
	}

	// Only the selected group is expanded.
	page2 := filepath.Join(dir, "one.html")
	mustRun(t, "render", "--data", data, "--out", page2, "--groups", "cholesterol")
	b, err = os.ReadFile(page2)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(b), `id="group-cholesterol"`) || strings.Contains(string(b), `id="group-organs"`) {
		t.Fatalf("expected only the cholesterol group expanded")
	}

	if _, err := runCmd(t, "render", "--data", data, "--out", page2, "--groups", "lungs"); err == nil {
		t.Fatalf("expected error for unknown group")
	}
}

func TestCLI_AnalyzeToFile(t *testing.T) {
	data := setupHome(t)
	outPath := filepath.Join(t.TempDir(), "profile.md")

	mustRun(t, "analyze", data, "--output", outPath, "--group-by", "sex", "--recoded")
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read analysis: %v", err)
	}
	md := string(b)
	for _, want := range []string{"File: survey.csv", "Rows: 3", "- sex=Male (n=2)", "still smoke"} {
		if !strings.Contains(md, want) {
			t.Fatalf("analysis missing %q:\n%s", want, md)
		}
	}

	if _, err := runCmd(t, "analyze", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	setupHome(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	mustRun(t, "--config", cfgPath, "config", "set", "limits.box_rows", "77")
	mustRun(t, "--config", cfgPath, "config", "set", "session_secret", "abcdefghijkl")
	out := mustRun(t, "--config", cfgPath, "config", "show")
	for _, want := range []string{"limits.box_rows: 77", "session_secret: abc****jkl", "addr: 127.0.0.1:8501"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config show missing %q:\n%s", want, out)
		}
	}

	if _, err := runCmd(t, "--config", cfgPath, "config", "set", "limits.box_rows", "zero"); err == nil {
		t.Fatalf("expected error for invalid limit")
	}
}
