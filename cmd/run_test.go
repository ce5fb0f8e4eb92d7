package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/insightsheet-cli/internal/pipeline"
)

const tidyRecipe = `name: tidy
steps:
  - op: clean_all
  - op: transform
    column_a: Revenue
    column_b: Cost
    operation: subtract
    new_column: Profit
`

func TestRun_RecipeOverGlobWithCollisions(t *testing.T) {
	home := isolate(t)
	recipe := writeFile(t, filepath.Join(home, "tidy.yaml"), tidyRecipe)
	data := "Region,Revenue,Cost\nNorth,100,40\nNorth,100,40\nSouth,80,30\n"
	writeFile(t, filepath.Join(home, "d1", "sales.csv"), data)
	writeFile(t, filepath.Join(home, "d2", "sales.csv"), data)
	outDir := filepath.Join(home, "out")

	stdout, _, err := executeCLI(t, "run", recipe, filepath.Join(home, "d*", "sales.csv"), "--out-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[1/2] Processing sales.csv...")
	assert.Contains(t, stdout, "[2/2] Processing sales.csv...")
	assert.Contains(t, stdout, "removed 1")

	want := "Region,Revenue,Cost,Profit\nNorth,100,40,60\nSouth,80,30,50\n"
	assert.Equal(t, want, readFile(t, filepath.Join(outDir, "sales.clean.csv")))
	assert.Equal(t, want, readFile(t, filepath.Join(outDir, "sales.clean__2.csv")))
}

func TestRun_FailingStep(t *testing.T) {
	home := isolate(t)
	recipe := writeFile(t, filepath.Join(home, "bad.yaml"), `name: bad
steps:
  - op: dedupe
  - op: fill_missing
    column: Nope
    strategy: mean
`)
	in := writeFile(t, filepath.Join(home, "sales.csv"), salesCSV+"South,80,30\n")
	outDir := filepath.Join(home, "out")

	_, _, err := executeCLI(t, "run", recipe, in, "--out-dir", outDir, "--quiet")
	var se *pipeline.StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Index)
	_, statErr := os.Stat(filepath.Join(outDir, "sales.clean.csv"))
	assert.True(t, os.IsNotExist(statErr))

	_, stderr, err := executeCLI(t, "run", recipe, in, "--out-dir", outDir, "--quiet", "--partial")
	require.NoError(t, err)
	assert.Contains(t, stderr, `writing snapshot "dedupe"`)
	assert.Equal(t, salesCSV, readFile(t, filepath.Join(outDir, "sales.clean.csv")))
}

func TestRun_KeepGoingReportsFailures(t *testing.T) {
	home := isolate(t)
	recipe := writeFile(t, filepath.Join(home, "tidy.yaml"), tidyRecipe)
	writeFile(t, filepath.Join(home, "in", "a.csv"), salesCSV)
	writeFile(t, filepath.Join(home, "in", "b.csv"), "Other\n1\n")

	_, stderr, err := executeCLI(t, "run", recipe, filepath.Join(home, "in", "*.csv"),
		"--out-dir", filepath.Join(home, "out"), "--keep-going", "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, stderr, "b.csv")
	assert.FileExists(t, filepath.Join(home, "out", "a.clean.json"))
}

func TestRun_Validation(t *testing.T) {
	home := isolate(t)
	recipe := writeFile(t, filepath.Join(home, "tidy.yaml"), tidyRecipe)

	_, _, err := executeCLI(t, "run", recipe, filepath.Join(home, "none", "*.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files matched")

	in := writeFile(t, filepath.Join(home, "a.csv"), salesCSV)
	_, _, err = executeCLI(t, "run", recipe, in, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported --format")
}

func TestNextFreePath(t *testing.T) {
	dir := t.TempDir()
	p, err := nextFreePath(dir, "/data/sales.xlsx", ".clean", "csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sales.clean.csv"), p)

	writeFile(t, p, "x")
	p, err = nextFreePath(dir, "/data/sales.xlsx", ".clean", "csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sales.clean__2.csv"), p)

	p, err = nextFreePath("", filepath.Join(dir, "raw.csv"), "", "md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "raw.md"), p)
}
