package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("DEVCTL_HOME", t.TempDir())
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)
	testChdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "asv", cfg.Bench.Tool)
	assert.Equal(t, "benchmarks", cfg.Bench.Dir)
	assert.InDelta(t, 0.05, cfg.Bench.Threshold, 1e-9)
	assert.Equal(t, []string{"OPENBLAS_NUM_THREADS", "MKL_NUM_THREADS"}, cfg.Bench.ThreadVars)
	assert.Contains(t, cfg.Bench.ExtraPath, "/usr/lib/ccache")
	assert.True(t, cfg.Bench.Exclusive)
	assert.Empty(t, cfg.Root, "no project file means no project root")
	assert.Empty(t, cfg.ToolSection())
}

func TestLoadDiscoversProjectFileUpwards(t *testing.T) {
	isolateHome(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
[project]
name = "linalg"

[bench]
dir = "bench"
threshold = 0.1

[tool]
package = "linalg"
`)
	nested := filepath.Join(root, "src", "core")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	testChdir(t, nested)

	cfg, err := Load("")
	require.NoError(t, err)

	wantRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(cfg.Root)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)

	assert.Equal(t, "linalg", cfg.Project.Name)
	assert.Equal(t, "bench", cfg.Bench.Dir)
	assert.InDelta(t, 0.1, cfg.Bench.Threshold, 1e-9)
	assert.Equal(t, "asv", cfg.Bench.Tool, "unset keys keep their defaults")
	assert.Equal(t, "linalg", cfg.ToolSection()["package"])
}

func TestLoadMergesGlobalThenProjectThenEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DEVCTL_HOME", home)
	writeFile(t, filepath.Join(home, "config.toml"), `
[bench]
tool = "global-tool"
mem_fraction = 0.5

[log]
level = "debug"
`)
	project := filepath.Join(t.TempDir(), FileName)
	writeFile(t, project, `
[bench]
tool = "project-tool"
`)
	t.Setenv("DEVCTL_LOG_LEVEL", "warn")

	cfg, err := Load(project)
	require.NoError(t, err)

	assert.Equal(t, "project-tool", cfg.Bench.Tool)
	assert.InDelta(t, 0.5, cfg.Bench.MemFraction, 1e-9)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, project, cfg.File)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	isolateHome(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolateHome(t)
	project := filepath.Join(t.TempDir(), FileName)
	writeFile(t, project, `
[bench]
threshold = 2.5
`)

	_, err := Load(project)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bench.threshold")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Bench: BenchConfig{Tool: "asv", Threshold: 0.05, MemFraction: 0.7}}
	}

	assert.NoError(t, Validate(base()))

	c := base()
	c.Bench.Tool = " "
	assert.Error(t, Validate(c))

	c = base()
	c.Bench.MemFraction = -0.1
	assert.Error(t, Validate(c))

	c = base()
	c.Bench.ThreadVars = []string{"OMP_NUM_THREADS=2"}
	assert.Error(t, Validate(c))

	c = base()
	c.Log.Format = "xml"
	assert.Error(t, Validate(c))
}

func TestStarterRoundTripsThroughLoader(t *testing.T) {
	isolateHome(t)
	body, err := Starter("demo")
	require.NoError(t, err)
	assert.Contains(t, string(body), "# devctl.toml")

	var doc map[string]any
	require.NoError(t, toml.Unmarshal(body, &doc))

	project := filepath.Join(t.TempDir(), FileName)
	writeFile(t, project, string(body))
	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, "meson compile -C build", cfg.Build.Command)
}

func TestLoadKeepsKeyCaseInEnvAndToolTables(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DEVCTL_HOME", home)
	writeFile(t, filepath.Join(home, "config.toml"), `
[bench.env]
OMP_NUM_THREADS = "2"
MKL_NUM_THREADS = 4
`)
	project := filepath.Join(t.TempDir(), FileName)
	writeFile(t, project, `
[bench.env]
OMP_NUM_THREADS = "1"

[tool]
PackageName = "linalg"

[tool.Build]
Jobs = 2
`)

	cfg, err := Load(project)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"OMP_NUM_THREADS": "1",
		"MKL_NUM_THREADS": "4",
	}, cfg.Bench.Env)

	tool := cfg.ToolSection()
	assert.Equal(t, "linalg", tool["PackageName"])
	assert.NotContains(t, tool, "packagename")
	nested, ok := tool["Build"].(map[string]any)
	require.True(t, ok, "nested tool tables keep their name")
	assert.EqualValues(t, 2, nested["Jobs"])
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
