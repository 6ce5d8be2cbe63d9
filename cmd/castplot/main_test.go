package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/castplot/pkg/castplot/config"
	"github.com/cognicore/castplot/pkg/castplot/internalerr"
	"github.com/cognicore/castplot/pkg/castplot/store/sqlite"
)

const book = "Title page. Contents. Chapter one.\n" +
	"Sherlock Holmes lit his pipe. Watson read the paper!\n" +
	"Holmes and Watson left at once? The fog was thick.\n"

// execute runs the root command with a silent logger and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{
		envFile: filepath.Join(t.TempDir(), "absent.env"),
		log:     zap.NewNop().Sugar(),
	}
	root := newRootCommand(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

type fixture struct {
	configPath string
	cfg        *config.Config
	hits       *int32
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(book))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.CachePath = filepath.Join(dir, "book.txt")
	cfg.SourceURL = srv.URL + "/book.txt"
	cfg.Plot.Output = filepath.Join(dir, "words.png")
	cfg.Store.Path = filepath.Join(dir, "runs.db")

	path := filepath.Join(dir, "castplot.yaml")
	require.NoError(t, cfg.Write(path))
	return fixture{configPath: path, cfg: cfg, hits: &hits}
}

func TestVersionCommand(t *testing.T) {
	original := version
	version = "1.2.3"
	defer func() { version = original }()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "castplot version 1.2.3")
}

func TestRootFlags(t *testing.T) {
	root := newRootCommand(&app{})

	cfgFlag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, cfgFlag)
	assert.Equal(t, "c", cfgFlag.Shorthand)
	assert.Equal(t, defaultConfigPath, cfgFlag.DefValue)

	verbose := root.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	for _, name := range []string{"run", "fetch", "stats", "runs", "config", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestRunCommand(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "--config", f.configPath, "run")
	require.NoError(t, err)
	assert.Contains(t, out, f.cfg.Plot.Output)

	png, err := os.ReadFile(f.cfg.Plot.Output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG"))
	assert.EqualValues(t, 1, atomic.LoadInt32(f.hits))

	st, err := sqlite.OpenSQLite(context.Background(), f.cfg.Store.Path)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"Sherlock", "Watson"}, runs[0].Labels)
	assert.Equal(t, 5, runs[0].RecordCount)
}

func TestRunCommandFlags(t *testing.T) {
	f := newFixture(t)
	output := filepath.Join(t.TempDir(), "override.svg")

	_, err := execute(t, "-c", f.configPath, "run", "--output", output, "--no-store")
	require.NoError(t, err)

	svg, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	_, err = os.Stat(f.cfg.Store.Path)
	assert.True(t, os.IsNotExist(err), "--no-store should not create the database")
}

func TestFetchCommandUsesCache(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "-c", f.configPath, "fetch")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "network\t"), out)

	out, err = execute(t, "-c", f.configPath, "fetch")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "cache\t"), out)
	assert.EqualValues(t, 1, atomic.LoadInt32(f.hits))
}

func TestStatsCommand(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "-c", f.configPath, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Sherlock")
	assert.Contains(t, out, "Watson")
	assert.Contains(t, out, "5 sentences analysed")

	_, err = os.Stat(f.cfg.Store.Path)
	assert.True(t, os.IsNotExist(err), "stats should not record a run")
}

func TestStatsOfStoredRun(t *testing.T) {
	f := newFixture(t)

	_, err := execute(t, "-c", f.configPath, "run")
	require.NoError(t, err)

	st, err := sqlite.OpenSQLite(context.Background(), f.cfg.Store.Path)
	require.NoError(t, err)
	runs, err := st.ListRuns(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, st.Close())
	require.Len(t, runs, 1)

	out, err := execute(t, "-c", f.configPath, "stats", "--run", runs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "5 sentences analysed")

	_, err = execute(t, "-c", f.configPath, "stats", "--run", "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestRunsCommand(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "-c", f.configPath, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "no runs stored")

	for i := 0; i < 2; i++ {
		_, err := execute(t, "-c", f.configPath, "run")
		require.NoError(t, err)
	}

	out, err = execute(t, "-c", f.configPath, "runs", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Sherlock, Watson")
	assert.Equal(t, 1, strings.Count(out, f.cfg.SourceURL))

	_, err = execute(t, "-c", f.configPath, "runs", "--limit", "-1")
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestRunsWithoutStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "castplot.yaml")
	require.NoError(t, config.Default().Write(path))

	_, err := execute(t, "-c", path, "runs")
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "castplot.yaml")

	out, err := execute(t, "-c", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	def := config.Default()
	assert.Equal(t, def.SourceURL, cfg.SourceURL)
	assert.Equal(t, def.Characters, cfg.Characters)
	assert.Equal(t, def.Preamble, cfg.Preamble)

	_, err = execute(t, "-c", path, "config", "init")
	assert.ErrorIs(t, err, internalerr.ErrDuplicate)

	_, err = execute(t, "-c", path, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "-c", f.configPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, f.cfg.SourceURL)
	assert.Contains(t, out, "label: Sherlock")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "castplot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preamble:\n  mode: chapters\n"), 0644))

	_, err := execute(t, "-c", path, "run")
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestStatsClosesCleanly(t *testing.T) {
	f := newFixture(t)
	core, logs := observer.New(zapcore.DebugLevel)

	a := &app{
		envFile: filepath.Join(t.TempDir(), "absent.env"),
		log:     zap.New(core).Sugar(),
	}
	root := newRootCommand(a)
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"-c", f.configPath, "stats"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len(), "unexpected warnings: %v", logs.All())
	assert.NotZero(t, logs.FilterMessageSnippet("sentences after preamble removal").Len())
}
