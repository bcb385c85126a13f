package check

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/sim"
	"github.com/san-kum/fdmsim/internal/xmldoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repoAircraft = "../../aircraft"

func copyFile(t *testing.T, from, to string) {
	t.Helper()
	data, err := os.ReadFile(from)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(to), 0o755))
	require.NoError(t, os.WriteFile(to, data, 0o644))
}

// fleet builds an aircraft root with copies of the c172x definition, each paired with
// one initial-conditions file.
func fleet(t *testing.T, ics map[string]string) *config.Config {
	t.Helper()
	root := t.TempDir()
	for name, icFile := range ics {
		dir := filepath.Join(root, "aircraft", name)
		copyFile(t, filepath.Join(repoAircraft, "c172x", "c172x.xml"), filepath.Join(dir, name+".xml"))
		if icFile != "" {
			copyFile(t, filepath.Join(repoAircraft, "c172x", icFile), filepath.Join(dir, icFile))
		}
	}
	cfg := config.DefaultConfig()
	cfg.RootDir = root
	cfg.OutputDir = t.TempDir()
	return cfg
}

func byName(results []Result) map[string]Result {
	out := make(map[string]Result, len(results))
	for _, r := range results {
		out[r.Aircraft] = r
	}
	return out
}

func TestRun_RepositoryAircraft(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RootDir = "../.."
	cfg.OutputDir = t.TempDir()

	c := New(cfg, nil, nil)
	names, err := c.Aircraft()
	require.NoError(t, err)
	assert.Contains(t, names, "c172x")
	assert.NotContains(t, names, "blank")

	results, err := c.Run(context.Background())
	require.NoError(t, err)
	r := byName(results)["c172x"]
	assert.True(t, r.OK(), "%v", r.Err)
	assert.Equal(t, "reset00.xml", r.IC)
}

func TestRun_ConcurrentEngines(t *testing.T) {
	cfg := fleet(t, map[string]string{
		"alpha": "reset01.xml", "bravo": "reset01.xml", "charlie": "reset01.xml",
		"delta": "reset02.xml", "echo": "",
	})
	cache, err := xmldoc.NewCache(8)
	require.NoError(t, err)

	c := New(cfg, nil, cache)
	c.Workers = 3
	results, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.True(t, r.OK(), "%s: %v", r.Aircraft, r.Err)
	}
	assert.Equal(t, "", byName(results)["echo"].IC)
	assert.Positive(t, cache.Len())
}

func TestRun_FailuresDoNotStopTheBatch(t *testing.T) {
	cfg := fleet(t, map[string]string{"good": "reset00.xml", "stalled": "reset03.xml"})
	broken := filepath.Join(cfg.RootDir, "aircraft", "broken", "broken.xml")
	require.NoError(t, os.MkdirAll(filepath.Dir(broken), 0o755))
	require.NoError(t, os.WriteFile(broken, []byte(`<fdm_config name="broken"><metrics/></fdm_config>`), 0o644))

	results, err := New(cfg, nil, nil).Run(context.Background())
	require.NoError(t, err)
	r := byName(results)

	assert.True(t, r["good"].OK())
	assert.True(t, r["stalled"].TrimFailed())
	assert.ErrorIs(t, r["broken"].Err, sim.ErrModelLoad)
	assert.False(t, r["broken"].TrimFailed())
}

func TestRun_Cancelled(t *testing.T) {
	cfg := fleet(t, map[string]string{"alpha": "reset00.xml"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(cfg, nil, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
