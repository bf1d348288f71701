package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, "all", p.Timeframe)
	assert.Equal(t, 0.5, p.MinR2)
	assert.False(t, p.Window(time.Now()).Bounded())
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	body := "timeframe: last_month\nexcluded_regions:\n  - internal\nmin_r2: 0.7\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "last_month", p.Timeframe)
	assert.Equal(t, 0.7, p.MinR2)
	assert.Equal(t, []string{"internal"}, p.ExcludedRegions)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5, p.RegionMinVolume)
	assert.Equal(t, 60, p.ChartPoints)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"timeframe": "timeframe: fortnight\n",
		"r2":        "min_r2: 1.5\n",
		"volume":    "agent_min_volume: -1\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}

	_, err := Load(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	p := Default()
	p.SeniorAgents = []string{"Dana"}
	path := filepath.Join(t.TempDir(), "nested", "params.yaml")
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestIsSenior(t *testing.T) {
	p := Default()
	p.SeniorAgents = []string{"Dana Smith", " lee "}

	assert.True(t, p.IsSenior("dana smith"))
	assert.True(t, p.IsSenior("LEE"))
	assert.False(t, p.IsSenior("Sam"))
	assert.False(t, Default().IsSenior("Dana Smith"))
}

func TestWindowUsesTimeframe(t *testing.T) {
	p := Default()
	p.Timeframe = "last_year"

	w := p.Window(time.Date(2025, time.August, 23, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 2024, w.Start.Year())
	assert.Equal(t, time.January, w.Start.Month())
	assert.Equal(t, 2024, w.End.Year())
	assert.Equal(t, time.December, w.End.Month())
}
