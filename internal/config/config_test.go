package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/martinsuchenak/portfinder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Retries: -1}
	cfg.ApplyDefaults()

	assert.Equal(t, "public", cfg.Community)
	assert.Equal(t, 161, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.Retries)
	assert.Equal(t, 1, cfg.FDBID)
	assert.Equal(t, 100000, cfg.MaxRows)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaultsKeepsZeroRetries(t *testing.T) {
	cfg := &Config{Retries: 0}
	cfg.ApplyDefaults()
	assert.Equal(t, 0, cfg.Retries)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 70000, Concurrency: -2, Retries: -1}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port 70000")
	assert.Contains(t, err.Error(), "concurrency -2")
}

func TestValidateFDBIDRange(t *testing.T) {
	for _, id := range []int{-1, math.MaxUint32 + 1} {
		cfg := &Config{FDBID: id, Retries: -1}
		cfg.ApplyDefaults()
		err := cfg.Validate()
		require.Error(t, err, id)
		assert.Contains(t, err.Error(), "fdb-id")
	}

	cfg := &Config{FDBID: math.MaxUint32, Retries: -1}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
}

func TestParseFile(t *testing.T) {
	f, err := ParseFile([]byte(`
community: private
timeout: 500ms
retries: 0
fdb_id: 20
concurrency: 4
switches:
  - 10.20.31.226
  - 10.20.31.227:1161
exclude:
  - 10.20.31.230
`))
	require.NoError(t, err)
	assert.Equal(t, "private", f.Community)
	require.NotNil(t, f.Retries)
	assert.Equal(t, 0, *f.Retries)
	assert.Equal(t, []string{"10.20.31.226", "10.20.31.227:1161"}, f.Switches)
}

func TestParseFileUnknownKey(t *testing.T) {
	_, err := ParseFile([]byte("comunity: typo\n"))
	require.Error(t, err)
}

func TestParseFileEmpty(t *testing.T) {
	f, err := ParseFile(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Switches)
}

func TestMergeFlagsWin(t *testing.T) {
	retries := 3
	cfg := &Config{Community: "flag", Retries: -1, Switches: []string{"192.0.2.1"}}

	require.NoError(t, cfg.Merge(&File{
		Community: "file",
		Port:      1161,
		Timeout:   "750ms",
		Retries:   &retries,
		Switches:  []string{"192.0.2.99"},
		Exclude:   []string{"192.0.2.5"},
		Inventory: "switches.db",
	}))
	cfg.ApplyDefaults()

	assert.Equal(t, "flag", cfg.Community)
	assert.Equal(t, 1161, cfg.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, []string{"192.0.2.1"}, cfg.Switches)
	assert.Equal(t, []string{"192.0.2.5"}, cfg.Exclude)
	assert.Equal(t, "switches.db", cfg.Inventory)
}

func TestMergeBadTimeout(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Merge(&File{Timeout: "soon"}))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("switches: [10.0.0.1]\n"), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1"}, f.Switches)
}

func TestParseList(t *testing.T) {
	assert.Nil(t, ParseList(""))
	assert.Equal(t, []string{"a", "b"}, ParseList(" a, ,b ,"))
}

func defaultConfig() *Config {
	cfg := &Config{Retries: -1}
	cfg.ApplyDefaults()
	return cfg
}

func TestResolveAgents(t *testing.T) {
	cfg := defaultConfig()
	cfg.Exclude = []string{"10.20.31.2", "10.0.9.0/29"}

	agents, err := cfg.ResolveAgents([]model.Switch{
		{Address: "10.20.31.226", Enabled: true},
		{Address: "10.20.31.227:1161", Enabled: true},
		{Address: "10.20.31.228", Port: 2161, Community: "secret", Enabled: true},
		{Address: "10.20.31.229", Enabled: false},
		{Address: "10.20.31.226", Enabled: true},
		{Address: "10.20.31.0/30", Enabled: true},
		{Address: "10.0.9.0/28", Enabled: true},
	})
	require.NoError(t, err)

	var endpoints []string
	for _, a := range agents {
		endpoints = append(endpoints, a.Endpoint())
	}
	assert.Equal(t, []string{
		"10.20.31.226:161",
		"10.20.31.227:1161",
		"10.20.31.228:2161",
		"10.20.31.1:161",
		"10.0.9.8:161",
		"10.0.9.9:161",
		"10.0.9.10:161",
		"10.0.9.11:161",
		"10.0.9.12:161",
		"10.0.9.13:161",
		"10.0.9.14:161",
	}, endpoints)

	assert.Equal(t, "public", agents[0].Community)
	assert.Equal(t, "secret", agents[2].Community)
	assert.Equal(t, 2*time.Second, agents[0].Timeout)
	assert.Equal(t, 1, agents[0].Retries)
}

func TestResolveAgentsErrors(t *testing.T) {
	cfg := defaultConfig()

	for _, entry := range []string{"", "10.0.0.1:0", "10.0.0.1:http", "10.0.0.0/8", "10.0.0.0/33", "2001:db8::/120"} {
		_, err := cfg.ResolveAgents([]model.Switch{{Address: entry, Enabled: true}})
		assert.Error(t, err, entry)
	}
}

type stubInventory struct {
	switches []model.Switch
	err      error
	calls    int
}

func (s *stubInventory) ListSwitches() ([]model.Switch, error) {
	s.calls++
	return s.switches, s.err
}

func TestAgentsSourcePrecedence(t *testing.T) {
	inv := &stubInventory{switches: []model.Switch{{Address: "192.0.2.10", Enabled: true}}}

	cfg := defaultConfig()
	cfg.Switches = []string{"192.0.2.1"}
	agents, err := cfg.Agents(inv)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "192.0.2.1", agents[0].Address)
	assert.Equal(t, 0, inv.calls)

	cfg.Switches = nil
	agents, err = cfg.Agents(inv)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "192.0.2.10", agents[0].Address)
}

func TestAgentsNone(t *testing.T) {
	_, err := defaultConfig().Agents(nil)
	require.ErrorIs(t, err, ErrNoSwitches)

	_, err = defaultConfig().Agents(&stubInventory{err: errors.New("disk full")})
	require.ErrorContains(t, err, "disk full")
}
