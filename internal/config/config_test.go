package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	mtest "github.com/LeJamon/nftmarketd/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func marketSection() string {
	return fmt.Sprintf(`
[market]
address = "%s"
owner = "%s"
fee_recipient = "%s"
`, mtest.NewAccount("market").Address, mtest.NewAccount("owner").Address, mtest.NewAccount("fees").Address)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, marketSection())

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.GetConfigPath())
	assert.Equal(t, DefaultDenom, cfg.Market.Denom)
	assert.Equal(t, uint32(DefaultRoyaltyPct), cfg.Market.DefaultRoyaltyPct)
	assert.Empty(t, cfg.Market.Admins)
	assert.Equal(t, "pebble", cfg.Database.Type)
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultDatabasePath), cfg.Database.Path)
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultJournalPath), cfg.Journal.Path)
	assert.Equal(t, 10*time.Second, cfg.Journal.Timeout)
	assert.Equal(t, DefaultRPCAddress, cfg.RPC.Address)
	assert.Equal(t, "/ws", cfg.RPC.WSPath)
	assert.True(t, cfg.RPC.RequireSignatures)
	assert.Equal(t, 10*time.Minute, cfg.RPC.ReplayWindow)
	assert.False(t, cfg.GRPC.Enabled)
	assert.Equal(t, CustodySim, cfg.Custody.Mode)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigOverrides(t *testing.T) {
	admin := mtest.NewAccount("admin").Address
	path := writeConfig(t, marketSection()+fmt.Sprintf(`
denom = "uatom"
default_royalty_pct = 5
admins = ["%s"]

[database]
type = "memory"
compress = false

[journal]
enabled = false

[grpc]
enabled = true
address = "127.0.0.1:9090"

[custody]
mode = "http"
url = "http://localhost:8080"
`, admin))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "uatom", cfg.Market.Denom)
	assert.Equal(t, uint32(5), cfg.Market.DefaultRoyaltyPct)
	assert.Equal(t, []string{admin}, cfg.Market.Admins)
	assert.Equal(t, "memory", cfg.Database.Type)
	assert.Zero(t, cfg.Database.OpenConfig().CompressThreshold)
	assert.False(t, cfg.Journal.Enabled)
	assert.True(t, cfg.GRPC.Enabled)
	assert.Equal(t, "127.0.0.1:9090", cfg.GRPC.Address)
	assert.Equal(t, CustodyHTTP, cfg.Custody.Mode)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, marketSection())
	t.Setenv("MARKETD_RPC_ADDRESS", "0.0.0.0:7000")
	t.Setenv("MARKETD_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", cfg.RPC.Address)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	_, err = LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{"bad royalty", "default_royalty_pct = 101\n", "default_royalty_pct"},
		{"bad admin", "admins = [\"nope\"]\n", "admin is not a valid account"},
		{"empty denom", "denom = \"\"\n", "denom is required"},
		{"bad database", "[database]\ntype = \"rocks\"\n", "invalid database type"},
		{"bad journal driver", "[journal]\ndriver = \"mysql\"\n", "invalid journal driver"},
		{"postgres without dsn", "[journal]\ndriver = \"postgres\"\n", "dsn is required"},
		{"bad rpc address", "[rpc]\naddress = \"localhost\"\n", "invalid address format"},
		{"bad ws path", "[rpc]\nws_path = \"ws\"\n", "ws_path"},
		{"shared address", "[grpc]\nenabled = true\naddress = \"127.0.0.1:5005\"\n", "cannot share address"},
		{"bad custody mode", "[custody]\nmode = \"chain\"\n", "invalid custody mode"},
		{"http custody without url", "[custody]\nmode = \"http\"\n", "custody url"},
		{"bad log level", "[log]\nlevel = \"loud\"\n", "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, marketSection()+tt.extra)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigRequiresMarketAccounts(t *testing.T) {
	path := writeConfig(t, "[market]\nowner = \"\"\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "market config validation failed")
}

func TestJournalRelationalConfig(t *testing.T) {
	j := JournalConfig{Enabled: true, Driver: "sqlite", Path: "/tmp/j.db", Timeout: time.Second}
	require.NoError(t, j.Validate())
	rc := j.RelationalConfig()
	assert.Equal(t, "sqlite", rc.Driver)
	assert.Equal(t, time.Second, rc.DefaultTimeout)

	j = JournalConfig{Enabled: true, Driver: "postgres", DSN: "postgres://u@h/db", Timeout: time.Second}
	require.NoError(t, j.Validate())
	rc = j.RelationalConfig()
	assert.Equal(t, "postgres", rc.Driver)
	assert.Equal(t, "postgres://u@h/db", rc.ConnectionString)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	market := mtest.NewAccount("market").Address
	owner := mtest.NewAccount("owner").Address

	require.NoError(t, WriteDefault(path, market, owner, owner))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, market, cfg.Market.Address)
	assert.Equal(t, owner, cfg.Market.FeeRecipient)

	err = WriteDefault(path, market, owner, owner)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
