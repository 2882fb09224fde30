package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeJamon/nftmarketd/internal/config"
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/core/market/listing"
	"github.com/LeJamon/nftmarketd/internal/crypto"
	"github.com/LeJamon/nftmarketd/internal/rpc"
	mtest "github.com/LeJamon/nftmarketd/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Market: config.MarketConfig{
			Address:           mtest.NewAccount("market").Address,
			Owner:             mtest.NewAccount("owner").Address,
			FeeRecipient:      mtest.NewAccount("fees").Address,
			Denom:             "unft",
			DefaultRoyaltyPct: 5,
			MaxBatchSize:      market.DefaultMaxBatchSize,
		},
		Database: config.DatabaseConfig{Type: "memory"},
		Journal: config.JournalConfig{
			Enabled: true,
			Driver:  "sqlite",
			Path:    filepath.Join(t.TempDir(), "journal.db"),
			Timeout: 5 * time.Second,
		},
		RPC: config.RPCConfig{
			Address:           "127.0.0.1:0",
			WSPath:            "/ws",
			Timeout:           5 * time.Second,
			RequireSignatures: true,
			ReplayWindow:      time.Minute,
		},
		GRPC: config.GRPCConfig{
			Address:       "127.0.0.1:0",
			ProbeInterval: time.Second,
		},
		Custody: config.CustodyConfig{Mode: config.CustodySim},
		Log:     config.LogConfig{Level: "info"},
	}
}

func commandJSON(t *testing.T, cmd market.Command) []byte {
	t.Helper()
	data, err := market.ToJSON(cmd)
	require.NoError(t, err)
	return data
}

func TestParseFunds(t *testing.T) {
	tests := []struct {
		input   string
		want    market.Coin
		wantErr bool
	}{
		{"", market.Coin{}, false},
		{"100unft", market.Coin{Denom: "unft", Amount: amount.New(100)}, false},
		{" 7uatom ", market.Coin{Denom: "uatom", Amount: amount.New(7)}, false},
		{"unft", market.Coin{}, true},
		{"100", market.Coin{}, true},
		{"99999999999999999999unft", market.Coin{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseFunds(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alice.key.json")
	keys := mtest.NewAccount("alice").Keys

	require.NoError(t, writeKeyFile(path, keys))
	loaded, err := readKeyFile(path)
	require.NoError(t, err)
	assert.Equal(t, keys.Address(), loaded.Address())

	err = writeKeyFile(path, keys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = readKeyFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestBuildSubmitRequest(t *testing.T) {
	alice := mtest.NewAccount("alice")
	path := filepath.Join(t.TempDir(), "alice.key.json")
	require.NoError(t, writeKeyFile(path, alice.Keys))
	raw := commandJSON(t, listing.NewBuy("C", "1"))

	t.Run("signed", func(t *testing.T) {
		req, err := buildSubmitRequest(raw, path, "ignored", "100unft")
		require.NoError(t, err)
		assert.Empty(t, req.Caller)
		require.NotNil(t, req.Funds)
		assert.Equal(t, "100", req.Funds.Amount)

		cmd, err := market.FromJSON(req.Command)
		require.NoError(t, err)
		signer, err := req.SignedEnvelope.Verify(cmd, market.Coin{Denom: "unft", Amount: amount.New(100)})
		require.NoError(t, err)
		assert.Equal(t, alice.Address, signer)
	})

	t.Run("unsigned", func(t *testing.T) {
		req, err := buildSubmitRequest(raw, "", alice.Address, "")
		require.NoError(t, err)
		assert.Equal(t, alice.Address, req.Caller)
		assert.Nil(t, req.Funds)
		assert.True(t, req.SignedEnvelope.IsZero())
	})

	t.Run("malformed command", func(t *testing.T) {
		_, err := buildSubmitRequest([]byte(`{"command":"Nope"}`), "", alice.Address, "")
		require.Error(t, err)
	})
}

func TestNodeEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	n, err := openNode(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { n.Close() })

	svc := rpc.NewHTTPService(rpc.Config{Timeout: 5 * time.Second}, n.services(), zap.NewNop())
	server := httptest.NewServer(svc.Handler())
	t.Cleanup(server.Close)
	client := newRPCClient(server.URL+"/", 5*time.Second)
	ctx := context.Background()

	_, err = client.Call(ctx, "ping", nil)
	require.NoError(t, err)

	res, err := client.Call(ctx, "market_config", nil)
	require.NoError(t, err)
	assert.Equal(t, "success", res["status"])

	alice := mtest.NewAccount("alice")
	keyPath := filepath.Join(t.TempDir(), "alice.key.json")
	require.NoError(t, writeKeyFile(keyPath, alice.Keys))
	req, err := buildSubmitRequest(commandJSON(t, listing.NewListForSale("C", "1", amount.New(100))), keyPath, "", "")
	require.NoError(t, err)

	res, err = client.Call(ctx, "submit", req)
	require.NoError(t, err)
	assert.Equal(t, "mktSUCCESS", res["engine_result"])
	receipt := res["receipt"].(map[string]interface{})
	assert.Equal(t, alice.Address, receipt["caller"])
	// the simulated custody has no such token
	assert.Equal(t, "dispatch_failed", receipt["status"])

	res, err = client.Call(ctx, "history", nil)
	require.NoError(t, err)
	assert.Len(t, res["results"], 1)

	_, err = client.Call(ctx, "no_such_method", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC error")
}

func TestNodeGenesisOnce(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database = config.DatabaseConfig{Type: "pebble", Path: filepath.Join(t.TempDir(), "state")}
	cfg.Journal.Enabled = false

	n, err := openNode(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, n.Close())

	// a second start finds the stored market and keeps it
	cfg.Market.Owner = mtest.NewAccount("someone-else").Address
	n, err = openNode(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer n.Close()

	st, err := market.GetState(n.store)
	require.NoError(t, err)
	assert.Equal(t, mtest.NewAccount("owner").Address, st.Owner)
}

func TestOpenNodeHTTPCustody(t *testing.T) {
	cfg := testConfig(t)
	cfg.Custody = config.CustodyConfig{Mode: config.CustodyHTTP, URL: "http://127.0.0.1:1", Timeout: time.Second}

	n, err := openNode(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, n.Close())
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.GRPC.Enabled = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg, zap.NewNop())
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	t.Run("version", func(t *testing.T) {
		out.Reset()
		rootCmd.SetArgs([]string{"version"})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), "marketd version "+Version)
	})

	t.Run("keys", func(t *testing.T) {
		path := filepath.Join(dir, "k.json")
		out.Reset()
		rootCmd.SetArgs([]string{"keys", "new", path})
		require.NoError(t, rootCmd.Execute())
		addr := string(bytes.TrimSpace(out.Bytes()))
		assert.True(t, crypto.IsValidAddress(addr))

		out.Reset()
		rootCmd.SetArgs([]string{"keys", "show", path})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), addr)
	})

	t.Run("init", func(t *testing.T) {
		path := filepath.Join(dir, config.DefaultConfigFile)
		out.Reset()
		rootCmd.SetArgs([]string{"init", "--config", path})
		require.NoError(t, rootCmd.Execute())

		cfg, err := config.LoadConfig(path)
		require.NoError(t, err)
		owner, err := readKeyFile(filepath.Join(dir, "owner.key.json"))
		require.NoError(t, err)
		assert.Equal(t, owner.Address(), cfg.Market.Owner)
		assert.Equal(t, owner.Address(), cfg.Market.FeeRecipient)

		rootCmd.SetArgs([]string{"init", "--config", path})
		require.Error(t, rootCmd.Execute())
	})
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]interface{}{"a": 1}))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.EqualValues(t, 1, decoded["a"])
}
