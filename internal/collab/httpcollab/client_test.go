package httpcollab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/LeJamon/nftmarketd/internal/collab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/", RetryMax: 1})
	require.NoError(t, err)
	c.httpClient.RetryWaitMin = 0
	c.httpClient.RetryWaitMax = 0
	return c
}

func TestOwnerOf(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/C/tokens/1/owner", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(ownerResponse{Owner: "alice"})
	})
	c := newTestClient(t, mux)

	owner, err := c.OwnerOf(context.Background(), "C", "1")
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	_, err = c.OwnerOf(context.Background(), "C", "2")
	require.ErrorIs(t, err, collab.ErrUnknownToken)
}

func TestTransfer(t *testing.T) {
	var got transferRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/C/tokens/1/transfer", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got.From != "alice" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.Transfer(context.Background(), "C", "1", "alice", "market"))
	assert.Equal(t, transferRequest{From: "alice", To: "market"}, got)

	err := c.Transfer(context.Background(), "C", "1", "bob", "market")
	require.ErrorIs(t, err, collab.ErrNotOwner)
}

func TestBankCalls(t *testing.T) {
	var paid moveRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/collect", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})
	mux.HandleFunc("/pay", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&paid))
	})
	c := newTestClient(t, mux)

	require.ErrorIs(t, c.Collect(context.Background(), "bob", "unft", 10), collab.ErrInsufficientFunds)
	require.NoError(t, c.Pay(context.Background(), "alice", "unft", 95))
	assert.Equal(t, moveRequest{To: "alice", Denom: "unft", Amount: 95}, paid)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(ownerResponse{Owner: "carol"})
	}))

	owner, err := c.OwnerOf(context.Background(), "C", "9")
	require.NoError(t, err)
	assert.Equal(t, "carol", owner)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}
