// Package httpcollab talks to remote custody and bank services over HTTP.
//
// Custody endpoints:
//
//	GET  {base}/collections/{collection}/tokens/{token}/owner    -> {"owner": "..."}
//	POST {base}/collections/{collection}/tokens/{token}/transfer <- {"from": "...", "to": "..."}
//
// Bank endpoints:
//
//	POST {base}/collect <- {"from": "...", "denom": "...", "amount": 1}
//	POST {base}/pay     <- {"to": "...", "denom": "...", "amount": 1}
//
// A 404 maps to collab.ErrUnknownToken, a 403 to collab.ErrNotOwner and a
// 402 to collab.ErrInsufficientFunds.
package httpcollab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LeJamon/nftmarketd/internal/collab"
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/hashicorp/go-retryablehttp"
)

const DefaultRetryMax = 3

// Config configures a Client.
type Config struct {
	BaseURL  string
	RetryMax int
	Timeout  time.Duration
}

// Client implements collab.Custody and collab.Bank against one base URL.
type Client struct {
	base       string
	httpClient *retryablehttp.Client
}

var (
	_ collab.Custody = (*Client)(nil)
	_ collab.Bank    = (*Client)(nil)
)

func NewClient(cfg Config) (*Client, error) {
	if len(cfg.BaseURL) == 0 {
		return nil, errors.New("missing base url")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = DefaultRetryMax
	if cfg.RetryMax > 0 {
		retryClient.RetryMax = cfg.RetryMax
	}
	if cfg.Timeout > 0 {
		retryClient.HTTPClient.Timeout = cfg.Timeout
	}

	return &Client{base: strings.TrimRight(cfg.BaseURL, "/"), httpClient: retryClient}, nil
}

type ownerResponse struct {
	Owner string `json:"owner"`
}

type transferRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type moveRequest struct {
	From   string        `json:"from,omitempty"`
	To     string        `json:"to,omitempty"`
	Denom  string        `json:"denom"`
	Amount amount.Amount `json:"amount"`
}

func (c *Client) tokenURL(collection, tokenID, leaf string) string {
	return fmt.Sprintf("%s/collections/%s/tokens/%s/%s", c.base, url.PathEscape(collection), url.PathEscape(tokenID), leaf)
}

func (c *Client) OwnerOf(ctx context.Context, collection, tokenID string) (string, error) {
	var out ownerResponse
	if err := c.do(ctx, http.MethodGet, c.tokenURL(collection, tokenID, "owner"), nil, &out); err != nil {
		return "", err
	}
	if out.Owner == "" {
		return "", fmt.Errorf("%w: %s/%s has no owner", collab.ErrUnknownToken, collection, tokenID)
	}
	return out.Owner, nil
}

func (c *Client) Transfer(ctx context.Context, collection, tokenID, from, to string) error {
	return c.do(ctx, http.MethodPost, c.tokenURL(collection, tokenID, "transfer"), transferRequest{From: from, To: to}, nil)
}

func (c *Client) Collect(ctx context.Context, from, denom string, amt amount.Amount) error {
	return c.do(ctx, http.MethodPost, c.base+"/collect", moveRequest{From: from, Denom: denom, Amount: amt}, nil)
}

func (c *Client) Pay(ctx context.Context, to, denom string, amt amount.Amount) error {
	return c.do(ctx, http.MethodPost, c.base+"/pay", moveRequest{To: to, Denom: denom, Amount: amt}, nil)
}

func (c *Client) do(ctx context.Context, method, uri string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return err
		}
	}

	req, err := retryablehttp.NewRequest(method, uri, payload)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, uri, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := statusError(resp.StatusCode, data); err != nil {
		return fmt.Errorf("%s %s: %w", method, uri, err)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(bytes.NewReader(data)).Decode(out)
}

func statusError(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	msg := strings.TrimSpace(string(body))
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", collab.ErrUnknownToken, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", collab.ErrNotOwner, msg)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s", collab.ErrInsufficientFunds, msg)
	default:
		return fmt.Errorf("unexpected status %d: %s", code, msg)
	}
}
