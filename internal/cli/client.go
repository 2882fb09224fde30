package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// rpcClient calls the JSON-RPC endpoint of a running daemon.
type rpcClient struct {
	url        string
	httpClient *retryablehttp.Client
}

func newRPCClient(url string, timeout time.Duration) *rpcClient {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 2
	retryClient.HTTPClient.Timeout = timeout
	return &rpcClient{url: url, httpClient: retryClient}
}

type rpcRequest struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	Result map[string]interface{} `json:"result"`
}

// Call invokes method and returns its result object. An error result is
// returned as an error.
func (c *rpcClient) Call(ctx context.Context, method string, params interface{}) (map[string]interface{}, error) {
	request := rpcRequest{Method: method}
	if params != nil {
		request.Params = []interface{}{params}
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, c.url, body)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc %s: http status %d: %s", method, resp.StatusCode, bytes.TrimSpace(data))
	}

	var response rpcResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("rpc %s: invalid response: %w", method, err)
	}
	if response.Result == nil {
		return nil, fmt.Errorf("rpc %s: response without result", method)
	}
	if response.Result["status"] == "error" {
		return nil, fmt.Errorf("RPC error [%v]: %v", response.Result["error"], response.Result["error_message"])
	}
	return response.Result, nil
}
