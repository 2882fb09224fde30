package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/crypto"
	"github.com/LeJamon/nftmarketd/internal/host"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
)

// SubmitRequest is the parameter object of submit.
type SubmitRequest struct {
	// Command is a command object tagged with its "command" name
	Command json.RawMessage      `json:"command"`
	Caller  string               `json:"caller,omitempty"`
	Funds   *rpc_types.CoinParam `json:"funds,omitempty"`
	rpc_types.SignedEnvelope
}

// SubmitMethod handles the submit RPC method. A rejected command is not an
// RPC error: the result code is part of the response.
type SubmitMethod struct{ guestMethod }

func (m *SubmitMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	var request SubmitRequest
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if len(request.Command) == 0 {
		return nil, rpc_types.RpcErrorMissingField("command")
	}

	cmd, err := market.FromJSON(request.Command)
	if err != nil {
		return nil, rpc_types.RpcErrorInvalidParams("Invalid command: " + err.Error())
	}
	funds, rpcErr := parseCoin(request.Funds)
	if rpcErr != nil {
		return nil, rpcErr
	}

	caller, rpcErr := m.authenticate(ctx, request, cmd, funds)
	if rpcErr != nil {
		return nil, rpcErr
	}

	receipt, err := b.Submit(ctx.Context, host.Submission{
		Caller:  caller,
		Command: cmd,
		Funds:   funds,
		Payload: request.Command,
	})
	if err != nil {
		if errors.Is(err, host.ErrClosed) {
			return nil, rpc_types.RpcErrorShutDown(err.Error())
		}
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}

	return map[string]interface{}{
		"receipt":       receipt,
		"engine_result": receipt.Result.String(),
		"category":      receipt.Result.Category().String(),
		"applied":       receipt.Applied,
	}, nil
}

// authenticate returns the caller of a submission. With signatures
// required the caller is the signer and a nonce may only be used once per
// replay window.
func (m *SubmitMethod) authenticate(ctx *rpc_types.RpcContext, req SubmitRequest, cmd market.Command, funds market.Coin) (string, *rpc_types.RpcError) {
	if !ctx.Services.RequireSignatures && req.SignedEnvelope.IsZero() {
		if req.Caller == "" {
			return "", rpc_types.RpcErrorMissingField("caller")
		}
		return req.Caller, nil
	}

	signer, err := req.SignedEnvelope.Verify(cmd, funds)
	switch {
	case errors.Is(err, rpc_types.ErrMissingSignature):
		return "", rpc_types.RpcErrorBadSignature("Signed submission requires public_key, nonce and signature")
	case errors.Is(err, crypto.ErrInvalidPublicKey):
		return "", rpc_types.RpcErrorPublicMalformed(err.Error())
	case err != nil:
		return "", rpc_types.RpcErrorBadSignature(err.Error())
	}
	if req.Caller != "" && req.Caller != signer {
		return "", rpc_types.RpcErrorBadSignature("caller does not match signer")
	}

	if ctx.Services.Replay != nil {
		if err := ctx.Services.Replay.Use(signer, req.Nonce); err != nil {
			return "", rpc_types.RpcErrorReplayedNonce(req.Nonce)
		}
	}
	return signer, nil
}
