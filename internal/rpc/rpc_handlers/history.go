package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/nftmarketd/internal/host"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
	"github.com/LeJamon/nftmarketd/internal/storage/relationaldb"
)

// DefaultHistoryLimit is used when history is called without a limit.
const DefaultHistoryLimit = 50

// HistoryMethod handles the history RPC method
type HistoryMethod struct{ guestMethod }

func (m *HistoryMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var request struct {
		Caller  string `json:"caller,omitempty"`
		Command string `json:"command,omitempty"`
		rpc_types.PaginationParams
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Limit < 0 || request.Limit > relationaldb.MaxListLimit {
		return nil, rpc_types.RpcErrorInvalidField("limit")
	}
	if request.Limit == 0 {
		request.Limit = DefaultHistoryLimit
	}

	records, err := b.History(ctx.Context, relationaldb.ListOptions{
		Caller:  request.Caller,
		Command: request.Command,
		Limit:   request.Limit,
	})
	if err != nil {
		return nil, journalError(err)
	}
	if records == nil {
		records = []*relationaldb.Record{}
	}
	return map[string]interface{}{"results": records, "limit": request.Limit}, nil
}

// RecordMethod handles the record RPC method
type RecordMethod struct{ guestMethod }

func (m *RecordMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var request struct {
		ID string `json:"id"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.ID == "" {
		return nil, rpc_types.RpcErrorMissingField("id")
	}

	rec, err := b.Record(ctx.Context, request.ID)
	if err != nil {
		return nil, journalError(err)
	}
	return map[string]interface{}{"result": rec}, nil
}

func journalError(err error) *rpc_types.RpcError {
	switch {
	case errors.Is(err, host.ErrNoJournal):
		return rpc_types.RpcErrorNotEnabled("journal")
	case errors.Is(err, relationaldb.ErrRecordNotFound):
		return rpc_types.RpcErrorObjectNotFound(err.Error())
	default:
		return rpc_types.RpcErrorInternal(err.Error())
	}
}
