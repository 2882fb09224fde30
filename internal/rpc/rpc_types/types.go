package rpc_types

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/LeJamon/nftmarketd/internal/core/ledger/state"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/host"
	"github.com/LeJamon/nftmarketd/internal/storage/relationaldb"
)

// API version constants
const (
	ApiVersion1       = 1
	DefaultApiVersion = ApiVersion1
)

// Role-based access control
type Role int

const (
	RoleGuest Role = iota
	RoleUser
	RoleAdmin
)

// Backend is the market host as seen by RPC methods.
type Backend interface {
	Submit(ctx context.Context, sub host.Submission) (*host.Receipt, error)
	View() market.Reader
	Store() *state.Store
	Config() market.EngineConfig
	History(ctx context.Context, opts relationaldb.ListOptions) ([]*relationaldb.Record, error)
	Record(ctx context.Context, id string) (*relationaldb.Record, error)
	Ready(ctx context.Context) error
	Events() *host.EventPublisher
}

// ServiceContainer holds what the method handlers need.
type ServiceContainer struct {
	Backend Backend

	// RequireSignatures makes submit derive the caller from a signature
	// instead of trusting the "caller" field.
	RequireSignatures bool
	Replay            *ReplayGuard

	Version   string
	StartTime time.Time
}

// RpcContext contains request-specific information
type RpcContext struct {
	Context    context.Context
	Role       Role
	ApiVersion int
	ClientIP   string
	Services   *ServiceContainer
}

// MethodHandler is implemented by every RPC method
type MethodHandler interface {
	Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)
	RequiredRole() Role
	SupportedApiVersions() []int
}

// MethodRegistry maps method names to handlers
type MethodRegistry struct {
	methods map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		methods: make(map[string]MethodHandler),
	}
}

func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.methods[name] = handler
}

func (r *MethodRegistry) Get(name string) (MethodHandler, bool) {
	handler, exists := r.methods[name]
	return handler, exists
}

// List returns the registered method names in sorted order.
func (r *MethodRegistry) List() []string {
	methods := make([]string, 0, len(r.methods))
	for name := range r.methods {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	return methods
}

// WebSocketCommand is one request received over a websocket
type WebSocketCommand struct {
	Command string          `json:"command"`
	ID      interface{}     `json:"id,omitempty"`
	Params  json.RawMessage `json:"-"`
}

// WebSocketResponse is the reply to a WebSocketCommand
type WebSocketResponse struct {
	Type       string      `json:"type"`
	ID         interface{} `json:"id,omitempty"`
	Status     string      `json:"status,omitempty"`
	Result     interface{} `json:"result,omitempty"`
	Error      *RpcError   `json:"error,omitempty"`
	ApiVersion int         `json:"api_version,omitempty"`
}

// SubscriptionType names a websocket stream
type SubscriptionType string

const (
	// SubResults streams every processed command
	SubResults SubscriptionType = "results"
	// SubAccounts streams results whose caller is a subscribed account
	SubAccounts SubscriptionType = "accounts"
)

// SubscriptionRequest is the parameter object of subscribe/unsubscribe
type SubscriptionRequest struct {
	Streams  []SubscriptionType `json:"streams,omitempty"`
	Accounts []string           `json:"accounts,omitempty"`
}

// StreamMessage is pushed to subscribers for each processed command
type StreamMessage struct {
	Type    string        `json:"type"`
	Receipt *host.Receipt `json:"result"`
}

// CoinParam is the JSON form of attached funds
type CoinParam struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// PaginationParams bounds list queries
type PaginationParams struct {
	Limit int `json:"limit,omitempty"`
}

// TokenParams address a token
type TokenParams struct {
	Collection string `json:"collection"`
	TokenID    string `json:"token_id"`
}
