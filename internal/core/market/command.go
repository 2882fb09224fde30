package market

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// CommandType names a command on the wire ("ListForSale", "Bid", ...).
type CommandType string

const (
	TypeListForSale   CommandType = "ListForSale"
	TypeCancelListing CommandType = "CancelListing"
	TypeBuy           CommandType = "Buy"
	TypeBuyBatch      CommandType = "BuyBatch"
	TypeCreateAuction CommandType = "CreateAuction"
	TypeStartAuction  CommandType = "StartAuction"
	TypeCancelAuction CommandType = "CancelAuction"
	TypeBid           CommandType = "Bid"
	TypeClaimAuction  CommandType = "ClaimAuction"
	TypeAddAdmin      CommandType = "AddAdmin"
	TypeRemoveAdmin   CommandType = "RemoveAdmin"
	TypeUpdateConfig  CommandType = "UpdateConfig"
)

// ErrUnknownCommandType is returned when a command type is not registered
var ErrUnknownCommandType = errors.New("unknown command type")

// Command is a state-changing request applied by the Engine.
type Command interface {
	CommandType() CommandType

	// Validate performs the checks that need no ledger state. It returns
	// a *ResultError naming the failure.
	Validate() error
}

// Appliable is implemented by commands that mutate the ledger.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

var (
	registryMu sync.RWMutex
	registry   = make(map[CommandType]func() Command)
)

// Register makes a command constructible by type. It is called from the
// init function of each command package and panics on duplicates.
func Register(t CommandType, factory func() Command) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[t]; dup {
		panic(fmt.Sprintf("market: command %s registered twice", t))
	}
	registry[t] = factory
}

// NewFromType creates an empty command of the given type
func NewFromType(t CommandType) (Command, error) {
	registryMu.RLock()
	factory, ok := registry[t]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommandType, t)
	}
	return factory(), nil
}

// RegisteredTypes returns every registered command type in sorted order.
func RegisteredTypes() []CommandType {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]CommandType, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// FromJSON creates a Command from a JSON object carrying a "command" tag.
func FromJSON(data []byte) (Command, error) {
	var raw struct {
		Command CommandType `json:"command"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Command == "" {
		return nil, fmt.Errorf("%w: missing command field", ErrUnknownCommandType)
	}

	cmd, err := NewFromType(raw.Command)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cmd); err != nil {
		return nil, fmt.Errorf("decode %s: %w", raw.Command, err)
	}
	return cmd, nil
}

// ToJSON encodes cmd with its "command" tag, the inverse of FromJSON.
func ToJSON(cmd Command) ([]byte, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	tag, _ := json.Marshal(cmd.CommandType())
	fields["command"] = tag
	return json.Marshal(fields)
}
