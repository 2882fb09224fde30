package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/LeJamon/nftmarketd/internal/host"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
	"github.com/gorilla/websocket"
	uuid "github.com/nu7hatch/gouuid"
	"go.uber.org/zap"
)

const (
	wsMaxMessageSize = 512 * 1024
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 54 * time.Second
	wsWriteWait      = 10 * time.Second
	wsSendBuffer     = 256
)

// WebSocketServer serves RPC methods over websockets and streams
// processed commands to subscribers
type WebSocketServer struct {
	upgrader         websocket.Upgrader
	registry         *rpc_types.MethodRegistry
	services         *rpc_types.ServiceContainer
	connections      map[string]*WebSocketConnection
	connectionsMutex sync.RWMutex
	timeout          time.Duration
	logger           *zap.Logger
	unsubscribe      func()
}

// WebSocketConnection represents a single WebSocket connection
type WebSocketConnection struct {
	ID            string
	conn          *websocket.Conn
	subscriptions map[rpc_types.SubscriptionType]bool
	accounts      map[string]bool
	sendChannel   chan []byte
	mutex         sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
	closeOnce     sync.Once
}

// NewWebSocketServer creates a websocket server. When services carry a
// backend, every receipt it publishes is broadcast to subscribers.
func NewWebSocketServer(services *rpc_types.ServiceContainer, timeout time.Duration, logger *zap.Logger) *WebSocketServer {
	if logger == nil {
		logger = zap.L()
	}
	ws := &WebSocketServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		registry:    rpc_types.NewMethodRegistry(),
		services:    services,
		connections: make(map[string]*WebSocketConnection),
		timeout:     timeout,
		logger:      logger.Named("ws"),
	}
	registerAllMethods(ws.registry)

	if services != nil && services.Backend != nil {
		ws.unsubscribe = services.Backend.Events().Subscribe(ws.PublishReceipt)
	}
	return ws
}

// ServeHTTP handles WebSocket upgrade requests
func (ws *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// The request context ends when ServeHTTP returns.
	ctx, cancel := context.WithCancel(context.Background())
	wsConn := &WebSocketConnection{
		ID:            generateConnectionID(),
		conn:          conn,
		subscriptions: make(map[rpc_types.SubscriptionType]bool),
		accounts:      make(map[string]bool),
		sendChannel:   make(chan []byte, wsSendBuffer),
		ctx:           ctx,
		cancel:        cancel,
	}

	ws.connectionsMutex.Lock()
	ws.connections[wsConn.ID] = wsConn
	ws.connectionsMutex.Unlock()

	ws.logger.Debug("websocket connected", zap.String("conn", wsConn.ID), zap.String("client", getClientIP(r)))

	go ws.handleConnection(wsConn)
	go ws.handleSend(wsConn)
}

// handleConnection reads messages from a WebSocket connection
func (ws *WebSocketServer) handleConnection(wsConn *WebSocketConnection) {
	defer ws.closeConnection(wsConn)

	wsConn.conn.SetReadLimit(wsMaxMessageSize)
	wsConn.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	wsConn.conn.SetPongHandler(func(string) error {
		wsConn.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, message, err := wsConn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.logger.Info("websocket read failed", zap.String("conn", wsConn.ID), zap.Error(err))
			}
			return
		}
		ws.handleMessage(wsConn, message)
	}
}

// handleSend writes queued messages and keeps the connection alive
func (ws *WebSocketServer) handleSend(wsConn *WebSocketConnection) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-wsConn.ctx.Done():
			return
		case <-ticker.C:
			wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := wsConn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				ws.closeConnection(wsConn)
				return
			}
		case message := <-wsConn.sendChannel:
			wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := wsConn.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				ws.logger.Info("websocket send failed", zap.String("conn", wsConn.ID), zap.Error(err))
				ws.closeConnection(wsConn)
				return
			}
		}
	}
}

// handleMessage processes a single message. Commands carry "command", an
// optional "id", and their parameters at the top level.
func (ws *WebSocketServer) handleMessage(wsConn *WebSocketConnection, message []byte) {
	var cmdMap map[string]json.RawMessage
	if err := json.Unmarshal(message, &cmdMap); err != nil {
		ws.sendError(wsConn, rpc_types.RpcErrorInvalidParams("Invalid JSON: "+err.Error()), nil)
		return
	}

	var cmd rpc_types.WebSocketCommand
	if raw, ok := cmdMap["id"]; ok {
		_ = json.Unmarshal(raw, &cmd.ID)
	}
	if raw, ok := cmdMap["command"]; !ok || json.Unmarshal(raw, &cmd.Command) != nil || cmd.Command == "" {
		ws.sendError(wsConn, rpc_types.NewRpcError(rpc_types.RpcMISSING_COMMAND, "missingCommand", "missingCommand", "Missing command field"), cmd.ID)
		return
	}
	delete(cmdMap, "command")
	delete(cmdMap, "id")
	if len(cmdMap) > 0 {
		cmd.Params, _ = json.Marshal(cmdMap)
	}

	rpcCtx := &rpc_types.RpcContext{
		Context:    wsConn.ctx,
		Role:       rpc_types.RoleGuest,
		ApiVersion: rpc_types.DefaultApiVersion,
		ClientIP:   getWebSocketClientIP(wsConn.conn),
		Services:   ws.services,
	}

	switch cmd.Command {
	case "subscribe":
		ws.handleSubscribe(wsConn, cmd, true)
	case "unsubscribe":
		ws.handleSubscribe(wsConn, cmd, false)
	default:
		ws.handleRPCMethod(wsConn, rpcCtx, cmd)
	}
}

// handleSubscribe processes subscribe and unsubscribe commands
func (ws *WebSocketServer) handleSubscribe(wsConn *WebSocketConnection, cmd rpc_types.WebSocketCommand, subscribe bool) {
	var request rpc_types.SubscriptionRequest
	if len(cmd.Params) > 0 {
		if err := json.Unmarshal(cmd.Params, &request); err != nil {
			ws.sendError(wsConn, rpc_types.RpcErrorInvalidParams("Invalid subscription parameters"), cmd.ID)
			return
		}
	}
	for _, stream := range request.Streams {
		if stream != rpc_types.SubResults {
			ws.sendError(wsConn, rpc_types.NewRpcError(rpc_types.RpcSTREAM_MALFORMED, "malformedStream", "malformedStream",
				fmt.Sprintf("Unknown stream: %s", stream)), cmd.ID)
			return
		}
	}

	wsConn.mutex.Lock()
	for _, stream := range request.Streams {
		wsConn.subscriptions[stream] = subscribe
	}
	for _, account := range request.Accounts {
		wsConn.accounts[account] = subscribe
	}
	wsConn.mutex.Unlock()

	key := "subscribed"
	if !subscribe {
		key = "unsubscribed"
	}
	ws.sendResponse(wsConn, rpc_types.WebSocketResponse{
		Type:       "response",
		ID:         cmd.ID,
		Status:     "success",
		Result:     map[string]interface{}{key: true},
		ApiVersion: rpc_types.DefaultApiVersion,
	})
}

// handleRPCMethod processes regular RPC method calls over WebSocket
func (ws *WebSocketServer) handleRPCMethod(wsConn *WebSocketConnection, ctx *rpc_types.RpcContext, cmd rpc_types.WebSocketCommand) {
	result, rpcErr := execute(ws.registry, ws.timeout, ws.logger, ctx, cmd.Command, cmd.Params)
	if rpcErr != nil {
		ws.sendError(wsConn, rpcErr, cmd.ID)
		return
	}
	ws.sendResponse(wsConn, rpc_types.WebSocketResponse{
		Type:       "response",
		ID:         cmd.ID,
		Status:     "success",
		Result:     result,
		ApiVersion: ctx.ApiVersion,
	})
}

func (ws *WebSocketServer) sendResponse(wsConn *WebSocketConnection, response rpc_types.WebSocketResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		ws.logger.Error("failed to marshal websocket response", zap.Error(err))
		return
	}
	ws.enqueue(wsConn, data)
}

// sendError sends an error response with flat error fields
func (ws *WebSocketServer) sendError(wsConn *WebSocketConnection, rpcErr *rpc_types.RpcError, id interface{}) {
	response := map[string]interface{}{
		"type":          "response",
		"status":        "error",
		"error":         rpcErr.ErrorString,
		"error_code":    rpcErr.Code,
		"error_message": rpcErr.Message,
	}
	if id != nil {
		response["id"] = id
	}
	data, err := json.Marshal(response)
	if err != nil {
		ws.logger.Error("failed to marshal websocket error", zap.Error(err))
		return
	}
	ws.enqueue(wsConn, data)
}

// enqueue queues data for wsConn, dropping the connection when its buffer is full
func (ws *WebSocketServer) enqueue(wsConn *WebSocketConnection, data []byte) {
	select {
	case wsConn.sendChannel <- data:
	case <-wsConn.ctx.Done():
	default:
		ws.logger.Warn("websocket send buffer full, closing connection", zap.String("conn", wsConn.ID))
		ws.closeConnection(wsConn)
	}
}

// closeConnection closes a WebSocket connection once
func (ws *WebSocketServer) closeConnection(wsConn *WebSocketConnection) {
	wsConn.closeOnce.Do(func() {
		wsConn.cancel()

		ws.connectionsMutex.Lock()
		delete(ws.connections, wsConn.ID)
		ws.connectionsMutex.Unlock()

		wsConn.conn.Close()
		ws.logger.Debug("websocket closed", zap.String("conn", wsConn.ID))
	})
}

// PublishReceipt sends r to every connection subscribed to the results
// stream or to r's caller.
func (ws *WebSocketServer) PublishReceipt(r *host.Receipt) {
	data, err := json.Marshal(rpc_types.StreamMessage{Type: "result", Receipt: r})
	if err != nil {
		ws.logger.Error("failed to marshal stream message", zap.Error(err))
		return
	}

	ws.connectionsMutex.RLock()
	defer ws.connectionsMutex.RUnlock()

	for _, conn := range ws.connections {
		conn.mutex.RLock()
		wanted := conn.subscriptions[rpc_types.SubResults] || conn.accounts[r.Caller]
		conn.mutex.RUnlock()
		if !wanted {
			continue
		}
		select {
		case conn.sendChannel <- data:
		default:
			ws.logger.Warn("skipping slow websocket connection", zap.String("conn", conn.ID))
		}
	}
}

// ConnectionCount returns the number of open connections.
func (ws *WebSocketServer) ConnectionCount() int {
	ws.connectionsMutex.RLock()
	defer ws.connectionsMutex.RUnlock()
	return len(ws.connections)
}

// Close drops every connection and stops streaming receipts.
func (ws *WebSocketServer) Close() {
	if ws.unsubscribe != nil {
		ws.unsubscribe()
	}
	ws.connectionsMutex.RLock()
	conns := make([]*WebSocketConnection, 0, len(ws.connections))
	for _, c := range ws.connections {
		conns = append(conns, c)
	}
	ws.connectionsMutex.RUnlock()
	for _, c := range conns {
		ws.closeConnection(c)
	}
}

func generateConnectionID() string {
	u, err := uuid.NewV4()
	if err != nil {
		return fmt.Sprintf("conn_%d", time.Now().UnixNano())
	}
	return u.String()
}

func getWebSocketClientIP(conn *websocket.Conn) string {
	remoteAddr := conn.RemoteAddr().String()
	for i := len(remoteAddr) - 1; i >= 0; i-- {
		if remoteAddr[i] == ':' {
			return remoteAddr[:i]
		}
	}
	return remoteAddr
}
