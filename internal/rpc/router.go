package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Config holds the HTTP listener settings.
type Config struct {
	Address string
	WSPath  string
	Timeout time.Duration
}

// DefaultWSPath is where the websocket endpoint is mounted by default.
const DefaultWSPath = "/ws"

// NewRouter mounts JSON-RPC on "/", websockets on wsPath and a readiness
// probe on "/healthz".
func NewRouter(rpcServer *Server, wsServer *WebSocketServer, wsPath string) *mux.Router {
	if wsPath == "" {
		wsPath = DefaultWSPath
	}
	r := mux.NewRouter()
	r.HandleFunc("/healthz", rpcServer.handleHealth).Methods(http.MethodGet)
	r.Handle(wsPath, wsServer)
	r.Handle("/", rpcServer).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := map[string]interface{}{"status": "ok"}
	code := http.StatusOK
	if s.services == nil || s.services.Backend == nil {
		status["status"] = "unavailable"
		code = http.StatusServiceUnavailable
	} else if err := s.services.Backend.Ready(r.Context()); err != nil {
		status["status"] = "unavailable"
		status["error"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

// HTTPService runs the RPC and websocket endpoints on one listener.
type HTTPService struct {
	cfg    Config
	rpc    *Server
	ws     *WebSocketServer
	server *http.Server
	logger *zap.Logger
}

// NewHTTPService wires both servers behind a router.
func NewHTTPService(cfg Config, services *rpc_types.ServiceContainer, logger *zap.Logger) *HTTPService {
	if logger == nil {
		logger = zap.L()
	}
	rpcServer := NewServer(services, cfg.Timeout, logger)
	wsServer := NewWebSocketServer(services, cfg.Timeout, logger)
	return &HTTPService{
		cfg:    cfg,
		rpc:    rpcServer,
		ws:     wsServer,
		logger: logger.Named("http"),
		server: &http.Server{
			Addr:              cfg.Address,
			Handler:           NewRouter(rpcServer, wsServer, cfg.WSPath),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the router.
func (h *HTTPService) Handler() http.Handler {
	return h.server.Handler
}

// Serve listens until ctx is done, then shuts down gracefully.
func (h *HTTPService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.cfg.Address)
	if err != nil {
		return err
	}
	h.logger.Info("rpc listening", zap.String("address", ln.Addr().String()), zap.String("ws_path", h.cfg.WSPath))

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	h.ws.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	h.logger.Info("rpc stopped")
	return nil
}
