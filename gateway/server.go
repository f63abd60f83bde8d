// Package gateway exposes the chat core over HTTP and websocket.
// It authenticates the requester, validates request fields and maps
// core failures to HTTP statuses; every rule lives in the services.
package gateway

import (
	"context"
	stderrors "errors"
	"group-chat/auth"
	"group-chat/contract"
	"group-chat/services"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type Config struct {
	Host                 string
	Port                 int
	CORSOrigin           string
	MaxUploadSize        int64
	ConnectionBufferSize int
}

// Server is a worker serving the API until its context is cancelled.
type Server struct {
	log      *slog.Logger
	cfg      Config
	tokens   *auth.Tokens
	registry contract.IRegistry
	chats    services.IChatService
	messages services.IMessageService
	blobs    http.Handler
	validate *validator.Validate
	upgrader websocket.Upgrader
}

func NewServer(log *slog.Logger, cfg Config,
	tokens *auth.Tokens,
	registry contract.IRegistry,
	chats services.IChatService,
	messages services.IMessageService,
	blobs http.Handler) *Server {
	s := &Server{
		log:      log,
		cfg:      cfg,
		tokens:   tokens,
		registry: registry,
		chats:    chats,
		messages: messages,
		blobs:    blobs,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Router wires every route. Static segments are registered before {id} captures.
// CORS wraps the router so that preflight requests never reach route matching.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	router.Handle("/socket", s.tokens.Middleware(http.HandlerFunc(s.serveSocket))).Methods(http.MethodGet)
	if s.blobs != nil {
		router.PathPrefix("/blobs/").Handler(s.blobs).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api/v1/chat").Subrouter()
	api.Use(s.tokens.Middleware)
	api.HandleFunc("/new", s.createGroup).Methods(http.MethodPost)
	api.HandleFunc("/my", s.getMyChats).Methods(http.MethodGet)
	api.HandleFunc("/my/groups", s.getMyGroups).Methods(http.MethodGet)
	api.HandleFunc("/addmembers", s.addMembers).Methods(http.MethodPut)
	api.HandleFunc("/removemember", s.removeMember).Methods(http.MethodPut)
	api.HandleFunc("/leave/{id}", s.leaveGroup).Methods(http.MethodDelete)
	api.HandleFunc("/message", s.sendAttachments).Methods(http.MethodPost)
	api.HandleFunc("/direct", s.openDirectChat).Methods(http.MethodPost)
	api.HandleFunc("/message/{id}", s.getMessages).Methods(http.MethodGet)
	api.HandleFunc("/{id}", s.getChatDetails).Methods(http.MethodGet)
	api.HandleFunc("/{id}", s.renameGroup).Methods(http.MethodPut)
	api.HandleFunc("/{id}", s.deleteChat).Methods(http.MethodDelete)
	return s.cors(router)
}

// Run serves until ctx is done, then drains in-flight requests.
// Open sockets observe ctx through their request context and close themselves.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port)),
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Gateway listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("Gateway shutdown incomplete", "error", err)
		}
		s.log.Info("Gateway stopped")
		return nil
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.cfg.CORSOrigin == "" || s.cfg.CORSOrigin == "*" || origin == s.cfg.CORSOrigin
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.CORSOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
