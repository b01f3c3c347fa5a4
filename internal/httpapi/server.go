package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/amaanshakeel0998/Agent/internal/browser"
	"github.com/amaanshakeel0998/Agent/internal/catalog"
	"github.com/amaanshakeel0998/Agent/internal/config"
	"github.com/amaanshakeel0998/Agent/internal/desktop"
	"github.com/amaanshakeel0998/Agent/internal/history"
	"github.com/amaanshakeel0998/Agent/internal/memory"
	"github.com/amaanshakeel0998/Agent/internal/observability"
	"github.com/amaanshakeel0998/Agent/internal/protocol"
	"github.com/amaanshakeel0998/Agent/internal/router"
	"github.com/amaanshakeel0998/Agent/internal/speech"
	"github.com/amaanshakeel0998/Agent/internal/workflow"
)

// Server exposes the assistant's control plane: utterance submission,
// state inspection, the event feed and diagnostics.
type Server struct {
	cfg      config.Config
	cat      *catalog.Catalog
	commands *router.Router
	store    *memory.Store
	engine   *workflow.Engine
	sampler  desktop.Sampler
	tabs     *browser.Locator
	audit    history.Store
	window   *observability.RouteWindow
	hub      *Hub
	upgrader websocket.Upgrader
}

func New(cfg config.Config, cat *catalog.Catalog, commands *router.Router, store *memory.Store, engine *workflow.Engine,
	sampler desktop.Sampler, tabs *browser.Locator, audit history.Store,
	window *observability.RouteWindow, hub *Hub) *Server {
	return &Server{
		cfg:      cfg,
		cat:      cat,
		commands: commands,
		store:    store,
		engine:   engine,
		sampler:  sampler,
		tabs:     tabs,
		audit:    audit,
		window:   window,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only same-origin browser connections unless explicitly
				// opened up. A foreign page must not drive the desktop.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/utterance", s.handleUtterance)
	r.Get("/v1/context", s.handleContext)
	r.Delete("/v1/context", s.handleClearContext)
	r.Get("/v1/workflow", s.handleWorkflow)
	r.Delete("/v1/workflow", s.handleCancelWorkflow)
	r.Get("/v1/desktop/apps", s.handleDesktopApps)
	r.Get("/v1/desktop/tabs", s.handleDesktopTabs)
	r.Get("/v1/history", s.handleHistory)
	r.Get("/v1/diagnostics/latency", s.handleLatency)
	r.Get("/v1/events/ws", s.handleEventsWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	sampling := "ok"
	if s.sampler != nil {
		if _, err := s.sampler.ListWindows(r.Context()); err != nil {
			sampling = "unavailable"
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ready",
		"sampling": sampling,
	})
}

type utteranceRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

func (s *Server) handleUtterance(w http.ResponseWriter, r *http.Request) {
	var req utteranceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "empty_utterance", "text is required")
		return
	}
	res := s.commands.Route(r.Context(), speech.Utterance{
		Text:     req.Text,
		Language: speech.Language(req.Language),
	})
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleContext(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"entries": s.store.Entries(),
	})
}

func (s *Server) handleClearContext(w http.ResponseWriter, _ *http.Request) {
	s.store.Clear()
	respondJSON(w, http.StatusOK, map[string]any{"status": "cleared"})
}

func (s *Server) handleWorkflow(w http.ResponseWriter, _ *http.Request) {
	sess := s.engine.Session()
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleCancelWorkflow(w http.ResponseWriter, _ *http.Request) {
	cancelled := s.engine.Cancel()
	respondJSON(w, http.StatusOK, map[string]any{"cancelled": cancelled})
}

func (s *Server) handleDesktopApps(w http.ResponseWriter, r *http.Request) {
	if s.sampler == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "desktop sampling not configured")
		return
	}
	records, err := s.sampler.ListWindows(r.Context())
	if err != nil {
		if errors.Is(err, desktop.ErrSamplingUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "sampling_unavailable", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "sampling_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"apps":    desktop.GroupByApp(records, s.cat),
		"windows": records,
	})
}

func (s *Server) handleDesktopTabs(w http.ResponseWriter, r *http.Request) {
	if s.tabs == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "tab locator not configured")
		return
	}
	browserName := strings.TrimSpace(r.URL.Query().Get("browser"))
	tabs, err := s.tabs.ListTabs(r.Context(), browserName)
	switch {
	case err == nil:
	case errors.Is(err, browser.ErrBrowserNotRunning):
		respondError(w, http.StatusNotFound, "browser_not_running", err.Error())
		return
	case errors.Is(err, desktop.ErrSamplingUnavailable):
		respondError(w, http.StatusServiceUnavailable, "sampling_unavailable", err.Error())
		return
	default:
		respondError(w, http.StatusInternalServerError, "sampling_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tabs": tabs})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "audit store not configured")
		return
	}
	limit := 20
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be 1..500")
			return
		}
		limit = n
	}
	records, err := s.audit.RecentCommands(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "history_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"commands": records})
}

func (s *Server) handleLatency(w http.ResponseWriter, _ *http.Request) {
	if s.window == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "latency window not configured")
		return
	}
	respondJSON(w, http.StatusOK, s.window.Snapshot())
}

func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := s.hub.Subscribe()
	defer s.hub.Unsubscribe(events)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(ev); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			_ = conn.WriteJSON(protocol.Event{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
				TS:     time.Now().UTC(),
			})
			continue
		}
		switch msg := parsed.(type) {
		case protocol.ClientUtterance:
			// Utterances over the feed route exactly like REST ones; the
			// reply arrives as an assistant_reply event.
			s.commands.Route(ctx, speech.Utterance{
				Text:     msg.Text,
				Language: speech.Language(msg.Language),
			})
		case protocol.ClientSubscribe:
			// Already subscribed on connect; acknowledged implicitly.
		}
	}

	cancel()
	<-writerDone
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
