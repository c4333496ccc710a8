// Package dashboard serves the flood-monitoring web dashboard: a
// server-rendered page with live chart widgets, a JSON snapshot API and a
// WebSocket stream pushing refreshed data to connected browsers.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"floodwatch/internal/cfg"
	"floodwatch/internal/metrics"
	"floodwatch/internal/watch"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// broadcastInterval is how often connected clients receive a fresh snapshot.
const broadcastInterval = 2 * time.Second

// Controller is the data source the dashboard renders from.
type Controller interface {
	Snapshot() watch.Snapshot
	Reload(ctx context.Context)
}

// snapshotPayload is what the snapshot API and the WebSocket stream carry:
// the raw snapshot plus the derived chart view-models.
type snapshotPayload struct {
	watch.Snapshot
	Charts chartSet `json:"charts"`
}

type chartSet struct {
	RainForecast  ChartData `json:"rainForecast"`
	RiverForecast ChartData `json:"riverForecast"`
	History       ChartData `json:"history"`
	Comparison    ChartData `json:"comparison"`
}

// Server hosts the dashboard page and its supporting endpoints.
type Server struct {
	controller Controller
	settings   cfg.Settings
	metrics    *metrics.Metrics
	server     *http.Server
	upgrader   websocket.Upgrader
	clients    map[*websocket.Conn]bool
	clientsMu  sync.RWMutex
	stopCh     chan struct{}
	isRunning  bool
	mu         sync.RWMutex
}

// NewServer creates a dashboard server bound to the configured listen
// address. Call Start to begin serving.
func NewServer(controller Controller, s cfg.Settings, m *metrics.Metrics) *Server {
	srv := &Server{
		controller: controller,
		settings:   s,
		metrics:    m,
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:    make(map[*websocket.Conn]bool),
		stopCh:     make(chan struct{}),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", srv.handleDashboard).Methods("GET")
	r.HandleFunc("/api/snapshot", srv.handleSnapshot).Methods("GET")
	r.HandleFunc("/api/reload", srv.handleReload).Methods("POST")
	r.HandleFunc("/ws", srv.handleWebSocket).Methods("GET")
	r.HandleFunc("/healthz", srv.handleHealth).Methods("GET")

	srv.server = &http.Server{
		Addr:         s.ListenAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return srv
}

// Start starts the dashboard server and the client broadcaster.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("dashboard server is already running")
	}

	go s.broadcaster()

	go func() {
		log.Info().Str("address", s.server.Addr).Msg("starting dashboard server")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("dashboard server failed")
		}
	}()

	s.isRunning = true
	return nil
}

// Stop closes all WebSocket connections and shuts down the HTTP server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	close(s.stopCh)

	s.clientsMu.Lock()
	for client := range s.clients {
		client.Close()
	}
	s.clients = make(map[*websocket.Conn]bool)
	s.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown dashboard server")
		return err
	}

	s.isRunning = false
	log.Info().Msg("dashboard server stopped")
	return nil
}

// broadcaster pushes a fresh snapshot to every connected client on a fixed
// cadence.
func (s *Server) broadcaster() {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.broadcast(s.payload())
		case <-s.stopCh:
			return
		}
	}
}

func (s *Server) payload() snapshotPayload {
	snap := s.controller.Snapshot()
	return snapshotPayload{
		Snapshot: snap,
		Charts: chartSet{
			RainForecast:  BuildRainForecastChart(snap.RainForecast),
			RiverForecast: BuildRiverForecastChart(snap.RiverForecast),
			History:       BuildRiverHistoryChart(snap.History),
			Comparison:    BuildComparisonChart(snap.Comparison),
		},
	}
}

func (s *Server) broadcast(payload snapshotPayload) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if len(s.clients) == 0 {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal snapshot for broadcast")
		return
	}

	for client := range s.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(s.clients, client)
			if s.metrics != nil {
				s.metrics.WSClients.Set(float64(len(s.clients)))
			}
		}
	}
}

// handleDashboard serves the dashboard HTML page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := templateData{
		Title:  "Flood Monitoring Dashboard",
		Styles: cfg.ChartStyles(),
		Debug:  s.settings.Debug,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("failed to render dashboard")
	}
}

// handleSnapshot serves the current snapshot plus chart view-models as JSON.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.payload()); err != nil {
		log.Error().Err(err).Msg("failed to encode snapshot")
	}
}

// handleReload triggers a full re-run of the initial load. It backs the
// error modal's retry button.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	go s.controller.Reload(context.Background())
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleWebSocket registers a client for live snapshot updates.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	s.clientsMu.Lock()
	s.clients[conn] = true
	if s.metrics != nil {
		s.metrics.WSClients.Set(float64(len(s.clients)))
	}
	s.clientsMu.Unlock()

	// Send the current state immediately.
	if data, err := json.Marshal(s.payload()); err == nil {
		conn.WriteMessage(websocket.TextMessage, data)
	}

	// Block until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.clientsMu.Lock()
	delete(s.clients, conn)
	if s.metrics != nil {
		s.metrics.WSClients.Set(float64(len(s.clients)))
	}
	s.clientsMu.Unlock()
}
