package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/redlight/internal/game"
)

// GameServer is the interface clients use to communicate with the hub.
// Each client runs its own session; the hub only tracks who is connected
// and how their runs ended.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportOutcome(clientID int, outcome game.Outcome, elapsed time.Duration)
	GetSnapshot() *Snapshot
}

// Server is the hub shared by every connection.
type Server struct {
	stats        *Stats
	snapshot     atomic.Pointer[Snapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	registerCh   chan *ClientHandle
	unregisterCh chan int
	outcomeCh    chan ClientOutcome
	logger       *log.Logger
	mu           sync.RWMutex
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the hub.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client (shutdown, records)
}

// ClientOutcome is one finished run reported by a client.
type ClientOutcome struct {
	ClientID int
	Outcome  game.Outcome
	Elapsed  time.Duration
}

// ClientEvent represents an event sent from the hub to a client.
type ClientEvent struct {
	Type     ClientEventType
	Username string        // For record events
	Elapsed  time.Duration // For record events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventNewRecord ClientEventType = iota
	EventServerShutdown
)

// NewServer creates a new hub. A nil logger uses the default logger.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		stats:        NewStats(),
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		outcomeCh:    make(chan ClientOutcome, 64),
		logger:       logger,
	}

	// Create initial empty snapshot
	s.snapshot.Store(&Snapshot{})
	return s
}

// Run processes registrations and reports. Blocks until the context is
// cancelled.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case handle := <-s.registerCh:
			s.register(handle)
		case clientID := <-s.unregisterCh:
			s.unregister(clientID)
		case co := <-s.outcomeCh:
			s.record(co)
		}
		s.createSnapshot()
	}
}

// Shutdown gracefully shuts down the hub by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the hub.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// ReportOutcome records how a client's run ended.
func (s *Server) ReportOutcome(clientID int, outcome game.Outcome, elapsed time.Duration) {
	select {
	case s.outcomeCh <- ClientOutcome{ClientID: clientID, Outcome: outcome, Elapsed: elapsed}:
	default:
		s.logger.Warn("outcome dropped", "client", clientID, "outcome", outcome)
	}
}

// GetSnapshot returns the current hub snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

func (s *Server) register(handle *ClientHandle) {
	s.mu.Lock()
	s.clients[handle.ID] = handle
	s.mu.Unlock()
	s.logger.Debug("client registered", "client", handle.ID, "user", handle.Username)
}

func (s *Server) unregister(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, ok := s.clients[clientID]; ok {
		close(handle.EventsCh)
		delete(s.clients, clientID)
		s.logger.Debug("client unregistered", "client", clientID, "user", handle.Username)
	}
}

// record tallies an outcome and tells everyone when a win sets a new record.
func (s *Server) record(co ClientOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := ""
	if handle, ok := s.clients[co.ClientID]; ok {
		username = handle.Username
	}
	if !s.stats.Add(co.ClientID, username, co.Outcome, co.Elapsed) {
		return
	}

	s.logger.Info("new record", "user", username, "elapsed", co.Elapsed)
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventNewRecord, Username: username, Elapsed: co.Elapsed}:
		default:
		}
	}
}

// createSnapshot publishes an immutable copy of the hub state.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.snapshot.Store(s.stats.Snapshot(len(s.clients)))
}
