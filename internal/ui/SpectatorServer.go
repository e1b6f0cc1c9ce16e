package ui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Mshel/flipper/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

const spectatorShutdownTimeout = 30 * time.Second

// connectionLimiter caps concurrent spectator sessions per remote IP.
type connectionLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	limit  int
}

func newConnectionLimiter(limit int) *connectionLimiter {
	return &connectionLimiter{counts: make(map[string]int), limit: limit}
}

// acquire takes a slot for ip and reports the count it would have reached.
func (l *connectionLimiter) acquire(ip string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts[ip] >= l.limit {
		return l.counts[ip] + 1, false
	}
	l.counts[ip]++
	return l.counts[ip], true
}

func (l *connectionLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[ip]--
	if l.counts[ip] <= 0 {
		delete(l.counts, ip)
	}
}

func (l *connectionLimiter) count(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[ip]
}

func remoteIP(s ssh.Session) string {
	if addr, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return s.RemoteAddr().String()
}

func (l *connectionLimiter) Middleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := remoteIP(s)

		count, ok := l.acquire(ip)
		if !ok {
			log.Warn("Spectator denied: IP limit exceeded", "ip", ip, "attempted_count", count, "limit", l.limit)
			fmt.Fprintf(s, "Too many active connections from your IP (%d/%d). Please try again later.\r\n", count, l.limit)
			s.Close()
			return
		}

		log.Info("Spectator connected", "ip", ip, "current_count", count, "limit", l.limit)
		next(s)
		l.release(ip)
		log.Info("Spectator left", "ip", ip, "count_after", l.count(ip))
	}
}

// NewSpectatorServer serves the game view over SSH on cfg.SpectateAddr.
func NewSpectatorServer(cfg config.Config, hub *Hub, history ResultHistory) (*ssh.Server, error) {
	limiter := newConnectionLimiter(cfg.MaxSpectatorsPerIP)

	server, err := wish.NewServer(
		wish.WithAddress(cfg.SpectateAddr),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(spectatorHandler(hub, history, NewSessionInfo(cfg, history != nil))),
			logging.Middleware(),
			activeterm.Middleware(),
			limiter.Middleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create spectator server: %w", err)
	}
	return server, nil
}

func spectatorHandler(hub *Hub, history ResultHistory, info SessionInfo) bubbletea.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := s.Pty()

		frames, cancel := hub.Subscribe()
		go func() {
			<-s.Context().Done()
			cancel()
		}()

		model := NewControllerModel(frames, history, info, pty.Window.Width, pty.Window.Height)
		return model, []tea.ProgramOption{tea.WithAltScreen()}
	}
}

// ServeSpectators runs server until ctx is cancelled, then shuts it down.
func ServeSpectators(ctx context.Context, server *ssh.Server) error {
	errCh := make(chan error, 1)
	log.Info("Starting spectator server", "addr", server.Addr)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("spectator server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Stopping spectator server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), spectatorShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("could not stop spectator server: %w", err)
	}
	return nil
}
