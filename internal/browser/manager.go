package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"golang.org/x/sync/semaphore"

	"github.com/IshaanNene/NewsPulse/internal/config"
)

// Source hands out exclusive browser sessions.
type Source interface {
	Acquire(ctx context.Context) (*Session, error)
}

// Session is one browser page owned by exactly one caller until Release.
type Session struct {
	Page Page

	release  func() error
	once     sync.Once
	err      error
	released bool
	mu       sync.Mutex
}

// NewSession wraps page with a release hook. The hook runs at most once.
func NewSession(page Page, release func() error) *Session {
	return &Session{Page: page, release: release}
}

// Release frees the page and its browser. Calling it more than once is safe.
func (s *Session) Release() error {
	s.once.Do(func() {
		if s.release != nil {
			s.err = s.release()
		}
		s.mu.Lock()
		s.released = true
		s.mu.Unlock()
	})
	return s.err
}

// Released reports whether Release has run.
func (s *Session) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Use acquires a session from src, runs fn with its page and releases the
// session on every exit path. A panic in fn is returned as an error.
func Use(ctx context.Context, src Source, fn func(Page) error) (err error) {
	sess, err := src.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire browser: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser session panic: %v", r)
		}
		if rerr := sess.Release(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("release browser: %w", rerr))
		}
	}()

	return fn(sess.Page)
}

// Manager launches one headless Chromium per session.
type Manager struct {
	cfg    config.BrowserConfig
	sem    *semaphore.Weighted
	active *atomic.Int32
	logger *slog.Logger
}

// NewManager creates a session manager capped at cfg.MaxSessions live browsers.
func NewManager(cfg config.BrowserConfig, logger *slog.Logger) *Manager {
	n := cfg.MaxSessions
	if n < 1 {
		n = 1
	}
	return &Manager{
		cfg:    cfg,
		sem:    semaphore.NewWeighted(int64(n)),
		logger: logger.With("component", "browser"),
	}
}

// SetActiveGauge makes the manager count live sessions in g.
func (m *Manager) SetActiveGauge(g *atomic.Int32) {
	m.active = g
}

// Acquire launches a fresh browser and opens a page on it.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	l := m.launcher(ctx)
	controlURL, err := l.Launch()
	if err != nil {
		m.sem.Release(1)
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		m.sem.Release(1)
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := m.newPage(b)
	if err != nil {
		_ = b.Close()
		l.Kill()
		m.sem.Release(1)
		return nil, err
	}

	if m.active != nil {
		m.active.Add(1)
	}
	m.logger.Debug("browser session acquired", "stealth", m.cfg.Stealth, "headless", m.cfg.Headless)

	release := func() error {
		defer m.sem.Release(1)
		if m.active != nil {
			defer m.active.Add(-1)
		}
		var errs []error
		if err := page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
		l.Kill()
		l.Cleanup()
		m.logger.Debug("browser session released")
		return errors.Join(errs...)
	}

	return NewSession(WrapPage(page, m.cfg.PageLoadTimeout), release), nil
}

// launcher builds the Chromium command line.
func (m *Manager) launcher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(m.cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-extensions").
		Set("log-level", "3")

	if m.cfg.UserAgent != "" {
		l = l.Set("user-agent", m.cfg.UserAgent)
	}
	if m.cfg.WindowSize != "" {
		l = l.Set("window-size", m.cfg.WindowSize)
	}
	if m.cfg.Bin != "" {
		l = l.Bin(m.cfg.Bin)
	}
	return l
}

func (m *Manager) newPage(b *rod.Browser) (*rod.Page, error) {
	var (
		page *rod.Page
		err  error
	)
	if m.cfg.Stealth {
		page, err = stealth.Page(b)
		if err != nil {
			return nil, fmt.Errorf("stealth page: %w", err)
		}
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: "about:blank"})
		if err != nil {
			return nil, fmt.Errorf("open page: %w", err)
		}
	}

	if m.cfg.UserAgent != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: m.cfg.UserAgent})
		if err != nil {
			m.logger.Warn("failed to set user agent", "error", err)
		}
	}
	return page, nil
}

var _ Source = (*Manager)(nil)
