package app

import (
	"io"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/memo/internal/clipboard"
	"github.com/dokzlo13/memo/internal/config"
	"github.com/dokzlo13/memo/internal/memo"
	"github.com/dokzlo13/memo/internal/storage"
)

// Copier puts text on the clipboard.
type Copier interface {
	Copy(text string) error
}

// App owns one invocation: the loaded store, its backend and the outputs
// command results are written to.
type App struct {
	cfg     *config.Config
	backend memo.Backend
	store   *memo.Store
	clock   memo.Clock
	clip    Copier
	out     io.Writer
	errOut  io.Writer
}

// Option customizes an App.
type Option func(*App)

// WithClock overrides the wall clock.
func WithClock(c memo.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithCopier overrides the system clipboard.
func WithCopier(c Copier) Option {
	return func(a *App) { a.clip = c }
}

// WithBackend overrides the backend selected by configuration.
func WithBackend(b memo.Backend) Option {
	return func(a *App) { a.backend = b }
}

// New opens the configured store and sweeps expired entries. The sweep is
// persisted even when nothing expired.
func New(cfg *config.Config, out, errOut io.Writer, opts ...Option) (*App, error) {
	a := &App{
		cfg:    cfg,
		clock:  memo.SystemClock{},
		clip:   clipboard.New(cfg.Clipboard.Command),
		out:    out,
		errOut: errOut,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.backend == nil {
		backend, err := storage.New(cfg.Store)
		if err != nil {
			return nil, err
		}
		a.backend = backend
	}

	store, err := memo.Open(a.backend)
	if err != nil {
		a.backend.Close()
		return nil, err
	}
	a.store = store

	removed, err := store.SweepExpired(a.clock.Now())
	if err != nil {
		a.backend.Close()
		return nil, err
	}
	if removed > 0 {
		log.Info().Int("count", removed).Msg("Expired entries removed")
	}

	return a, nil
}

// Store returns the loaded store.
func (a *App) Store() *memo.Store {
	return a.store
}

// Close releases the backend.
func (a *App) Close() error {
	return a.backend.Close()
}
