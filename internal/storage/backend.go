package storage

import (
	"fmt"

	"github.com/dokzlo13/memo/internal/config"
	"github.com/dokzlo13/memo/internal/memo"
)

// New returns the backend selected by cfg.
func New(cfg config.StoreConfig) (memo.Backend, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		return NewJSONFile(cfg.Path), nil
	case config.BackendSQLite:
		return NewSQLite(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
