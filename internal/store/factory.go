package store

import (
	"fmt"

	"github.com/sfs-platform/feedback-api/pkg/config"
)

// Open builds the Store selected by STORE_DRIVER.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverFile:
		return NewFile(cfg.Store.Dir)
	case config.StoreDriverRedis:
		return NewRedis(cfg.Redis)
	case config.StoreDriverPostgres:
		return NewPostgres(cfg.Database)
	case config.StoreDriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
