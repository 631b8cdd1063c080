package relationaldb

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// OpenFunc opens a Repository for a validated Config.
type OpenFunc func(ctx context.Context, config *Config) (Repository, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]OpenFunc)
)

// Register makes a driver available to Open. Driver packages call it from
// init.
func Register(driver string, open OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[driver] = open
}

// Drivers lists the registered driver names.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	out := make([]string, 0, len(drivers))
	for name := range drivers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Open validates config and opens it with the registered driver.
func Open(ctx context.Context, config *Config) (Repository, error) {
	config = config.Clone()
	if err := config.Validate(); err != nil {
		return nil, NewConfigurationError("open", "invalid configuration", err)
	}
	driversMu.RLock()
	open, ok := drivers[config.Driver]
	driversMu.RUnlock()
	if !ok {
		return nil, NewConfigurationError("open", fmt.Sprintf("driver %q not registered", config.Driver), ErrInvalidDriver)
	}
	return open(ctx, config)
}
