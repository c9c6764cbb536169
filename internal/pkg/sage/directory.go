package sage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
)

var ErrDirectoryNotLoaded = errors.New("sage directory not loaded")

type directoryLoader interface {
	FetchPolicies(ctx context.Context) ([]leave.Policy, error)
	FetchEmployees(ctx context.Context) ([]leave.Employee, error)
}

// Directory caches Sage policies and employees by ID. Entries are replaced as
// a whole on every load.
type Directory struct {
	loader directoryLoader
	ttl    time.Duration

	mu        sync.RWMutex
	policies  map[int64]leave.Policy
	employees map[int64]leave.Employee
	loadedAt  time.Time

	// serialises loads so concurrent refreshes hit Sage once
	loadMu sync.Mutex
}

// NewDirectory creates an empty directory. A ttl of zero disables expiry.
func NewDirectory(loader directoryLoader, ttl time.Duration) *Directory {
	return &Directory{
		loader:    loader,
		ttl:       ttl,
		policies:  map[int64]leave.Policy{},
		employees: map[int64]leave.Employee{},
	}
}

// Load fetches policies and employees and swaps them in.
func (d *Directory) Load(ctx context.Context) error {
	d.loadMu.Lock()
	defer d.loadMu.Unlock()
	return d.load(ctx)
}

func (d *Directory) load(ctx context.Context) error {
	policies, err := d.loader.FetchPolicies(ctx)
	if err != nil {
		return err
	}
	employees, err := d.loader.FetchEmployees(ctx)
	if err != nil {
		return err
	}

	pm := make(map[int64]leave.Policy, len(policies))
	for _, p := range policies {
		pm[p.ID] = p
	}
	em := make(map[int64]leave.Employee, len(employees))
	for _, e := range employees {
		em[e.ID] = e
	}

	d.mu.Lock()
	d.policies = pm
	d.employees = em
	d.loadedAt = time.Now()
	d.mu.Unlock()

	slog.Info("Sage directory loaded", "policies", len(pm), "employees", len(em))
	return nil
}

// Reload forces a load regardless of age.
func (d *Directory) Reload(ctx context.Context) error {
	return d.Load(ctx)
}

// Refresh loads the directory when it was never loaded or is older than the ttl.
// A failed refresh keeps the previous entries and only errors when nothing was
// ever loaded.
func (d *Directory) Refresh(ctx context.Context) error {
	if !d.stale() {
		return nil
	}

	d.loadMu.Lock()
	defer d.loadMu.Unlock()
	if !d.stale() {
		return nil
	}

	if err := d.load(ctx); err != nil {
		if d.LoadedAt().IsZero() {
			return fmt.Errorf("%w: %v", ErrDirectoryNotLoaded, err)
		}
		return err
	}
	return nil
}

func (d *Directory) stale() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.loadedAt.IsZero() {
		return true
	}
	return d.ttl > 0 && time.Since(d.loadedAt) > d.ttl
}

func (d *Directory) LoadedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadedAt
}

func (d *Directory) Policy(id int64) (leave.Policy, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.policies[id]
	return p, ok
}

func (d *Directory) Employee(id int64) (leave.Employee, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.employees[id]
	return e, ok
}

// Stats returns the number of cached policies and employees.
func (d *Directory) Stats() (policies, employees int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.policies), len(d.employees)
}
