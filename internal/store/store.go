package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"car-rental/internal/models"
	"car-rental/internal/util"

	"go.uber.org/zap"
)

var (
	// ErrStoreCorrupt is returned when the persisted document cannot be decoded
	ErrStoreCorrupt = errors.New("inventory store is corrupt")

	// ErrStorePersistFailed is returned when the document could not be written
	ErrStorePersistFailed = errors.New("failed to persist inventory store")
)

// Store persists the inventory as a single JSON document.
//
// All mutations go through Update, which holds the write lock for the whole
// load-mutate-save sequence. The lock is process-wide only: running several
// instances against the same file is not supported.
type Store struct {
	path   string
	mu     sync.RWMutex
	seed   func() *models.Inventory
	logger *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithSeed overrides the catalog written by InitializeIfAbsent
func WithSeed(seed func() *models.Inventory) Option {
	return func(s *Store) {
		s.seed = seed
	}
}

// NewStore creates a store backed by the file at path
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		seed:   DefaultCatalog,
		logger: util.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// InitializeIfAbsent writes the seed catalog when no document exists yet
func (s *Store) InitializeIfAbsent(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat inventory store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorePersistFailed, err)
	}

	inv := s.seed()
	if err := s.save(ctx, inv); err != nil {
		return err
	}

	s.logger.Info("Inventory store initialized",
		zap.String("path", s.path),
		zap.Int("cars", len(inv.Cars)))
	return nil
}

// Load reads the full document under the read lock
func (s *Store) Load(ctx context.Context) (*models.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx)
}

// Save overwrites the full document under the write lock
func (s *Store) Save(ctx context.Context, inv *models.Inventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, inv)
}

// View loads a fresh snapshot under the read lock and passes it to fn
func (s *Store) View(ctx context.Context, fn func(inv *models.Inventory) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(inv)
}

// Update runs fn inside the critical section. The document is loaded fresh,
// passed to fn, and written back only if fn returns nil.
func (s *Store) Update(ctx context.Context, fn func(inv *models.Inventory) error) error {
	ctx, span := util.StartSpan(ctx, "Store.Update")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.load(ctx)
	if err != nil {
		return err
	}

	if err := fn(inv); err != nil {
		return err
	}

	return s.save(ctx, inv)
}

func (s *Store) load(ctx context.Context) (*models.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: document missing at %s", ErrStoreCorrupt, s.path)
		}
		return nil, fmt.Errorf("failed to read inventory store: %w", err)
	}

	var inv models.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	if inv.Cars == nil {
		inv.Cars = []models.Car{}
	}
	if inv.Bookings == nil {
		inv.Bookings = []models.Booking{}
	}

	return &inv, nil
}

// save writes to a temp file in the same directory and renames it over the
// target so readers never see a partially written document.
func (s *Store) save(ctx context.Context, inv *models.Inventory) (err error) {
	start := time.Now()
	defer func() {
		util.StoreWriteLatency.Observe(time.Since(start).Seconds())
		if err != nil {
			util.StoreWriteFailuresTotal.Inc()
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := inv.Validate(); err != nil {
		return fmt.Errorf("%w: refusing to write invalid document: %v", ErrStorePersistFailed, err)
	}

	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorePersistFailed, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorePersistFailed, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrStorePersistFailed, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrStorePersistFailed, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorePersistFailed, err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrStorePersistFailed, err)
	}

	return nil
}
