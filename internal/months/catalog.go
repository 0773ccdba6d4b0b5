package months

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/laaraari2/theatre-management-system-sub001/internal/models"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/helpers"
)

var (
	// ErrCatalogCorrupt means the persisted custom catalog was unusable and
	// the built-in names are served instead. It is a warning, never fatal.
	ErrCatalogCorrupt = errors.New("custom month catalog is corrupt")

	// ErrInvalidEntry is returned by Update for entries failing validation
	ErrInvalidEntry = errors.New("invalid month entry")
)

// Resolver is the read side of the catalog used by parsing, formatting
// and grouping
type Resolver interface {
	ActiveMonths() []string
	NameForCalendarIndex(index int) (string, bool)
	CalendarIndexForName(name string) (int, bool)
}

// Catalog serves month names, preferring a valid custom catalog over
// CalendarOrder. Reads always see the latest successful Update or Reset.
type Catalog struct {
	store     Store
	log       logrus.FieldLogger
	validator *helpers.CustomValidator
	ids       helpers.IDGenerator
	fallbacks prometheus.Counter
	now       func() time.Time

	// writeMu serializes Load, Update and Reset so the store and the
	// in-memory snapshot always hold the same catalog
	writeMu sync.Mutex

	mu       sync.RWMutex
	entries  []models.CustomMonthEntry
	snapshot snapshot
}

type snapshot struct {
	names   []string
	index   map[string]int
	problem error
}

var builtin = newSnapshot(CalendarOrder[:], nil)

// Option configures a Catalog
type Option func(*Catalog)

// WithFallbackCounter counts every time a corrupt catalog is replaced by the built-in one
func WithFallbackCounter(c prometheus.Counter) Option {
	return func(cat *Catalog) { cat.fallbacks = c }
}

// WithIDGenerator overrides the generator used for default entry IDs
func WithIDGenerator(g helpers.IDGenerator) Option {
	return func(cat *Catalog) { cat.ids = g }
}

// WithClock overrides the creation timestamp source
func WithClock(now func() time.Time) Option {
	return func(cat *Catalog) { cat.now = now }
}

// NewCatalog creates a catalog persisted through store. A nil store keeps
// the catalog in memory only. The built-in names are served until Load.
func NewCatalog(store Store, log logrus.FieldLogger, opts ...Option) *Catalog {
	c := &Catalog{
		store:     store,
		log:       log,
		validator: helpers.NewCustomValidator(),
		ids:       helpers.NewIDGenerator(),
		now:       time.Now,
		snapshot:  builtin,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.ErrorLevel)
		c.log = l
	}
	return c
}

// FromEntries builds an in-memory catalog, mainly for injecting catalogs in tests
func FromEntries(entries []models.CustomMonthEntry, opts ...Option) *Catalog {
	c := NewCatalog(nil, nil, opts...)
	c.apply(entries)
	return c
}

// Load reads the persisted catalog. Absent or malformed data is not an
// error: the built-in names are served and Health reports the problem.
func (c *Catalog) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.load(ctx)
}

func (c *Catalog) load(ctx context.Context) error {
	raw, err := c.store.Get(ctx, StoreKey)
	if err != nil {
		return fmt.Errorf("failed to load month catalog: %w", err)
	}
	if len(raw) == 0 {
		c.apply(nil)
		return nil
	}

	var entries []models.CustomMonthEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		problem := fmt.Errorf("%w: %v", ErrCatalogCorrupt, err)
		c.mu.Lock()
		c.entries = nil
		c.snapshot = newSnapshot(CalendarOrder[:], problem)
		c.mu.Unlock()
		c.reportFallback(problem)
		return nil
	}

	c.apply(entries)
	return nil
}

// EnsureDefaults loads the catalog and seeds the default one on first run
func (c *Catalog) EnsureDefaults(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	raw, err := c.store.Get(ctx, StoreKey)
	if err != nil {
		return fmt.Errorf("failed to load month catalog: %w", err)
	}
	if len(raw) == 0 {
		_, err := c.resetToDefault(ctx)
		return err
	}
	return c.load(ctx)
}

// Update validates and persists a full replacement of the custom catalog
func (c *Catalog) Update(ctx context.Context, entries []models.CustomMonthEntry) error {
	for i := range entries {
		if err := c.validator.Validate(entries[i]); err != nil {
			return fmt.Errorf("%w at position %d: %w", ErrInvalidEntry, i, err)
		}
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.persist(ctx, entries); err != nil {
		return err
	}
	c.apply(entries)
	return nil
}

// ResetToDefault replaces the custom catalog with the twelve built-in
// months, ordered 1..12 and all active
func (c *Catalog) ResetToDefault(ctx context.Context) ([]models.CustomMonthEntry, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.resetToDefault(ctx)
}

func (c *Catalog) resetToDefault(ctx context.Context) ([]models.CustomMonthEntry, error) {
	now := c.now()
	entries := make([]models.CustomMonthEntry, len(CalendarOrder))
	for i, name := range CalendarOrder {
		entries[i] = models.CustomMonthEntry{
			ID:        c.ids.GenerateUUID(),
			Name:      name,
			Order:     i + 1,
			IsActive:  true,
			CreatedAt: now,
		}
	}

	if err := c.persist(ctx, entries); err != nil {
		return nil, err
	}
	c.apply(entries)
	return entries, nil
}

func (c *Catalog) persist(ctx context.Context, entries []models.CustomMonthEntry) error {
	if c.store == nil {
		return nil
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode month catalog: %w", err)
	}
	if err := c.store.Set(ctx, StoreKey, raw); err != nil {
		return fmt.Errorf("failed to save month catalog: %w", err)
	}
	return nil
}

func (c *Catalog) apply(entries []models.CustomMonthEntry) {
	names, problem := resolve(entries)

	c.mu.Lock()
	c.entries = append([]models.CustomMonthEntry(nil), entries...)
	c.snapshot = newSnapshot(names, problem)
	c.mu.Unlock()

	if problem != nil {
		c.reportFallback(problem)
	}
}

func (c *Catalog) reportFallback(problem error) {
	c.log.WithField("reason", problem.Error()).Warn("Custom month catalog rejected, using built-in months")
	if c.fallbacks != nil {
		c.fallbacks.Inc()
	}
}

// resolve turns custom entries into twelve calendar-ordered names.
// Anything but exactly twelve active, uniquely named, uniquely ordered
// entries falls back to CalendarOrder as a whole.
func resolve(entries []models.CustomMonthEntry) ([]string, error) {
	if len(entries) == 0 {
		return CalendarOrder[:], nil
	}

	active := make([]models.CustomMonthEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsActive {
			active = append(active, e)
		}
	}
	if len(active) != len(CalendarOrder) {
		return CalendarOrder[:], fmt.Errorf("%w: %d active months", ErrCatalogCorrupt, len(active))
	}

	sort.SliceStable(active, func(i, j int) bool { return active[i].Order < active[j].Order })

	names := make([]string, len(active))
	seen := make(map[string]bool, len(active))
	for i, e := range active {
		if e.Order != i+1 {
			return CalendarOrder[:], fmt.Errorf("%w: duplicate or out of range order %d", ErrCatalogCorrupt, e.Order)
		}
		name := norm.NFC.String(e.Name)
		if name == "" || seen[name] {
			return CalendarOrder[:], fmt.Errorf("%w: empty or duplicate name %q", ErrCatalogCorrupt, e.Name)
		}
		seen[name] = true
		names[i] = e.Name
	}

	return names, nil
}

func newSnapshot(names []string, problem error) snapshot {
	s := snapshot{
		names:   append([]string(nil), names...),
		index:   make(map[string]int, len(names)),
		problem: problem,
	}
	for i, n := range names {
		s.index[norm.NFC.String(n)] = i
	}
	return s
}

func (c *Catalog) current() snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// ActiveMonths returns the twelve month names in calendar order
func (c *Catalog) ActiveMonths() []string {
	return append([]string(nil), c.current().names...)
}

// Entries returns a copy of the stored custom entries (possibly empty)
func (c *Catalog) Entries() []models.CustomMonthEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.CustomMonthEntry(nil), c.entries...)
}

// Health returns a wrapped ErrCatalogCorrupt when the built-in names are
// served because the custom catalog was rejected
func (c *Catalog) Health() error {
	return c.current().problem
}

// NameForCalendarIndex returns the active name of a calendar month (0-11)
func (c *Catalog) NameForCalendarIndex(index int) (string, bool) {
	return frozen{c.current()}.NameForCalendarIndex(index)
}

// CalendarIndexForName resolves a month name by exact match against the
// active names, then against CalendarOrder for data written before the
// custom catalog existed
func (c *Catalog) CalendarIndexForName(name string) (int, bool) {
	return frozen{c.current()}.CalendarIndexForName(name)
}

// Snapshot returns a read-only view of the current names that later
// updates do not affect
func (c *Catalog) Snapshot() Resolver {
	return frozen{c.current()}
}

type frozen struct {
	s snapshot
}

func (f frozen) ActiveMonths() []string {
	return append([]string(nil), f.s.names...)
}

func (f frozen) NameForCalendarIndex(index int) (string, bool) {
	if index >= 0 && index < len(f.s.names) {
		return f.s.names[index], true
	}
	return "", false
}

func (f frozen) CalendarIndexForName(name string) (int, bool) {
	key := norm.NFC.String(name)
	if i, ok := f.s.index[key]; ok {
		return i, true
	}
	if i, ok := builtin.index[key]; ok {
		return i, true
	}
	return -1, false
}
