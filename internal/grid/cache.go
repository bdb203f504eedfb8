package grid

import (
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/groupcache/lru"

	"github.com/username/month-grid/pkg/dateutil"
)

// DefaultCacheEntries bounds a Cache created with a non-positive size.
const DefaultCacheEntries = 256

// Cache memoizes Compute on a structural hash of its Options.
// Cached grids are shared between callers and must be treated as read only.
// All methods are safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	lru    *lru.Cache
	hits   uint64
	misses uint64
}

// NewCache creates a cache holding at most maxEntries grids.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &Cache{lru: lru.New(maxEntries)}
}

// Compute returns the grid for opts, computing it on a miss. Incomplete
// grids are returned but not stored.
// The DisabledDay predicate cannot be hashed, so predicateKey must change
// whenever the predicate's answers may change.
func (c *Cache) Compute(opts Options, predicateKey string) *Grid {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	key := Key(opts, predicateKey)

	c.mu.Lock()
	if v, ok := c.lru.Get(key); ok {
		c.hits++
		c.mu.Unlock()
		return v.(*Grid)
	}
	c.misses++
	c.mu.Unlock()

	g := Compute(opts)
	if g.Incomplete {
		return g
	}

	c.mu.Lock()
	c.lru.Add(key, g)
	c.mu.Unlock()
	return g
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached grids.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops every cached grid, for when a predicate's data changed
// under an unchanged predicateKey.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.lru.Clear()
	c.mu.Unlock()
}

// Key hashes every input of Compute that affects its output. Month and
// Now only contribute their month and calendar day.
func Key(opts Options, predicateKey string) uint64 {
	h := keyHasher{d: xxhash.New()}

	h.time(dateutil.StartOfMonth(opts.Month))
	h.int(int(opts.WeekStart))
	h.int(opts.FirstWeekContainsDate)
	h.time(opts.MinDate)
	h.time(opts.MaxDate)
	h.int(len(opts.DisabledDates))
	for _, d := range opts.DisabledDates {
		h.time(d)
	}
	h.bool(opts.DisabledDay != nil)
	h.bool(opts.DisabledDayErr != nil)
	h.str(predicateKey)

	h.str(string(opts.DisplayMode))
	h.time(opts.Date)
	h.int(len(opts.Ranges))
	for _, r := range opts.Ranges {
		h.time(r.StartDate)
		h.time(r.EndDate)
		h.str(r.Key)
		h.str(r.Color)
		h.bool(r.Disabled)
	}
	h.int(opts.FocusedRange[0])
	h.int(opts.FocusedRange[1])
	h.bool(opts.Drag.Active)
	h.time(opts.Drag.Range.StartDate)
	h.time(opts.Drag.Range.EndDate)
	h.bool(opts.Drag.DisablePreview)
	h.bool(opts.DragRangeOnly)
	h.bool(opts.Preview != nil)
	if opts.Preview != nil {
		h.time(opts.Preview.StartDate)
		h.time(opts.Preview.EndDate)
	}
	h.bool(opts.ShowPreview)
	h.bool(opts.FixedHeight)
	h.bool(opts.ShowWeekNumbers)
	h.str(opts.Now.Format("2006-01-02"))

	return h.d.Sum64()
}

type keyHasher struct {
	d *xxhash.Digest
}

func (h keyHasher) str(s string) {
	h.d.WriteString(strconv.Itoa(len(s)))
	h.d.WriteString(":")
	h.d.WriteString(s)
}

func (h keyHasher) int(v int) {
	h.d.WriteString(strconv.Itoa(v))
	h.d.WriteString(";")
}

func (h keyHasher) bool(v bool) {
	if v {
		h.d.WriteString("1")
	} else {
		h.d.WriteString("0")
	}
}

func (h keyHasher) time(t time.Time) {
	if t.IsZero() {
		h.str("")
		return
	}
	h.str(t.Format(time.RFC3339Nano) + "@" + t.Location().String())
}
