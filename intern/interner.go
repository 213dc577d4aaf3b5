package intern

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Handle is an opaque reference to an interned string.
// Handle 0 is reserved for the empty string and is always resident.
type Handle uint32

// Empty is the handle of the empty string.
const Empty Handle = 0

// HandleSize is the in-memory width of a Handle in bytes.
const HandleSize = 4

// Interner deduplicates strings into reference counted handles.
// Thread-safe.
type Interner struct {
	index    map[string]Handle
	slots    []slot
	freeList []Handle
	mu       sync.RWMutex
}

type slot struct {
	value string
	refs  uint32
	live  bool
}

var (
	defaultInterner *Interner
	defaultOnce     sync.Once
)

// Default returns the process-wide interner. It is created on first use and
// never torn down.
func Default() *Interner {
	defaultOnce.Do(func() {
		defaultInterner = New()
	})
	return defaultInterner
}

// New creates an isolated interner.
func New() *Interner {
	return &Interner{
		index:    make(map[string]Handle, 64),
		slots:    make([]slot, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Acquire returns the handle for s, adding a reference.
// The empty string maps to Empty without touching the table.
func (in *Interner) Acquire(s string) Handle {
	if s == "" {
		return Empty
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if h, ok := in.index[s]; ok {
		in.slots[h-1].refs++
		return h
	}

	owned := strings.Clone(s)
	e := slot{value: owned, refs: 1, live: true}

	var h Handle
	if len(in.freeList) > 0 {
		h = in.freeList[len(in.freeList)-1]
		in.freeList = in.freeList[:len(in.freeList)-1]
		in.slots[h-1] = e
		Logger().Debug("intern: reuse slot", zap.Uint32("handle", uint32(h)))
	} else {
		in.slots = append(in.slots, e)
		h = Handle(len(in.slots))
	}
	in.index[owned] = h
	return h
}

// AddRef adds a reference to h and returns it. Empty and unknown handles are
// returned unchanged.
func (in *Interner) AddRef(h Handle) Handle {
	if h == Empty {
		return Empty
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if e := in.slot(h); e != nil {
		e.refs++
	}
	return h
}

// RemoveRef drops a reference to h. The slot is reclaimed when its count
// reaches zero.
func (in *Interner) RemoveRef(h Handle) {
	if h == Empty {
		return
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	e := in.slot(h)
	if e == nil {
		return
	}

	e.refs--
	if e.refs > 0 {
		return
	}

	delete(in.index, e.value)
	*e = slot{}
	in.freeList = append(in.freeList, h)
	Logger().Debug("intern: reclaim slot", zap.Uint32("handle", uint32(h)))
}

// Get returns the content of h, or "" for Empty and unknown handles.
func (in *Interner) Get(h Handle) string {
	if h == Empty {
		return ""
	}

	in.mu.RLock()
	defer in.mu.RUnlock()

	if e := in.slot(h); e != nil {
		return e.value
	}
	return ""
}

// Lookup returns the handle of s if it is currently interned.
// No reference is added.
func (in *Interner) Lookup(s string) (Handle, bool) {
	if s == "" {
		return Empty, true
	}

	in.mu.RLock()
	defer in.mu.RUnlock()

	h, ok := in.index[s]
	return h, ok
}

// Refs returns the reference count of h. Empty reports 0.
func (in *Interner) Refs(h Handle) uint32 {
	if h == Empty {
		return 0
	}

	in.mu.RLock()
	defer in.mu.RUnlock()

	if e := in.slot(h); e != nil {
		return e.refs
	}
	return 0
}

// Len returns the number of distinct live strings, excluding the empty string.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.index)
}

// slot requires in.mu to be held.
func (in *Interner) slot(h Handle) *slot {
	idx := int(h) - 1
	if idx < 0 || idx >= len(in.slots) {
		return nil
	}
	e := &in.slots[idx]
	if !e.live {
		return nil
	}
	return e
}
