package aggregator

// Table is an append-only, lookup-by-key collection of statistics
// entries.
//
// Entries keep their insertion order, so output is deterministic for a
// fixed fold/merge sequence. Lookup goes through a key index instead of
// a linear scan; cardinality is bounded by device count times months,
// but records vastly outnumber entries.
//
// A Table is not safe for concurrent use. The engine gives each worker
// its own private table and merges them after the join, so no table is
// ever shared between running goroutines.
type Table struct {
	entries []*Entry
	index   map[Key]int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		index: make(map[Key]int),
	}
}

// LookupOrCreate returns the entry for key, creating it with sentinel
// channel slots when the key is seen for the first time.
func (t *Table) LookupOrCreate(key Key) *Entry {
	if i, ok := t.index[key]; ok {
		return t.entries[i]
	}

	e := newEntry(key)
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, e)
	return e
}

// Lookup returns the entry for key, or false when the key is absent.
func (t *Table) Lookup(key Key) (*Entry, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

// Merge folds every entry of other into this table: keys are unioned,
// sums and counts added, and bounds combined as max-of-maxes and
// min-of-mins. Entries new to this table keep other's relative order.
func (t *Table) Merge(other *Table) {
	for _, e := range other.entries {
		t.LookupOrCreate(e.Key).merge(e)
	}
}

// Entries returns the entries in insertion order.
//
// The slice is the table's backing store; callers must treat it as
// read-only.
func (t *Table) Entries() []*Entry {
	return t.entries
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
