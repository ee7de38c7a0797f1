package compare

import "sort"

// Listing is the ordered result of scanning one directory: at most one entry
// per case-insensitive name, iterated in ascending case-insensitive order.
type Listing struct {
	entries []Entry
	index   map[string]int
}

// NewListing builds a Listing from entries. When two names fold to the same
// key, the first in (folded, raw) order is kept.
func NewListing(entries []Entry) *Listing {
	keyed := make([]keyedEntry, len(entries))
	for i, entry := range entries {
		keyed[i] = keyedEntry{key: entry.Key(), entry: entry}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		return keyed[i].less(keyed[j])
	})

	listing := &Listing{
		entries: make([]Entry, 0, len(keyed)),
		index:   make(map[string]int, len(keyed)),
	}

	for _, k := range keyed {
		if _, dup := listing.index[k.key]; dup {
			continue
		}

		listing.index[k.key] = len(listing.entries)
		listing.entries = append(listing.entries, k.entry)
	}

	return listing
}

// Entries returns the entries in ascending case-insensitive order.
func (l *Listing) Entries() []Entry {
	if l == nil {
		return nil
	}

	return append([]Entry(nil), l.entries...)
}

// Get looks up an entry by name, ignoring case.
func (l *Listing) Get(name string) (Entry, bool) {
	if l == nil {
		return Entry{}, false
	}

	i, ok := l.index[foldKey(name)]
	if !ok {
		return Entry{}, false
	}

	return l.entries[i], true
}

// Len returns the number of entries.
func (l *Listing) Len() int {
	if l == nil {
		return 0
	}

	return len(l.entries)
}

// Names returns the stored (unfolded) names in listing order.
func (l *Listing) Names() []string {
	names := make([]string, 0, l.Len())
	for _, entry := range l.Entries() {
		names = append(names, entry.Name)
	}

	return names
}
