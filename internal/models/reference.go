package models

import "strings"

// ReferenceEntry is one selectable announcement type or category.
type ReferenceEntry struct {
	Key         string `db:"key" json:"key"`
	DisplayName string `db:"display_name" json:"display_name"`
}

// ReferenceSet is a read-only lookup over reference entries. It answers both
// key→display and display→key queries. Display-name matching is exact via
// KeyFor and case-insensitive via Canonical; which of the two applies is the
// caller's business rule (types fold case, categories do not).
type ReferenceSet struct {
	entries []ReferenceEntry
	byKey   map[string]string
	byName  map[string]string
	byFold  map[string]ReferenceEntry
}

// NewReferenceSet builds the lookup maps once; the set is immutable after.
func NewReferenceSet(entries []ReferenceEntry) *ReferenceSet {
	set := &ReferenceSet{
		entries: append([]ReferenceEntry(nil), entries...),
		byKey:   make(map[string]string, len(entries)),
		byName:  make(map[string]string, len(entries)),
		byFold:  make(map[string]ReferenceEntry, len(entries)),
	}
	for _, e := range set.entries {
		set.byKey[e.Key] = e.DisplayName
		set.byName[e.DisplayName] = e.Key
		set.byFold[strings.ToLower(e.DisplayName)] = e
	}
	return set
}

// Entries returns a copy of the underlying entries in load order.
func (s *ReferenceSet) Entries() []ReferenceEntry {
	return append([]ReferenceEntry(nil), s.entries...)
}

// Len reports the number of entries.
func (s *ReferenceSet) Len() int {
	return len(s.entries)
}

// DisplayName resolves a key to its display name.
func (s *ReferenceSet) DisplayName(key string) (string, bool) {
	name, ok := s.byKey[key]
	return name, ok
}

// KeyFor resolves an exact display name to its key.
func (s *ReferenceSet) KeyFor(displayName string) (string, bool) {
	key, ok := s.byName[displayName]
	return key, ok
}

// HasKey reports whether the key belongs to the set.
func (s *ReferenceSet) HasKey(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Canonical matches a token case-insensitively and returns the entry with the
// reference set's original casing.
func (s *ReferenceSet) Canonical(token string) (ReferenceEntry, bool) {
	entry, ok := s.byFold[strings.ToLower(strings.TrimSpace(token))]
	return entry, ok
}

// ReferenceData bundles both lookup sets for a wizard session. Loaded once at
// session start and never refreshed mid-session.
type ReferenceData struct {
	Types      *ReferenceSet
	Categories *ReferenceSet
}

func splitTrimmed(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SplitTokens exposes comma-token splitting for callers outside the package.
func SplitTokens(joined string) []string {
	return splitTrimmed(joined)
}
