// Package store implements ember's single-threaded, typed keyspace: String/Integer/List values, TTL
// tracked by a min-heap of sweep hints, and the multi-key batch operations the command set needs. The
// Store is never accessed from more than one goroutine at a time (see pkg/dispatch): it needs no
// internal synchronization, matching the single-owner discipline the wire protocol's dispatcher enforces.
package store

import (
	"strconv"
	"time"
)

// ValueKind distinguishes the three value shapes a key's entry can hold.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInteger
	KindList
)

// Value is a tagged variant: String([]byte), Integer(int64), or List([][]byte). Only the field matching
// Kind is meaningful.
type Value struct {
	Kind ValueKind
	Str  []byte
	Int  int64
	List [][]byte // head is List[0]; tail pushes and pops at either end are O(1) amortized, a head push copies the list.
}

type entry struct {
	value     Value
	expiresAt *time.Time // nil means no TTL.
}

// Store is the in-memory keyspace. The zero value is not usable; construct with New.
type Store struct {
	table map[string]*entry
	heap  expiryHeap
	now   func() time.Time
}

// New returns an empty Store using the wall clock.
func New() *Store {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Store {
	return &Store{table: make(map[string]*entry), now: now}
}

// live reports whether e represents a key that has not (yet, as far as the live table is concerned)
// expired. A stale heap entry does not affect this: expiry is read straight off the table.
func (s *Store) live(e *entry) bool {
	return e.expiresAt == nil || e.expiresAt.After(s.now())
}

// lookup returns the entry for key if it exists and has not expired.
func (s *Store) lookup(key string) (*entry, bool) {
	e, ok := s.table[key]
	if !ok || !s.live(e) {
		return nil, false
	}
	return e, true
}

func stringify(v Value) []byte {
	if v.Kind == KindInteger {
		return strconv.AppendInt(nil, v.Int, 10)
	}
	return v.Str
}

// Get returns the current String/Integer value for key. found is false for an absent or expired key.
// err is ErrWrongType if key holds a List.
func (s *Store) Get(key []byte) (value []byte, found bool, err error) {
	e, ok := s.lookup(string(key))
	if !ok {
		return nil, false, nil
	}
	if e.value.Kind == KindList {
		return nil, false, ErrWrongType
	}
	return stringify(e.value), true, nil
}

// Set overwrites any existing entry for key (of any kind) with a String value and clears any expiration.
func (s *Store) Set(key, value []byte) {
	s.table[string(key)] = &entry{value: Value{Kind: KindString, Str: value}}
}

// SetNX sets key to value iff it is currently absent or expired. Returns true iff the set happened.
func (s *Store) SetNX(key, value []byte) bool {
	if _, ok := s.lookup(string(key)); ok {
		return false
	}
	s.Set(key, value)
	return true
}

// GetSet returns the prior value (if any, and not a List) and installs the new one.
func (s *Store) GetSet(key, value []byte) (prev []byte, hasPrev bool, err error) {
	e, ok := s.lookup(string(key))
	if ok {
		if e.value.Kind == KindList {
			return nil, false, ErrWrongType
		}
		prev, hasPrev = stringify(e.value), true
	}
	s.Set(key, value)
	return prev, hasPrev, nil
}

// GetDel returns the prior value (if any, and not a List) and removes the key.
func (s *Store) GetDel(key []byte) (prev []byte, hasPrev bool, err error) {
	k := string(key)
	e, ok := s.lookup(k)
	if !ok {
		return nil, false, nil
	}
	if e.value.Kind == KindList {
		return nil, false, ErrWrongType
	}
	prev, hasPrev = stringify(e.value), true
	delete(s.table, k)
	return prev, hasPrev, nil
}

// MGet returns one slot per requested key: the stringified value, or nil if the key is missing,
// expired, or holds a List (batch reads never error; a wrong-type member simply reads as absent).
func (s *Store) MGet(keys [][]byte) [][]byte {
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if e, ok := s.lookup(string(k)); ok && e.value.Kind != KindList {
			out[i] = stringify(e.value)
		}
	}
	return out
}

// MSet assigns keys[i] = values[i] for every i; always succeeds.
func (s *Store) MSet(keys, values [][]byte) {
	for i, k := range keys {
		s.Set(k, values[i])
	}
}

// Del removes the given keys and returns the count that were present immediately before the call.
func (s *Store) Del(keys [][]byte) int {
	count := 0
	for _, k := range keys {
		key := string(k)
		if _, ok := s.lookup(key); ok {
			count++
		}
		delete(s.table, key)
	}
	return count
}

// Exists counts how many of the given keys are present, counting repeats with multiplicity.
func (s *Store) Exists(keys [][]byte) int {
	count := 0
	for _, k := range keys {
		if _, ok := s.lookup(string(k)); ok {
			count++
		}
	}
	return count
}

// IncrBy adds delta to key's integer value, creating it as Integer(delta) if absent. A String value
// that parses as a base-10 signed integer is coerced in place; one that doesn't yields ErrNotInteger.
// A List value always yields ErrWrongType.
func (s *Store) IncrBy(key []byte, delta int64) (int64, error) {
	k := string(key)
	e, ok := s.lookup(k)
	if !ok {
		e = &entry{value: Value{Kind: KindInteger, Int: delta}}
		s.table[k] = e
		return delta, nil
	}
	switch e.value.Kind {
	case KindInteger:
		e.value.Int += delta
		return e.value.Int, nil
	case KindString:
		n, err := strconv.ParseInt(string(e.value.Str), 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
		n += delta
		e.value = Value{Kind: KindInteger, Int: n}
		return n, nil
	default: // KindList
		return 0, ErrWrongType
	}
}

func (s *Store) listEntry(key []byte, createIfAbsent bool) (*entry, error) {
	k := string(key)
	e, ok := s.lookup(k)
	if !ok {
		if !createIfAbsent {
			return nil, nil
		}
		e = &entry{value: Value{Kind: KindList}}
		s.table[k] = e
		return e, nil
	}
	if e.value.Kind != KindList {
		return nil, ErrWrongType
	}
	return e, nil
}

// LPush prepends values to key's list one at a time, in argument order, so the list (head to tail)
// after LPUSH k v1 v2 v3 on an empty key reads [v3, v2, v1] — each push lands at the new head. Creates
// the list if key is absent. Returns the new length.
func (s *Store) LPush(key []byte, values [][]byte) (int, error) {
	e, err := s.listEntry(key, true)
	if err != nil {
		return 0, err
	}
	for _, v := range values {
		e.value.List = append([][]byte{v}, e.value.List...)
	}
	return len(e.value.List), nil
}

// RPush appends values to key's list in argument order, so RPUSH k v1 v2 v3 on an empty key yields
// [v1, v2, v3] head to tail. Creates the list if key is absent. Returns the new length.
func (s *Store) RPush(key []byte, values [][]byte) (int, error) {
	e, err := s.listEntry(key, true)
	if err != nil {
		return 0, err
	}
	e.value.List = append(e.value.List, values...)
	return len(e.value.List), nil
}

// LPop pops up to count values from the head. Returns (nil, false, nil) if the key is absent, the list
// is empty, or count is 0.
func (s *Store) LPop(key []byte, count int) ([][]byte, bool, error) {
	return s.listPop(key, count, true)
}

// RPop pops up to count values from the tail, returned in pop order (tail element first). Returns
// (nil, false, nil) if the key is absent, the list is empty, or count is 0.
func (s *Store) RPop(key []byte, count int) ([][]byte, bool, error) {
	return s.listPop(key, count, false)
}

func (s *Store) listPop(key []byte, count int, fromHead bool) ([][]byte, bool, error) {
	if count <= 0 {
		return nil, false, nil
	}
	e, err := s.listEntry(key, false)
	if err != nil {
		return nil, false, err
	}
	if e == nil || len(e.value.List) == 0 {
		return nil, false, nil
	}
	if count > len(e.value.List) {
		count = len(e.value.List)
	}
	var popped [][]byte
	if fromHead {
		popped = e.value.List[:count]
		e.value.List = e.value.List[count:]
	} else {
		// Tail pops come back in pop order: the tail element first, then its neighbor, and so on.
		n := len(e.value.List)
		popped = make([][]byte, count)
		for i := 0; i < count; i++ {
			popped[i] = e.value.List[n-1-i]
		}
		e.value.List = e.value.List[:n-count]
	}
	return popped, true, nil
}

// Expire sets key's expiration to now + ttlSeconds and returns 1, or returns 0 without effect if key is
// absent (including present-but-expired-and-unswept, which is treated as absent).
func (s *Store) Expire(key []byte, ttlSeconds int64) int {
	k := string(key)
	e, ok := s.lookup(k)
	if !ok {
		return 0
	}
	at := s.now().Add(time.Duration(ttlSeconds) * time.Second)
	e.expiresAt = &at
	heapPush(&s.heap, &expiryEntry{key: k, at: at})
	return 1
}

// TTL returns -2 if key is absent, -1 if present without an expiration, else the remaining whole
// seconds.
func (s *Store) TTL(key []byte) int64 {
	e, ok := s.lookup(string(key))
	if !ok {
		return -2
	}
	if e.expiresAt == nil {
		return -1
	}
	remaining := e.expiresAt.Sub(s.now())
	return int64(remaining / time.Second)
}

// SweepExpired drains the expiration heap of every entry whose scheduled instant has passed, then
// re-validates each against the live table (tolerating stale entries left by an overwriting Set or a
// replaced Expire) before deleting. Returns the keys actually removed.
func (s *Store) SweepExpired() []string {
	var removed []string
	now := s.now()
	for {
		top := s.heap.peek()
		if top == nil || top.at.After(now) {
			break
		}
		popped := heapPop(&s.heap)
		if e, ok := s.table[popped.key]; ok && e.expiresAt != nil && !e.expiresAt.After(now) {
			delete(s.table, popped.key)
			removed = append(removed, popped.key)
		}
	}
	return removed
}

// Flush discards every key, replacing the keyspace with a fresh empty one.
func (s *Store) Flush() {
	s.table = make(map[string]*entry)
	s.heap = nil
}
