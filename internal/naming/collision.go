package naming

import (
	"fmt"
	"path"
	"strings"
	"sync"
)

// CollisionResolver tracks output uris claimed by source files and resolves
// duplicates by appending "-dupN" suffixes. Two entries that reference the
// same source share one output. All methods are goroutine-safe.
//
// Outputs are compared by key, not by spelling: the key function maps a uri
// to the file it names, so "tex.astc" and "./tex.astc" collide.
type CollisionResolver struct {
	mu       sync.Mutex
	key      func(uri string) string
	owners   map[string]string // output key → source that owns it
	counters map[string]int    // requested output key → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver. key maps an output
// uri to the identity of the file it names; nil compares uris verbatim.
func NewCollisionResolver(key func(uri string) string) *CollisionResolver {
	if key == nil {
		key = func(uri string) string { return uri }
	}
	return &CollisionResolver{
		key:      key,
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Claim marks output as owned by source without collision handling. Used
// for entries that already point at an existing .astc file.
func (cr *CollisionResolver) Claim(source, output string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	k := cr.key(output)
	if _, exists := cr.owners[k]; !exists {
		cr.owners[k] = source
	}
}

// Resolve returns the final output uri for source. If requested is unclaimed
// (or already owned by source) it is returned as-is and reused is true when
// source had claimed it before. Otherwise a "-dupN" variant of requested is
// generated; the suffix keeps the caller's spelling of the directory.
func (cr *CollisionResolver) Resolve(source, requested string) (output string, reused bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	rk := cr.key(requested)
	owner, exists := cr.owners[rk]
	if !exists {
		cr.owners[rk] = source
		return requested, false
	}
	if owner == source {
		return requested, true
	}

	dir, base := path.Split(requested)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	counter := cr.counters[rk]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := dir + fmt.Sprintf("%s-dup%d%s", stem, counter, ext)
		ck := cr.key(candidate)
		cOwner, cExists := cr.owners[ck]
		if !cExists {
			cr.counters[rk] = counter + 1
			cr.owners[ck] = source
			return candidate, false
		}
		if cOwner == source {
			return candidate, true
		}
		counter++
	}
}
