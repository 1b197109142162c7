// Package canon gives composite values a stable identity: a canonical text
// form, a content hash over it, and a hash-based ordering of candidates.
package canon

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// #region canonicalize

// Canonicalize returns a byte form of v that does not depend on map iteration
// or struct field order. Values JSON cannot encode fall back to %#v.
func Canonicalize(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return []byte(fmt.Sprintf("%#v", v))
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return raw
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return raw
	}
	return out
}

// Text is the lowercase canonical form, used for keyword scans.
func Text(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	return strings.ToLower(string(Canonicalize(v)))
}

// #endregion canonicalize

// #region hash

// Hash is the hex SHA-256 of the canonical form of v.
func Hash(v any) string {
	sum := sha256.Sum256(Canonicalize(v))
	return hex.EncodeToString(sum[:])
}

// #endregion hash

// #region order

// Order returns the indices of values sorted by content hash, with the
// original index as the final tie-break.
func Order(values []any) []int {
	type keyed struct {
		idx  int
		hash string
	}
	keys := make([]keyed, len(values))
	for i, v := range values {
		keys[i] = keyed{idx: i, hash: Hash(v)}
	}
	sort.SliceStable(keys, func(a, b int) bool {
		if keys[a].hash != keys[b].hash {
			return keys[a].hash < keys[b].hash
		}
		return keys[a].idx < keys[b].idx
	})
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = k.idx
	}
	return out
}

// #endregion order
