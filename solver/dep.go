package solver

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// DepTag is an opaque, caller-supplied integer identifying one external
// dependency (spec.md §6: "dep is an opaque integer handle the embedder
// assigns to each asserted constraint"). The solver never interprets a
// DepTag's value; it only joins and later linearizes sets of them for
// UnsatCore.
type DepTag int64

// depNode is one node of the content-addressed join tree: either a leaf
// wrapping a single DepTag, or the join of two other nodes. Nodes are
// interned by hash in DepManager so that Join(a, b) called twice with
// equal (a, b) returns the identical *depNode, making depNode pointer
// equality a valid (if conservative) short-circuit for "same dependency
// set" — the join-tree structure spec.md §2 names for DepManager.
type depNode struct {
	hash  uint64
	leaf  bool
	tag   DepTag
	left  *depNode
	right *depNode
}

// DepManager interns the join-tree nodes backing every clause's dependency
// set, hashing with xxhash (github.com/cespare/xxhash/v2, already present
// indirect in the pack's operator-lifecycle-manager go.mod) rather than a
// hand-rolled or stdlib hash, per SPEC_FULL.md §6.1.
type DepManager struct {
	cache map[uint64]*depNode
}

// NewDepManager returns an empty DepManager.
func NewDepManager() *DepManager {
	return &DepManager{cache: make(map[uint64]*depNode)}
}

func leafHash(tag DepTag) uint64 {
	var buf [9]byte
	buf[0] = 0 // leaf tag byte, distinguishes from join-hash input space
	binary.LittleEndian.PutUint64(buf[1:], uint64(tag))
	return xxhash.Sum64(buf[:])
}

func joinHash(a, b uint64) uint64 {
	var buf [17]byte
	buf[0] = 1 // join tag byte
	binary.LittleEndian.PutUint64(buf[1:9], a)
	binary.LittleEndian.PutUint64(buf[9:], b)
	return xxhash.Sum64(buf[:])
}

// Leaf returns the interned node for a single dependency tag.
func (m *DepManager) Leaf(tag DepTag) *depNode {
	h := leafHash(tag)
	if n, ok := m.cache[h]; ok {
		return n
	}
	n := &depNode{hash: h, leaf: true, tag: tag}
	m.cache[h] = n
	return n
}

// Join returns the interned node representing the union of a and b's
// dependency sets. Join is commutative (nodes are hashed in a canonical,
// hash-sorted order) and idempotent on identical nodes.
func (m *DepManager) Join(a, b *depNode) *depNode {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a == b {
		return a
	}
	if a.hash > b.hash {
		a, b = b, a
	}
	h := joinHash(a.hash, b.hash)
	if n, ok := m.cache[h]; ok {
		return n
	}
	n := &depNode{hash: h, left: a, right: b}
	m.cache[h] = n
	return n
}

// Linearize returns the distinct dependency tags reachable from n, in a
// stable depth-first order. This is the "unsat core" in its most direct
// form: the set of every external constraint the final conflict depended
// on.
func Linearize(n *depNode) []DepTag {
	if n == nil {
		return nil
	}
	seen := make(map[uint64]bool)
	var out []DepTag
	var walk func(*depNode)
	walk = func(cur *depNode) {
		if cur == nil || seen[cur.hash] {
			return
		}
		seen[cur.hash] = true
		if cur.leaf {
			out = append(out, cur.tag)
			return
		}
		walk(cur.left)
		walk(cur.right)
	}
	walk(n)
	return out
}
