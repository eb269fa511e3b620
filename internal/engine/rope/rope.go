// Package rope implements an immutable rope over UTF-8 text with a
// newline metric, backing the rope storage variant of the buffer.
//
// Nodes are persistent: Insert and Delete return new ropes sharing
// unchanged subtrees, which keeps splices O(log n) while line lookups
// pay an O(log n) metric walk.
package rope

import "strings"

// maxLeaf bounds leaf payload size. Adjacent small leaves are merged
// on concat to keep the tree shallow under many small edits.
const maxLeaf = 512

// rebuildDepth is the tree depth past which a rope is flattened and
// rebuilt bottom-up.
const rebuildDepth = 64

// Rope is an immutable text rope. The zero value is an empty rope.
type Rope struct {
	root *node
}

type node struct {
	// Leaf nodes hold data and have nil children.
	left, right *node
	data        string

	bytes    int
	newlines int
	height   int
}

func leaf(s string) *node {
	return &node{data: s, bytes: len(s), newlines: strings.Count(s, "\n"), height: 1}
}

func (n *node) isLeaf() bool { return n.left == nil }

func join(a, b *node) *node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.isLeaf() && b.isLeaf() && a.bytes+b.bytes <= maxLeaf {
		return leaf(a.data + b.data)
	}
	h := a.height
	if b.height > h {
		h = b.height
	}
	return &node{
		left:     a,
		right:    b,
		bytes:    a.bytes + b.bytes,
		newlines: a.newlines + b.newlines,
		height:   h + 1,
	}
}

// New returns an empty rope.
func New() Rope {
	return Rope{}
}

// FromString builds a rope from s.
func FromString(s string) Rope {
	if s == "" {
		return Rope{}
	}
	leaves := make([]*node, 0, len(s)/maxLeaf+1)
	for len(s) > maxLeaf {
		leaves = append(leaves, leaf(s[:maxLeaf]))
		s = s[maxLeaf:]
	}
	leaves = append(leaves, leaf(s))
	return Rope{root: build(leaves)}
}

// build assembles a balanced tree from leaves, pairing bottom-up.
func build(leaves []*node) *node {
	for len(leaves) > 1 {
		next := make([]*node, 0, (len(leaves)+1)/2)
		for i := 0; i < len(leaves); i += 2 {
			if i+1 < len(leaves) {
				next = append(next, join(leaves[i], leaves[i+1]))
			} else {
				next = append(next, leaves[i])
			}
		}
		leaves = next
	}
	return leaves[0]
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.bytes
}

// NewlineCount returns the number of newline bytes.
func (r Rope) NewlineCount() int {
	if r.root == nil {
		return 0
	}
	return r.root.newlines
}

// LineCount returns the number of lines, counting the text after the
// final newline as a line even when empty.
func (r Rope) LineCount() int {
	return r.NewlineCount() + 1
}

// String materializes the full content.
func (r Rope) String() string {
	var b strings.Builder
	b.Grow(r.Len())
	appendNode(&b, r.root)
	return b.String()
}

func appendNode(b *strings.Builder, n *node) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		b.WriteString(n.data)
		return
	}
	appendNode(b, n.left)
	appendNode(b, n.right)
}

// Slice returns the text in [start, end). Bounds are clamped to the
// rope length.
func (r Rope) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	if start >= end {
		return ""
	}
	var b strings.Builder
	b.Grow(end - start)
	sliceNode(&b, r.root, start, end)
	return b.String()
}

func sliceNode(b *strings.Builder, n *node, start, end int) {
	if n == nil || start >= n.bytes || end <= 0 {
		return
	}
	if n.isLeaf() {
		lo, hi := start, end
		if lo < 0 {
			lo = 0
		}
		if hi > len(n.data) {
			hi = len(n.data)
		}
		b.WriteString(n.data[lo:hi])
		return
	}
	sliceNode(b, n.left, start, end)
	sliceNode(b, n.right, start-n.left.bytes, end-n.left.bytes)
}

// split divides n into two subtrees at byte offset off.
func split(n *node, off int) (*node, *node) {
	if n == nil {
		return nil, nil
	}
	if off <= 0 {
		return nil, n
	}
	if off >= n.bytes {
		return n, nil
	}
	if n.isLeaf() {
		return leaf(n.data[:off]), leaf(n.data[off:])
	}
	if off < n.left.bytes {
		ll, lr := split(n.left, off)
		return ll, join(lr, n.right)
	}
	rl, rr := split(n.right, off-n.left.bytes)
	return join(n.left, rl), rr
}

// Insert returns a rope with text spliced in at byte offset off.
// Offsets outside [0, Len()] are clamped.
func (r Rope) Insert(off int, text string) Rope {
	if text == "" {
		return r
	}
	l, rt := split(r.root, off)
	mid := FromString(text).root
	return Rope{root: rebalance(join(join(l, mid), rt))}
}

// Delete returns a rope with the bytes in [start, end) removed.
func (r Rope) Delete(start, end int) Rope {
	if start >= end {
		return r
	}
	l, rest := split(r.root, start)
	_, rt := split(rest, end-start)
	return Rope{root: rebalance(join(l, rt))}
}

// rebalance rebuilds degenerate trees. Persistent joins only ever add
// one level, so checking height against a fixed bound is enough.
func rebalance(n *node) *node {
	if n == nil || n.height <= rebuildDepth {
		return n
	}
	leaves := make([]*node, 0, n.bytes/maxLeaf+1)
	leaves = collect(n, leaves)
	return build(leaves)
}

func collect(n *node, leaves []*node) []*node {
	if n == nil {
		return leaves
	}
	if n.isLeaf() {
		return append(leaves, n)
	}
	leaves = collect(n.left, leaves)
	return collect(n.right, leaves)
}

// OffsetOfNewline returns the byte offset of the i-th newline
// (zero-based). The caller must pass i < NewlineCount().
func (r Rope) OffsetOfNewline(i int) int {
	return offsetOfNewline(r.root, i)
}

func offsetOfNewline(n *node, i int) int {
	if n.isLeaf() {
		off := 0
		for {
			idx := strings.IndexByte(n.data[off:], '\n')
			if i == 0 {
				return off + idx
			}
			i--
			off += idx + 1
		}
	}
	if i < n.left.newlines {
		return offsetOfNewline(n.left, i)
	}
	return n.left.bytes + offsetOfNewline(n.right, i-n.left.newlines)
}

// LineStart returns the byte offset where the given zero-based line
// begins.
func (r Rope) LineStart(line int) int {
	if line <= 0 || r.root == nil {
		return 0
	}
	if line > r.NewlineCount() {
		return r.Len()
	}
	return r.OffsetOfNewline(line-1) + 1
}

// LineEnd returns the byte offset where the given line ends, before
// its newline (or the rope end for the last line).
func (r Rope) LineEnd(line int) int {
	if r.root == nil {
		return 0
	}
	if line >= r.NewlineCount() {
		return r.Len()
	}
	return r.OffsetOfNewline(line)
}

// Line returns the text of the given line without its newline.
func (r Rope) Line(line int) string {
	return r.Slice(r.LineStart(line), r.LineEnd(line))
}
