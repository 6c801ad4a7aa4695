package peg

import (
	"fmt"
	"sort"
	"strings"
)

// Span is a half-open [Start, End) range of source offsets.
type Span struct {
	Start int
	End   int
}

// Len returns the number of source bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Node is one node of the tree rebuilt from the memo table. Nodes link to
// their parent, first child and next sibling; a node's span is contained in
// its parent's span, and sibling spans are disjoint and ordered.
type Node struct {
	Name    string
	Span    Span
	Parent  *Node
	Child   *Node
	Sibling *Node

	info *astInfo
}

// astInfo is shared by every node of one tree: the source it covers and the
// spans matched by ignored productions, for the stripped text view.
type astInfo struct {
	source  string
	ignored []Span
}

// ASTOptions controls tree construction. Productions named in Ignore are
// omitted from the tree entirely; they do not appear as empty placeholders.
type ASTOptions struct {
	Ignore []string `mapstructure:"ignore"`
}

// AST rebuilds the parse tree from the memo table of the last parse. The
// root is the outermost non-ignored entry recorded at or after the parse
// start; after a successful parse whose goal is not ignored, that is the
// span matched by the goal. nil is returned when no parse has run or no
// such entry exists.
func (p *Parser) AST(opts ASTOptions) *Node {
	if p.memo == nil {
		return nil
	}
	ignored := make(map[int]bool, len(opts.Ignore))
	for _, name := range opts.Ignore {
		if prod := p.grammar.Get(name); prod != nil {
			ignored[prod.id] = true
		}
	}
	b := &astBuilder{
		p:       p,
		ignored: ignored,
		cursor:  make(map[int]int),
		info:    &astInfo{source: p.source},
	}
	// Leading ignorable content shifts the goal's record past the parse
	// start, so scan forward for the first surviving entry.
	var root *Node
	for i := p.start; i >= 0 && i <= len(p.source); i++ {
		if name, end, ok := b.next(i, len(p.source)); ok {
			root = &Node{Name: name, Span: Span{Start: i, End: end}, info: b.info}
			break
		}
	}
	if root == nil {
		return nil
	}
	b.build(root)
	sort.Slice(b.info.ignored, func(i, j int) bool {
		return b.info.ignored[i].Start < b.info.ignored[j].Start
	})
	return root
}

type astBuilder struct {
	p       *Parser
	ignored map[int]bool
	cursor  map[int]int
	info    *astInfo
}

// next consumes memo entries at index until one fits inside [index, hi).
// The found list is read back to front, outermost first. Ignored entries
// are recorded for the stripped text view and dropped; entries reaching
// past hi belong to abandoned alternatives and are dropped too. Calls for
// any index arrive in decreasing-hi order, so a dropped entry could never
// have been used by a later caller.
func (b *astBuilder) next(index, hi int) (string, int, bool) {
	pos := b.p.memo[index]
	if pos == nil {
		return "", 0, false
	}
	n := len(pos.found)
	for b.cursor[index] < n {
		k := b.cursor[index]
		b.cursor[index]++
		prod := pos.found[n-1-k]
		end := pos.goals[prod.id]
		if b.ignored[prod.id] {
			if end > index {
				b.info.ignored = append(b.info.ignored, Span{Start: index, End: end})
			}
			continue
		}
		if end > hi {
			continue
		}
		return prod.Name, end, true
	}
	return "", 0, false
}

// build attaches children to parent for every goal that matched strictly
// inside the parent's span, then recurses into each child's own span.
func (b *astBuilder) build(parent *Node) {
	var last *Node
	i := parent.Span.Start
	for i < parent.Span.End {
		name, end, ok := b.next(i, parent.Span.End)
		if !ok {
			i++
			continue
		}
		node := &Node{Name: name, Span: Span{Start: i, End: end}, Parent: parent, info: b.info}
		if last == nil {
			parent.Child = node
		} else {
			last.Sibling = node
		}
		last = node
		b.build(node)
		if end > i {
			i = end
		}
		// A zero-width child leaves i in place; the cursor has advanced,
		// so the loop still makes progress.
	}
}

// Children returns the node's children, optionally restricted to the given
// production names.
func (n *Node) Children(names ...string) []*Node {
	var result []*Node
	for c := n.Child; c != nil; c = c.Sibling {
		if len(names) == 0 || nameIn(c.Name, names) {
			result = append(result, c)
		}
	}
	return result
}

// Count returns the number of children, optionally restricted by name.
func (n *Node) Count(names ...string) int {
	count := 0
	for c := n.Child; c != nil; c = c.Sibling {
		if len(names) == 0 || nameIn(c.Name, names) {
			count++
		}
	}
	return count
}

// Find returns the first child with the given production name, or nil.
// The search is shallow: only the node's own child level is inspected.
func (n *Node) Find(name string) *Node {
	for c := n.Child; c != nil; c = c.Sibling {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// LastChild returns the node's last child, or nil.
func (n *Node) LastChild() *Node {
	var last *Node
	for c := n.Child; c != nil; c = c.Sibling {
		last = c
	}
	return last
}

// Depth returns the number of links between the node and the root.
func (n *Node) Depth() int {
	depth := 0
	for a := n.Parent; a != nil; a = a.Parent {
		depth++
	}
	return depth
}

// Len returns the length of the node's source range.
func (n *Node) Len() int { return n.Span.Len() }

// Text returns the source text the node covers.
func (n *Node) Text() string {
	return n.info.source[n.Span.Start:n.Span.End]
}

// StrippedText returns the node's text with every span matched by an
// ignored production removed.
func (n *Node) StrippedText() string {
	var b strings.Builder
	i := n.Span.Start
	for _, span := range n.info.ignored {
		if span.End <= i || span.Start >= n.Span.End {
			continue
		}
		if span.Start > i {
			b.WriteString(n.info.source[i:span.Start])
		}
		if span.End > i {
			i = span.End
		}
	}
	if i < n.Span.End {
		b.WriteString(n.info.source[i:n.Span.End])
	}
	return b.String()
}

// String renders the subtree as an indented dump.
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		b.WriteString("  ")
	}
	fmt.Fprintf(b, "%s [%d-%d) %q\n", n.Name, n.Span.Start, n.Span.End, n.Text())
	for c := n.Child; c != nil; c = c.Sibling {
		c.dump(b, indent+1)
	}
}

func nameIn(name string, names []string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
