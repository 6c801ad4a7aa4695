package peg

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Production is a named grammar rule with exactly one body element.
type Production struct {
	Name string
	Body *Element

	id int
}

// Grammar maps production names to their definitions. Productions receive
// small integer ids at definition time so the engine's memo table never
// hashes names on the hot path. A grammar is immutable once handed to a
// parser.
type Grammar struct {
	prods map[string]*Production
	names []string // definition order
}

// NewGrammar returns an empty grammar.
func NewGrammar() *Grammar {
	return &Grammar{prods: make(map[string]*Production)}
}

// Define adds a production. The body is validated structurally: a missing
// child, an empty child list or an unset reference name is a construction
// error, reported here rather than at parse time.
func (g *Grammar) Define(name string, body *Element) error {
	if name == "" {
		return fmt.Errorf("define: empty production name")
	}
	if _, ok := g.prods[name]; ok {
		return fmt.Errorf("define %s: production already defined", name)
	}
	if err := validateElement(body); err != nil {
		return fmt.Errorf("define %s: %w", name, err)
	}
	g.prods[name] = &Production{Name: name, Body: body, id: len(g.names)}
	g.names = append(g.names, name)
	return nil
}

// MustDefine is Define for statically known productions; it panics on a
// construction error.
func (g *Grammar) MustDefine(name string, body *Element) {
	if err := g.Define(name, body); err != nil {
		panic(err)
	}
}

// Get returns the named production, or nil.
func (g *Grammar) Get(name string) *Production {
	return g.prods[name]
}

// Has reports whether the grammar defines name.
func (g *Grammar) Has(name string) bool {
	_, ok := g.prods[name]
	return ok
}

// Names returns the production names in definition order.
func (g *Grammar) Names() []string {
	return append([]string(nil), g.names...)
}

// Len returns the number of productions.
func (g *Grammar) Len() int {
	return len(g.names)
}

// Validate checks that every reference in every production body names a
// defined production.
func (g *Grammar) Validate() error {
	names := maps.Keys(g.prods)
	slices.Sort(names)
	for _, name := range names {
		if err := g.checkRefs(g.prods[name].Body); err != nil {
			return fmt.Errorf("production %s: %w", name, err)
		}
	}
	return nil
}

func (g *Grammar) checkRefs(e *Element) error {
	if e.Kind == KindReference && !g.Has(e.Name) {
		return fmt.Errorf("reference to undefined production %q", e.Name)
	}
	for _, c := range e.Children {
		if err := g.checkRefs(c); err != nil {
			return err
		}
	}
	return nil
}

func validateElement(e *Element) error {
	if e == nil {
		return fmt.Errorf("missing element")
	}
	switch e.Kind {
	case KindLiteral:
		if e.Lit == nil {
			return fmt.Errorf("literal value must be a string or *regexp.Regexp")
		}
	case KindSequence, KindChoice:
		if len(e.Children) == 0 {
			return fmt.Errorf("empty child list")
		}
	case KindRepetition:
		if len(e.Children) != 1 {
			return fmt.Errorf("repetition needs exactly one child")
		}
		if e.Min < 0 || (e.Max != Unbounded && e.Max < e.Min) {
			return fmt.Errorf("repetition bounds %d..%d out of order", e.Min, e.Max)
		}
	case KindPositive, KindNegative:
		if len(e.Children) != 1 {
			return fmt.Errorf("predicate needs exactly one child")
		}
	case KindReference:
		if e.Name == "" {
			return fmt.Errorf("reference with unset name")
		}
	case KindEOF:
	default:
		return fmt.Errorf("unknown element kind %d", e.Kind)
	}
	for _, c := range e.Children {
		if err := validateElement(c); err != nil {
			return err
		}
	}
	return nil
}
