// Package peg provides a packrat parsing engine for parsing expression
// grammars: prioritized choice, greedy repetition, syntactic predicates and
// per-position memoization of every named match.
package peg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ElementKind discriminates the grammar element variants.
type ElementKind int

const (
	KindLiteral ElementKind = iota
	KindSequence
	KindChoice
	KindRepetition
	KindPositive
	KindNegative
	KindReference
	KindEOF
)

// Unbounded marks a repetition with no upper limit.
const Unbounded = -1

// Element is one node of a grammar definition. Exactly one variant is
// populated, selected by Kind: Lit for literals, Children for sequences,
// choices, repetitions and predicates, Name for references.
type Element struct {
	Kind     ElementKind
	Lit      *Literal
	Children []*Element
	Min, Max int
	Name     string
}

// Literal is a matchable terminal: either a plain string or a regular
// expression anchored to match only at the inspected position. The pattern
// is anchored once, at construction.
type Literal struct {
	Str     string
	Pattern *regexp.Regexp

	src string // original pattern text, for display
	key string // memoization key
}

func newStringLiteral(s string) *Literal {
	return &Literal{Str: s, key: "s:" + s}
}

func newPatternLiteral(re *regexp.Regexp) *Literal {
	re = anchor(re)
	return &Literal{Pattern: re, src: re.String(), key: "r:" + re.String()}
}

// anchor rewrites a pattern so it can only match at the beginning of the
// inspected slice. \A is a text anchor, not a line anchor, so multi-line
// input does not re-open match positions.
func anchor(re *regexp.Regexp) *regexp.Regexp {
	src := re.String()
	if strings.HasPrefix(src, `\A`) {
		return re
	}
	return regexp.MustCompile(`\A(?:` + src + `)`)
}

// matchAt reports the end index of a match starting at index, or NoMatch.
func (l *Literal) matchAt(source string, index int) int {
	if l.Pattern != nil {
		loc := l.Pattern.FindStringIndex(source[index:])
		if loc == nil {
			return NoMatch
		}
		return index + loc[1]
	}
	if strings.HasPrefix(source[index:], l.Str) {
		return index + len(l.Str)
	}
	return NoMatch
}

func (l *Literal) String() string {
	if l.Pattern != nil {
		return "/" + l.src + "/"
	}
	return strconv.Quote(l.Str)
}

// Seq matches each element in turn; a failing element fails the sequence.
func Seq(elems ...*Element) *Element {
	return &Element{Kind: KindSequence, Children: elems}
}

// Alt matches the first succeeding alternative. The choice is prioritized:
// once an alternative matches, the rest are never tried.
func Alt(elems ...*Element) *Element {
	return &Element{Kind: KindChoice, Children: elems}
}

// One is an alias for Alt.
func One(elems ...*Element) *Element { return Alt(elems...) }

// Repeat matches elem greedily between min and max times. Pass Unbounded
// for max to allow any number of matches.
func Repeat(elem *Element, min, max int) *Element {
	return &Element{Kind: KindRepetition, Children: []*Element{elem}, Min: min, Max: max}
}

// Many matches elem zero or more times.
func Many(elem *Element) *Element { return Repeat(elem, 0, Unbounded) }

// Some matches elem one or more times.
func Some(elem *Element) *Element { return Repeat(elem, 1, Unbounded) }

// Opt matches elem zero or one time.
func Opt(elem *Element) *Element { return Repeat(elem, 0, 1) }

// Lit builds a literal from a string, *regexp.Regexp or *Literal value.
// Several values sugar to a prioritized choice of literals. A value of any
// other type yields an element that fails grammar validation.
func Lit(values ...any) *Element {
	elems := make([]*Element, 0, len(values))
	for _, v := range values {
		elems = append(elems, &Element{Kind: KindLiteral, Lit: toLiteral(v)})
	}
	if len(elems) == 1 {
		return elems[0]
	}
	return Alt(elems...)
}

// toLiteral converts a literal value to its internal form. It returns nil
// for unsupported kinds; callers decide whether that is a validation error
// or an internal one.
func toLiteral(value any) *Literal {
	switch v := value.(type) {
	case string:
		return newStringLiteral(v)
	case *regexp.Regexp:
		return newPatternLiteral(v)
	case *Literal:
		return v
	}
	return nil
}

// Pat builds an anchored regular-expression literal from pattern source.
func Pat(src string) *Element {
	return Lit(regexp.MustCompile(src))
}

// CI builds a case-insensitive literal for s, compiled as an anchored
// pattern over the quoted text.
func CI(s string) *Element {
	return Pat("(?i)" + regexp.QuoteMeta(s))
}

// Pos succeeds when elem matches, consuming no input.
func Pos(elem *Element) *Element {
	return &Element{Kind: KindPositive, Children: []*Element{elem}}
}

// Neg succeeds when elem does not match, consuming no input.
func Neg(elem *Element) *Element {
	return &Element{Kind: KindNegative, Children: []*Element{elem}}
}

// Ref matches the named production through the engine, so the attempt is
// memoized. It never inlines the production body.
func Ref(name string) *Element {
	return &Element{Kind: KindReference, Name: name}
}

// EOF succeeds only at or past the end of the source.
func EOF() *Element {
	return &Element{Kind: KindEOF}
}

// String renders the element in an ABNF-flavored notation.
func (e *Element) String() string {
	switch e.Kind {
	case KindLiteral:
		if e.Lit == nil {
			return "<invalid literal>"
		}
		return e.Lit.String()
	case KindSequence:
		return "(" + joinChildren(e.Children, " ") + ")"
	case KindChoice:
		return "(" + joinChildren(e.Children, " / ") + ")"
	case KindRepetition:
		child := e.Children[0].String()
		switch {
		case e.Min == 0 && e.Max == 1:
			return "[" + child + "]"
		case e.Min == 0 && e.Max == Unbounded:
			return "*" + child
		case e.Min == 1 && e.Max == Unbounded:
			return "1*" + child
		case e.Max == Unbounded:
			return fmt.Sprintf("%d*%s", e.Min, child)
		}
		return fmt.Sprintf("%d*%d%s", e.Min, e.Max, child)
	case KindPositive:
		return "&" + e.Children[0].String()
	case KindNegative:
		return "!" + e.Children[0].String()
	case KindReference:
		return e.Name
	case KindEOF:
		return "<eof>"
	}
	return "<unknown>"
}

func joinChildren(elems []*Element, sep string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}
