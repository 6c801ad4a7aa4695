package peg

import (
	"fmt"

	"github.com/tliron/commonlog"
)

// NoMatch is the failure sentinel for every matching operation. Matching
// entry points short-circuit when handed NoMatch as an index, so callers
// can chain matches without checking intermediate results.
const NoMatch = -1

var log = commonlog.GetLogger("abnc.peg")

// Parser is a packrat engine over an immutable source string. It owns the
// memoization table for the duration of one parse; the table is reset by
// the next Parse call and may be read afterwards to build an AST.
//
// A parser is single-threaded: no concurrent access is permitted, and
// mutating the source or the ignore set during a live parse is undefined
// behavior by contract.
type Parser struct {
	// Debug emits a trace line for every successful named or literal
	// match. Tracing never affects match semantics or the memo.
	Debug bool

	grammar *Grammar
	source  string
	start   int
	memo    []*position
	ignore  []string

	inIgnore bool
	err      error
	maxIndex int
	bodyRuns int
}

// NewParser returns a parser for the grammar.
func NewParser(g *Grammar) *Parser {
	return &Parser{grammar: g}
}

// SetIgnore installs the ignore set: productions (typically whitespace and
// comments) consumed opportunistically before every named goal or literal.
// They are attempted in the given order.
func (p *Parser) SetIgnore(names ...string) {
	p.ignore = names
}

// Source returns the source text of the current parse.
func (p *Parser) Source() string {
	return p.source
}

// Parse resets the memo table and matches goal against source from index 0.
// It returns the final end index, or NoMatch if the goal did not match.
// The error is non-nil only for fatal grammar misuse: left recursion or a
// reference to an undefined production.
func (p *Parser) Parse(goal, source string) (int, error) {
	return p.ParseAt(goal, source, 0)
}

// ParseAt is Parse starting from the given index.
func (p *Parser) ParseAt(goal, source string, start int) (int, error) {
	p.source = source
	p.start = start
	p.memo = make([]*position, len(source)+1)
	p.err = nil
	p.maxIndex = 0
	p.bodyRuns = 0
	end := p.Match(goal, start)
	if p.err != nil {
		return NoMatch, p.err
	}
	return end, nil
}

// Match matches the named production at index. It is the only way a
// production body is ever entered: the attempt is memoized per (index,
// goal), and a memo hit returns without re-running the body.
func (p *Parser) Match(goal string, index int) int {
	if index == NoMatch || p.err != nil {
		return NoMatch
	}
	if index < 0 || index > len(p.source) {
		return NoMatch
	}
	prod := p.grammar.Get(goal)
	if prod == nil {
		p.fail(&UnknownProductionError{Name: goal})
		return NoMatch
	}
	index = p.skipIgnored(index)
	pos := p.at(index)
	if end, ok := pos.goals[prod.id]; ok {
		if end == memoInUse {
			p.fail(&LeftRecursionError{Goal: goal})
			return NoMatch
		}
		return end
	}
	pos.goals[prod.id] = memoInUse
	p.bodyRuns++
	end := p.matchElement(prod.Body, index)
	pos.goals[prod.id] = end
	if end != NoMatch {
		pos.found = append(pos.found, prod)
		if p.Debug {
			log.Debugf("%s [%d,%d) %q", goal, index, end, p.source[index:end])
		}
	}
	return end
}

// Allow matches goal at index but never fails: a miss returns index.
func (p *Parser) Allow(goal string, index int) int {
	if end := p.Match(goal, index); end != NoMatch {
		return end
	}
	return index
}

// Check is positive lookahead: index when goal matches, NoMatch otherwise.
// The engine's position is unchanged either way.
func (p *Parser) Check(goal string, index int) int {
	if p.Match(goal, index) == NoMatch {
		return NoMatch
	}
	return index
}

// Disallow is negative lookahead: index when goal does not match, NoMatch
// otherwise.
func (p *Parser) Disallow(goal string, index int) int {
	if index == NoMatch {
		return NoMatch
	}
	if p.Match(goal, index) == NoMatch {
		return index
	}
	return NoMatch
}

// Literal matches a literal value at index. Accepted values are a string,
// an anchored *regexp.Regexp or a *Literal; anything else is an internal
// programming error. Outcomes are memoized by the literal value.
func (p *Parser) Literal(value any, index int) int {
	if index == NoMatch || p.err != nil {
		return NoMatch
	}
	if index < 0 || index > len(p.source) {
		return NoMatch
	}
	lit := toLiteral(value)
	if lit == nil {
		p.fail(fmt.Errorf("unknown literal kind %T", value))
		return NoMatch
	}
	index = p.skipIgnored(index)
	pos := p.at(index)
	if end, ok := pos.lits[lit.key]; ok {
		return end
	}
	end := lit.matchAt(p.source, index)
	pos.lits[lit.key] = end
	if end != NoMatch && p.Debug {
		log.Debugf("literal %s [%d,%d)", lit, index, end)
	}
	return end
}

// AtEOF succeeds only at or past the end of the source, returning index.
func (p *Parser) AtEOF(index int) int {
	if index == NoMatch {
		return NoMatch
	}
	if index >= len(p.source) {
		return index
	}
	return NoMatch
}

// Err returns the fatal error latched during the current parse, if any.
func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// skipIgnored consumes as much ignorable content as possible at index by
// attempting each ignore production in order until none advances. The
// inIgnore flag keeps the policy from applying while an ignore production
// itself is being matched.
func (p *Parser) skipIgnored(index int) int {
	if p.inIgnore || len(p.ignore) == 0 {
		return index
	}
	p.inIgnore = true
	defer func() { p.inIgnore = false }()
	for {
		start := index
		for _, name := range p.ignore {
			if end := p.Match(name, index); end != NoMatch && end > index {
				index = end
			}
		}
		if index == start {
			return index
		}
	}
}

// matchElement evaluates one grammar element at index. The exhaustive
// switch over element kinds is the whole interpreter.
func (p *Parser) matchElement(e *Element, index int) int {
	if index == NoMatch || p.err != nil {
		return NoMatch
	}
	switch e.Kind {
	case KindLiteral:
		return p.Literal(e.Lit, index)

	case KindSequence:
		for _, c := range e.Children {
			index = p.matchElement(c, index)
			if index == NoMatch {
				return NoMatch
			}
		}
		return index

	case KindChoice:
		for _, c := range e.Children {
			if end := p.matchElement(c, index); end != NoMatch {
				return end
			}
		}
		return NoMatch

	case KindRepetition:
		count, cur := 0, index
		for e.Max == Unbounded || count < e.Max {
			end := p.matchElement(e.Children[0], cur)
			if end == NoMatch {
				break
			}
			count++
			if end == cur {
				// Zero-width success: stop, or this would loop forever.
				break
			}
			cur = end
		}
		if count < e.Min {
			return NoMatch
		}
		return cur

	case KindPositive:
		if p.matchElement(e.Children[0], index) == NoMatch {
			return NoMatch
		}
		return index

	case KindNegative:
		if p.matchElement(e.Children[0], index) == NoMatch {
			return index
		}
		return NoMatch

	case KindReference:
		return p.Match(e.Name, index)

	case KindEOF:
		return p.AtEOF(index)
	}
	p.fail(fmt.Errorf("unknown element kind %d", e.Kind))
	return NoMatch
}
