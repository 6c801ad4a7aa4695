package abnf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cabo/abnc/peg"
)

// Compile parses src as ABNF and lowers every rule into a peg.Grammar.
// Rule names are normalized with NormalizeName. A parse that does not
// consume the whole source yields a *SourceError; unsupported repetition
// bounds yield a *RepetitionError.
func Compile(src string) (*peg.Grammar, error) {
	eng := peg.NewParser(bootstrap())
	eng.SetIgnore(ignoreSet...)

	end, err := eng.Parse("grammar", src)
	if err != nil {
		return nil, fmt.Errorf("abnf bootstrap: %w", err)
	}
	if end == peg.NoMatch {
		return nil, &SourceError{Index: eng.MaxIndex()}
	}

	tree := eng.AST(peg.ASTOptions{Ignore: ignoreSet})
	if tree == nil {
		return nil, &SourceError{Index: eng.MaxIndex()}
	}

	out := peg.NewGrammar()
	for _, prod := range tree.Children("prod") {
		name := NormalizeName(prod.Find("prodname").Text())
		body, err := lowerAlt(prod.Find("prodalt"))
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		if err := out.Define(name, body); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// lowerAlt lowers an alternation: a single term stays itself, several terms
// become a prioritized choice in source order.
func lowerAlt(alt *peg.Node) (*peg.Element, error) {
	terms := alt.Children("prodterm")
	elems := make([]*peg.Element, 0, len(terms))
	for _, term := range terms {
		e, err := lowerTerm(term)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if len(elems) == 1 {
		return elems[0], nil
	}
	return peg.Alt(elems...), nil
}

// lowerTerm lowers a concatenation of atoms.
func lowerTerm(term *peg.Node) (*peg.Element, error) {
	atoms := term.Children("prodatom")
	elems := make([]*peg.Element, 0, len(atoms))
	for _, atom := range atoms {
		e, err := lowerAtom(atom)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if len(elems) == 1 {
		return elems[0], nil
	}
	return peg.Seq(elems...), nil
}

// lowerAtom dispatches on the single named child a prodatom wraps. Plain
// literal matches ("%i", brackets, parentheses) leave no node of their
// own, so the child's production name identifies the variant.
func lowerAtom(atom *peg.Node) (*peg.Element, error) {
	child := atom.Child
	if child == nil {
		return nil, fmt.Errorf("empty atom at index %d", atom.Span.Start)
	}
	switch child.Name {
	case "numlit":
		return lowerNumeric(child.Text())

	case "casese":
		// %s"..." is a case-sensitive literal string.
		text := child.Text()
		return peg.Lit(text[len(`%s"`) : len(text)-1]), nil

	case "casein":
		// "..." and %i"..." match case-insensitively.
		text := child.Text()
		return peg.CI(text[1 : len(text)-1]), nil

	case "prodname":
		return peg.Ref(NormalizeName(child.Text())), nil

	case "optgroup":
		inner, err := lowerAlt(child.Find("prodalt"))
		if err != nil {
			return nil, err
		}
		return peg.Opt(inner), nil

	case "group":
		return lowerAlt(child.Find("prodalt"))

	case "repgroup":
		inner, err := lowerAtom(child.Find("prodatom"))
		if err != nil {
			return nil, err
		}
		return lowerRepeat(child.Find("repspec").Text(), inner)
	}
	return nil, fmt.Errorf("unexpected atom %s at index %d", child.Name, child.Span.Start)
}

// lowerRepeat maps a min*max spec onto a repetition form. Only the three
// shapes the element builders provide are supported.
func lowerRepeat(spec string, atom *peg.Element) (*peg.Element, error) {
	parts := strings.SplitN(spec, "*", 2)
	min := 0
	if parts[0] != "" {
		min, _ = strconv.Atoi(parts[0])
	}
	max := peg.Unbounded
	if parts[1] != "" {
		max, _ = strconv.Atoi(parts[1])
	}
	switch {
	case min == 0 && max == peg.Unbounded:
		return peg.Many(atom), nil
	case min == 1 && max == peg.Unbounded:
		return peg.Some(atom), nil
	case min == 0 && max == 1:
		return peg.Opt(atom), nil
	}
	return nil, &RepetitionError{Spec: spec}
}

// lowerNumeric lowers a %x or %d literal. A bare number is one code point;
// a .-separated run concatenates code points into a fixed string; a -
// separated pair is a single-code-point range, compiled as an anchored
// character class.
func lowerNumeric(text string) (*peg.Element, error) {
	base := 16
	if text[1] == 'd' {
		base = 10
	}
	body := text[2:]

	sep := byte(0)
	if i := strings.IndexAny(body, "-."); i >= 0 {
		sep = body[i]
	}
	values, err := numericValues(body, base)
	if err != nil {
		return nil, err
	}

	switch sep {
	case '-':
		return peg.Pat(fmt.Sprintf(`[\x{%04X}-\x{%04X}]`, values[0], values[1])), nil
	case '.':
		var b strings.Builder
		for _, v := range values {
			b.WriteRune(v)
		}
		return peg.Lit(b.String()), nil
	}
	return peg.Lit(string(values[0])), nil
}

func numericValues(body string, base int) ([]rune, error) {
	parts := strings.FieldsFunc(body, func(r rune) bool {
		return r == '-' || r == '.'
	})
	values := make([]rune, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseInt(part, base, 32)
		if err != nil {
			return nil, fmt.Errorf("numeric literal %q: %w", body, err)
		}
		values = append(values, rune(v))
	}
	return values, nil
}
