// Package abnf compiles ABNF grammar text (RFC 5234, with RFC 7405's
// case-sensitive %s"..." strings) into a peg.Grammar.
//
// ABNF alternation is unordered; the PEG grammars this package emits use
// prioritized choice. Alternatives are kept in source order, so grammar
// authors must put longer or more specific alternatives before shorter
// prefixes where ambiguity exists: "foobar" / "foo", never the reverse.
//
// Numeric literals (%x, %d) denote Unicode code points; a range such as
// %x30-39 matches one code point, not one byte.
package abnf

import (
	"regexp"

	"github.com/cabo/abnc/peg"
)

// bootstrap builds the grammar that parses ABNF source. It is expressed in
// the engine's own element model; alternative order inside prodatom is
// load-bearing because choice is committal.
func bootstrap() *peg.Grammar {
	g := peg.NewGrammar()

	g.MustDefine("grammar", peg.Seq(peg.Some(peg.Ref("prod")), peg.EOF()))
	g.MustDefine("prodname", peg.Pat(`[A-Za-z][-A-Za-z0-9]*`))

	// Whitespace or a comment running to end of line.
	g.MustDefine("ws", peg.Pat(`([ \t\n]|;[^\n]*\n)+`))
	g.MustDefine("s", peg.Opt(peg.Ref("ws")))

	g.MustDefine("prod", peg.Seq(
		peg.Ref("prodname"), peg.Ref("s"), peg.Lit("="), peg.Ref("s"),
		peg.Ref("prodalt"), peg.Ref("s"),
	))
	g.MustDefine("prodalt", peg.Seq(
		peg.Ref("prodterm"),
		peg.Many(peg.Seq(peg.Ref("s"), peg.Lit("/"), peg.Ref("s"), peg.Ref("prodterm"))),
	))
	g.MustDefine("prodterm", peg.Seq(
		peg.Ref("prodatom"),
		peg.Many(peg.Seq(peg.Ref("s"), peg.Ref("prodatom"))),
	))
	g.MustDefine("prodatom", peg.Alt(
		peg.Ref("numlit"),
		peg.Ref("casese"),
		peg.Seq(peg.Opt(peg.Lit("%i")), peg.Ref("casein")),
		// A rule reference, unless it is the start of the next definition.
		peg.Seq(peg.Ref("prodname"), peg.Neg(peg.Seq(peg.Ref("s"), peg.Lit("=")))),
		peg.Ref("optgroup"),
		peg.Ref("repgroup"),
		peg.Ref("group"),
	))

	g.MustDefine("numlit", peg.Lit(
		regexp.MustCompile(`%x[0-9A-Fa-f]{2}([-.][0-9A-Fa-f]{2})*`),
		regexp.MustCompile(`%d[0-9]+([-.][0-9]+)*`),
	))
	g.MustDefine("casein", peg.Pat(`"[^"]+"`))
	g.MustDefine("casese", peg.Pat(`%s"[^"]+"`))

	g.MustDefine("optgroup", peg.Seq(
		peg.Lit("["), peg.Ref("s"), peg.Ref("prodalt"), peg.Ref("s"), peg.Lit("]"),
	))
	g.MustDefine("group", peg.Seq(
		peg.Lit("("), peg.Ref("s"), peg.Ref("prodalt"), peg.Ref("s"), peg.Lit(")"),
	))
	g.MustDefine("repgroup", peg.Seq(peg.Ref("repspec"), peg.Ref("prodatom")))
	g.MustDefine("repspec", peg.Pat(`[0-9]*\*[0-9]*`))

	return g
}

// ignoreSet is transparent content between ABNF tokens: whitespace and
// comments.
var ignoreSet = []string{"ws", "s"}
