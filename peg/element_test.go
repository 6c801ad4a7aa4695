package peg

import (
	"regexp"
	"strings"
	"testing"
)

func TestDefineValidation(t *testing.T) {
	tests := []struct {
		name string
		body *Element
		want string
	}{
		{"nil body", nil, "missing element"},
		{"empty sequence", Seq(), "empty child list"},
		{"empty choice", Alt(), "empty child list"},
		{"nil sequence child", Seq(Lit("a"), nil), "missing element"},
		{"unset reference", Ref(""), "unset name"},
		{"bad literal value", Lit(42), "literal value"},
		{"bounds out of order", Repeat(Lit("a"), 3, 2), "out of order"},
		{"negative min", Repeat(Lit("a"), -1, 2), "out of order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrammar()
			err := g.Define("x", tt.body)
			if err == nil {
				t.Fatal("expected a construction error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDefineRejectsDuplicates(t *testing.T) {
	g := NewGrammar()
	mustDefine(t, g, "x", Lit("a"))
	if err := g.Define("x", Lit("b")); err == nil {
		t.Error("redefinition should fail")
	}
}

func TestDefineRejectsEmptyName(t *testing.T) {
	g := NewGrammar()
	if err := g.Define("", Lit("a")); err == nil {
		t.Error("empty production name should fail")
	}
}

func TestValidateCatchesDanglingReference(t *testing.T) {
	g := NewGrammar()
	mustDefine(t, g, "s", Seq(Lit("a"), Ref("ghost")))
	err := g.Validate()
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("got %v, want an error naming ghost", err)
	}

	mustDefine(t, g, "ghost", Lit("b"))
	if err := g.Validate(); err != nil {
		t.Errorf("validate after defining ghost: %v", err)
	}
}

func TestLitSugarsToChoice(t *testing.T) {
	e := Lit("foo", "bar")
	if e.Kind != KindChoice || len(e.Children) != 2 {
		t.Fatalf("multi-value Lit should be a choice of literals, got %v", e)
	}
	for _, c := range e.Children {
		if c.Kind != KindLiteral {
			t.Errorf("child kind %v, want literal", c.Kind)
		}
	}
}

func TestPatternAnchoring(t *testing.T) {
	g := NewGrammar()
	mustDefine(t, g, "num", Pat(`[0-9]+`))

	// The pattern may only match at the cursor, never later in the slice.
	if got := parse(t, g, "num", "ab12"); got != NoMatch {
		t.Errorf("got %d, want NoMatch", got)
	}
	if got := parse(t, g, "num", "12ab"); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestAnchoringHappensOnce(t *testing.T) {
	lit := toLiteral(regexp.MustCompile(`\A(?:[0-9]+)`))
	if got := lit.Pattern.String(); got != `\A(?:[0-9]+)` {
		t.Errorf("already anchored pattern was re-wrapped: %q", got)
	}
}

func TestAnchorNotALineAnchor(t *testing.T) {
	g := NewGrammar()
	mustDefine(t, g, "num", Pat(`[0-9]+`))

	// A digit after a newline is not at the beginning of the text.
	if got := parse(t, g, "num", "x\n12"); got != NoMatch {
		t.Errorf("got %d, want NoMatch", got)
	}
}

func TestElementString(t *testing.T) {
	tests := []struct {
		elem *Element
		want string
	}{
		{Lit("a"), `"a"`},
		{Seq(Lit("a"), Ref("b")), `("a" b)`},
		{Alt(Lit("a"), Lit("b")), `("a" / "b")`},
		{Many(Ref("x")), "*x"},
		{Some(Ref("x")), "1*x"},
		{Opt(Ref("x")), "[x]"},
		{Neg(Lit("a")), `!"a"`},
		{Pos(Lit("a")), `&"a"`},
		{EOF(), "<eof>"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.elem.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
