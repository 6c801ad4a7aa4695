package peg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberGrammar(t *testing.T) *Grammar {
	g := NewGrammar()
	mustDefine(t, g, "digit", Pat(`[0-9]`))
	mustDefine(t, g, "number", Some(Ref("digit")))
	return g
}

func TestASTShape(t *testing.T) {
	p := NewParser(numberGrammar(t))
	end, err := p.Parse("number", "123")
	require.NoError(t, err)
	require.Equal(t, 3, end)

	root := p.AST(ASTOptions{})
	require.NotNil(t, root)
	assert.Equal(t, "number", root.Name)
	assert.Equal(t, Span{0, 3}, root.Span)
	assert.Equal(t, 3, root.Len())
	assert.Equal(t, "123", root.Text())

	digits := root.Children("digit")
	require.Len(t, digits, 3)
	for i, d := range digits {
		assert.Equal(t, Span{i, i + 1}, d.Span)
		assert.Same(t, root, d.Parent)
		assert.Equal(t, 1, d.Depth())
	}
	assert.Equal(t, "3", root.LastChild().Text())
	assert.Equal(t, 3, root.Count("digit"))
	assert.Equal(t, 0, root.Count("number"))
	assert.Equal(t, "1", root.Find("digit").Text())
	assert.Nil(t, root.Find("nothing"))
}

func TestASTEmptyMatch(t *testing.T) {
	g := NewGrammar()
	mustDefine(t, g, "s", Many(Lit("a")))

	p := NewParser(g)
	end, err := p.Parse("s", "")
	require.NoError(t, err)
	require.Equal(t, 0, end)

	root := p.AST(ASTOptions{})
	require.NotNil(t, root)
	assert.Equal(t, Span{0, 0}, root.Span)
	assert.Equal(t, 0, root.Len())
	assert.Nil(t, root.Child)
}

func TestASTRepetitionLength(t *testing.T) {
	g := NewGrammar()
	mustDefine(t, g, "s", Many(Lit("a")))

	p := NewParser(g)
	end, err := p.Parse("s", "aaaa")
	require.NoError(t, err)
	require.Equal(t, 4, end)

	root := p.AST(ASTOptions{})
	require.NotNil(t, root)
	assert.Equal(t, 4, root.Len())
}

// checkContainment walks the tree verifying the range invariants: every
// child inside its parent, siblings ordered and disjoint.
func checkContainment(t *testing.T, n *Node) {
	t.Helper()
	prevEnd := n.Span.Start
	for c := n.Child; c != nil; c = c.Sibling {
		assert.GreaterOrEqual(t, c.Span.Start, prevEnd, "sibling overlap at %s", c.Name)
		assert.LessOrEqual(t, c.Span.End, n.Span.End, "child %s escapes parent %s", c.Name, n.Name)
		prevEnd = c.Span.End
		checkContainment(t, c)
	}
}

func TestASTRangeContainment(t *testing.T) {
	g := NewGrammar()
	mustDefine(t, g, "digit", Pat(`[0-9]`))
	mustDefine(t, g, "number", Some(Ref("digit")))
	mustDefine(t, g, "op", Lit("+", "-"))
	mustDefine(t, g, "expr", Seq(Ref("number"), Many(Seq(Ref("op"), Ref("number")))))

	p := NewParser(g)
	end, err := p.Parse("expr", "12+345-6")
	require.NoError(t, err)
	require.Equal(t, 8, end)

	root := p.AST(ASTOptions{})
	require.NotNil(t, root)
	assert.Equal(t, "expr", root.Name)
	assert.Equal(t, 3, root.Count("number"))
	assert.Equal(t, 2, root.Count("op"))
	checkContainment(t, root)
}

func TestASTIgnoredNodesOmitted(t *testing.T) {
	g := NewGrammar()
	mustDefine(t, g, "sp", Pat(`[ \t]+`))
	mustDefine(t, g, "word", Pat(`[a-z]+`))
	mustDefine(t, g, "pair", Seq(Ref("word"), Ref("word")))

	p := NewParser(g)
	p.SetIgnore("sp")
	end, err := p.Parse("pair", "foo \t bar")
	require.NoError(t, err)
	require.Equal(t, 9, end)

	root := p.AST(ASTOptions{Ignore: []string{"sp"}})
	require.NotNil(t, root)
	assert.Equal(t, []string{"word", "word"}, childNames(root))
	assert.Nil(t, root.Find("sp"))

	assert.Equal(t, "foo \t bar", root.Text())
	assert.Equal(t, "foobar", root.StrippedText())
	assert.Equal(t, "bar", root.LastChild().StrippedText())
}

func TestASTLeadingIgnoredContent(t *testing.T) {
	g := NewGrammar()
	mustDefine(t, g, "sp", Pat(`[ ]+`))
	mustDefine(t, g, "word", Pat(`[a-z]+`))

	p := NewParser(g)
	p.SetIgnore("sp")
	end, err := p.Parse("word", "   foo")
	require.NoError(t, err)
	require.Equal(t, 6, end)

	root := p.AST(ASTOptions{Ignore: []string{"sp"}})
	require.NotNil(t, root)
	assert.Equal(t, "word", root.Name)
	assert.Equal(t, Span{3, 6}, root.Span)
	assert.Equal(t, "foo", root.Text())
}

func TestASTNilWithoutParse(t *testing.T) {
	p := NewParser(numberGrammar(t))
	assert.Nil(t, p.AST(ASTOptions{}))
}

func childNames(n *Node) []string {
	var names []string
	for c := n.Child; c != nil; c = c.Sibling {
		names = append(names, c.Name)
	}
	return names
}
