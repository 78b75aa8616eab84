package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseFragment(t *testing.T, fragment string) *html.Node {
	node, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	return node
}

func TestGetText(t *testing.T) {
	node := parseFragment(t, `<pre>line one
line <b>two</b></pre>`)
	text := GetText(node)
	require.Contains(t, text, "line one")
	require.Contains(t, text, "line two")
}

func TestGetTextBrBecomesNewline(t *testing.T) {
	node := parseFragment(t, `<pre>one<br>two</pre>`)
	require.Equal(t, []string{"one", "two"}, NonBlankLines(GetText(node)))
}

func TestCleanLine(t *testing.T) {
	require.Equal(t, "a b c", CleanLine("  a \t b    c  "))
}

func TestNonBlankLines(t *testing.T) {
	lines := NonBlankLines("\n  first  \n\n\t\nsecond\n")
	require.Equal(t, []string{"first", "second"}, lines)
}
