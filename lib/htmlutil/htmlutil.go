package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// GetText concatenates every text node under `node`, block tags get a
// newline between them so preformatted output keeps its line structure.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteString("\n")
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`[ \t]+`)

// CleanLine strips non-printable runes and collapses runs of spaces.
func CleanLine(s string) string {
	var out strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) {
			out.WriteRune(c)
		}
	}
	cleaned := strings.TrimSpace(out.String())
	return innerWhitespace.ReplaceAllString(cleaned, " ")
}

// NonBlankLines splits text into trimmed lines, dropping empty ones.
func NonBlankLines(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = CleanLine(ln)
		if ln == "" {
			continue
		}
		lines = append(lines, ln)
	}
	return lines
}
