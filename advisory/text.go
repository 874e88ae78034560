package advisory

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM, // GitHub flavoured markdown.
	),
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// PlainText flattens a markdown advisory body into whitespace separated words
// so that free-text matching does not see markup.
func PlainText(doc string) string {
	src := []byte(doc)
	root := markdown.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if em, ok := n.(*ast.Emphasis); ok {
			// identifiers such as __init__ are parsed as underscore emphasis
			if emphasisDelimiter(em, src) == '_' {
				b.WriteString(strings.Repeat("_", em.Level))
			}
			return ast.WalkContinue, nil
		}
		if !entering {
			if n.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			writeLines(&b, node.Lines(), src)
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			var raw strings.Builder
			writeLines(&raw, node.Lines(), src)
			if node.HasClosure() {
				raw.Write(node.ClosureLine.Value(src))
			}
			stripped := htmlTag.ReplaceAll([]byte(raw.String()), []byte(" "))
			b.Write(util.ResolveNumericReferences(util.ResolveEntityNames(stripped)))
			b.WriteByte(' ')
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func writeLines(b *strings.Builder, lines *text.Segments, src []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(src))
	}
	b.WriteByte(' ')
}

// emphasisDelimiter returns the marker character that opened em, read from
// the source right before its first text.
func emphasisDelimiter(em *ast.Emphasis, src []byte) byte {
	n := em.FirstChild()
	for n != nil && n.Kind() != ast.KindText {
		n = n.FirstChild()
	}
	t, ok := n.(*ast.Text)
	if !ok || t.Segment.Start == 0 {
		return 0
	}
	return src[t.Segment.Start-1]
}
