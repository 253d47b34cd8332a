package markup

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var parser = goldmark.New().Parser()

// typstEscaper escapes every character that starts Typst syntax when it
// appears in markup. Escaping "/" keeps "//" and "/*" from opening comments.
var typstEscaper = strings.NewReplacer(
	`\`, `\\`,
	`#`, `\#`,
	`$`, `\$`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`@`, `\@`,
	`<`, `\<`,
	`>`, `\>`,
	`[`, `\[`,
	`]`, `\]`,
	`~`, `\~`,
	`=`, `\=`,
	`+`, `\+`,
	`/`, `\/`,
)

// EscapeTypst escapes s so that Typst markup shows it verbatim. A leading
// "- " is escaped too so the text does not start a list.
func EscapeTypst(s string) string {
	out := typstEscaper.Replace(s)
	if strings.HasPrefix(out, "- ") {
		out = `\` + out
	}

	return out
}

var typstStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// TypstString returns s as a Typst string literal.
func TypstString(s string) string {
	return `"` + typstStringEscaper.Replace(s) + `"`
}

// Typst converts Markdown to Typst markup.
func Typst(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}

	src := []byte(md)
	doc := parser.Parse(text.NewReader(src))

	w := &typstWriter{src: src}
	w.block(doc)

	return strings.TrimRight(w.buf.String(), "\n")
}

type typstWriter struct {
	src []byte
	buf bytes.Buffer
	// afterCall is set right after an embedded function call. Text that
	// continues with "." or "(" would extend the call and needs a ";".
	afterCall bool
}

func (w *typstWriter) write(s string) {
	w.buf.WriteString(s)
	w.afterCall = false
}

func (w *typstWriter) text(s string) {
	if s == "" {
		return
	}

	if w.afterCall && (s[0] == '.' || s[0] == '(') {
		w.buf.WriteByte(';')
	}

	w.write(EscapeTypst(s))
}

func (w *typstWriter) call(s string) {
	w.buf.WriteString(s)
	w.afterCall = true
}

func (w *typstWriter) block(n ast.Node) {
	first := true

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if !first {
			w.write("\n\n")
		}

		first = false

		switch c := c.(type) {
		case *ast.List:
			w.list(c)
		case *ast.Heading:
			w.write("#strong[")
			w.inlines(c)
			w.call("]")
		case *ast.Paragraph, *ast.TextBlock:
			w.inlines(c)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			w.call("#raw(block: true, " + TypstString(w.lines(c)) + ")")
		case *ast.HTMLBlock:
			w.text(strings.TrimSpace(w.lines(c)))
		case *ast.ThematicBreak:
			w.call("#line(length: 100%)")
		default:
			w.block(c)
		}
	}
}

func (w *typstWriter) list(l *ast.List) {
	i := l.Start

	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		if item != l.FirstChild() {
			w.write("\n")
		}

		if l.IsOrdered() {
			w.write(strconv.Itoa(i) + ". ")
			i++
		} else {
			w.write("- ")
		}

		w.block(item)
	}
}

func (w *typstWriter) lines(n ast.Node) string {
	var b strings.Builder

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(w.src))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (w *typstWriter) inlines(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.inline(c)
	}
}

func (w *typstWriter) inline(n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		w.text(string(n.Segment.Value(w.src)))

		switch {
		case n.HardLineBreak():
			w.write(" \\\n")
		case n.SoftLineBreak():
			w.write(" ")
		}

	case *ast.String:
		w.text(string(n.Value))

	case *ast.Emphasis:
		if n.Level >= 2 {
			w.write("#strong[")
		} else {
			w.write("#emph[")
		}

		w.inlines(n)
		w.call("]")

	case *ast.Link:
		w.write("#link(" + TypstString(string(n.Destination)) + ")[")
		w.inlines(n)
		w.call("]")

	case *ast.AutoLink:
		w.write("#link(" + TypstString(string(n.URL(w.src))) + ")[")
		w.text(string(n.Label(w.src)))
		w.call("]")

	case *ast.CodeSpan:
		var b strings.Builder

		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(w.src))
			}
		}

		w.call("#raw(" + TypstString(b.String()) + ")")

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			w.text(string(seg.Value(w.src)))
		}

	default:
		w.inlines(n)
	}
}
