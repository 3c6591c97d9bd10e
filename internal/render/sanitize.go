package render

import (
	"html/template"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowedTags maps accepted elements to the tag they are written back as.
// Attributes are never kept.
var allowedTags = map[atom.Atom]string{
	atom.P:          "p",
	atom.Br:         "br",
	atom.Ul:         "ul",
	atom.Ol:         "ol",
	atom.Li:         "li",
	atom.Strong:     "strong",
	atom.B:          "strong",
	atom.Em:         "em",
	atom.I:          "em",
	atom.Code:       "code",
	atom.Pre:        "pre",
	atom.Blockquote: "blockquote",
	atom.H1:         "h1",
	atom.H2:         "h2",
	atom.H3:         "h3",
	atom.H4:         "h4",
	atom.H5:         "h5",
	atom.H6:         "h6",
}

// droppedTags are removed together with everything inside them.
var droppedTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Frame:    true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Math:     true,
	atom.Textarea: true,
	atom.Select:   true,
	atom.Title:    true,
	atom.Head:     true,
}

// node is an allow-listed element, or a text run when tag is "".
type node struct {
	tag      string
	text     string
	children []*node
}

func (n *node) appendText(s string) {
	if s == "" {
		return
	}
	if k := len(n.children); k > 0 && n.children[k-1].tag == "" {
		n.children[k-1].text += s
		return
	}
	n.children = append(n.children, &node{text: s})
}

// Document is recommendation text reduced to a safe structural subset.
type Document struct {
	root *node
}

// Sanitize parses untrusted recommendation text. Elements outside the
// allow-list are unwrapped, active content is dropped, and all attributes
// are discarded.
func Sanitize(raw string) *Document {
	doc := &Document{root: &node{}}
	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(raw), parent)
	if err != nil {
		doc.root.appendText(cleanText(raw))
		return doc
	}
	for _, n := range nodes {
		convert(n, doc.root)
	}
	return doc
}

func convert(n *html.Node, parent *node) {
	switch n.Type {
	case html.TextNode:
		parent.appendText(cleanText(n.Data))
	case html.ElementNode:
		if droppedTags[n.DataAtom] {
			return
		}
		target := parent
		if tag, ok := allowedTags[n.DataAtom]; ok && n.Namespace == "" {
			el := &node{tag: tag}
			parent.children = append(parent.children, el)
			target = el
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convert(c, target)
		}
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convert(c, parent)
		}
	}
}

// cleanText strips control characters that could drive a terminal, keeping
// newlines and tabs.
func cleanText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
			return -1
		}
		return r
	}, s)
}

// Empty reports whether the document has no visible text.
func (d *Document) Empty() bool {
	return d == nil || strings.TrimSpace(d.Text()) == ""
}

// HasMarkup reports whether any structural element survived sanitizing.
// Documents without markup rely on their line breaks for layout.
func (d *Document) HasMarkup() bool {
	if d == nil {
		return false
	}
	for _, c := range d.root.children {
		if c.tag != "" {
			return true
		}
	}
	return false
}

// HTML re-serializes the allow-listed subset with all text escaped.
func (d *Document) HTML() template.HTML {
	if d == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range d.root.children {
		writeHTML(&b, c)
	}
	return template.HTML(b.String()) //nolint:gosec // built only from allow-listed tags and escaped text
}

func writeHTML(b *strings.Builder, n *node) {
	switch n.tag {
	case "":
		b.WriteString(html.EscapeString(n.text))
	case "br":
		b.WriteString("<br>")
	default:
		b.WriteString("<" + n.tag + ">")
		for _, c := range n.children {
			writeHTML(b, c)
		}
		b.WriteString("</" + n.tag + ">")
	}
}

// Markdown renders the document for a terminal markdown renderer.
// Text is passed through, so markdown written by the service keeps its formatting.
func (d *Document) Markdown() string {
	return d.flatten(true)
}

// Text renders the document as plain text with list markers.
func (d *Document) Text() string {
	return d.flatten(false)
}

func (d *Document) flatten(markdown bool) string {
	if d == nil {
		return ""
	}
	f := &flattener{markdown: markdown}
	f.walk(d.root, 0, false)
	lines := strings.Split(f.b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	out := strings.TrimSpace(strings.Join(lines, "\n"))
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return out
}

type flattener struct {
	b        strings.Builder
	markdown bool
}

func (f *flattener) mark(s string) {
	if f.markdown {
		f.b.WriteString(s)
	}
}

func (f *flattener) ensureNewline() {
	s := f.b.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		f.b.WriteString("\n")
	}
}

func (f *flattener) blankLine() {
	s := f.b.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	if strings.HasSuffix(s, "\n") {
		f.b.WriteString("\n")
		return
	}
	f.b.WriteString("\n\n")
}

// walk writes the children of n. Text inside elements follows HTML
// whitespace rules; top-level text and <pre> content are kept verbatim.
func (f *flattener) walk(n *node, depth int, collapse bool) {
	for _, c := range n.children {
		f.one(c, depth, collapse)
	}
}

func (f *flattener) one(c *node, depth int, collapse bool) {
	switch c.tag {
	case "":
		if collapse {
			f.b.WriteString(collapseSpace(c.text))
		} else {
			f.b.WriteString(c.text)
		}
	case "br":
		f.b.WriteString("\n")
	case "strong":
		f.inline(c, "**", depth)
	case "em":
		f.inline(c, "*", depth)
	case "code":
		f.inline(c, "`", depth)
	case "p":
		f.blankLine()
		f.walk(c, depth, true)
		f.blankLine()
	case "blockquote":
		f.blankLine()
		f.mark("> ")
		f.walk(c, depth, true)
		f.blankLine()
	case "pre":
		f.blankLine()
		f.mark("```\n")
		f.walk(c, depth, false)
		f.ensureNewline()
		f.mark("```")
		f.blankLine()
	case "h1", "h2", "h3", "h4", "h5", "h6":
		f.blankLine()
		level, _ := strconv.Atoi(c.tag[1:])
		f.mark(strings.Repeat("#", level) + " ")
		f.walk(c, depth, true)
		f.blankLine()
	case "ul", "ol":
		f.blankLine()
		f.list(c, depth)
		f.blankLine()
	case "li":
		f.item(c, "- ", depth)
	}
}

func (f *flattener) inline(c *node, marker string, depth int) {
	f.mark(marker)
	f.walk(c, depth, true)
	f.mark(marker)
}

func (f *flattener) list(l *node, depth int) {
	n := 0
	for _, c := range l.children {
		if c.tag == "" && strings.TrimSpace(c.text) == "" {
			continue
		}
		if c.tag != "li" {
			f.one(c, depth, true)
			continue
		}
		n++
		marker := "- "
		if l.tag == "ol" {
			marker = strconv.Itoa(n) + ". "
		}
		f.item(c, marker, depth)
	}
}

func (f *flattener) item(li *node, marker string, depth int) {
	f.ensureNewline()
	f.b.WriteString(strings.Repeat("  ", depth) + marker)
	for i, c := range li.children {
		switch {
		case c.tag == "ul" || c.tag == "ol":
			f.ensureNewline()
			f.list(c, depth+1)
		case c.tag == "" && i == 0:
			f.b.WriteString(strings.TrimLeft(collapseSpace(c.text), " "))
		default:
			f.one(c, depth, true)
		}
	}
	f.ensureNewline()
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
