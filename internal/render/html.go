package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/itsmostafa/notedex/internal/notes"
)

// HTML renders all documents into a single self-contained page with a
// table of contents. Paragraphs go through goldmark with raw HTML disabled;
// code blocks are highlighted by chroma with inline styles.
type HTML struct {
	opts      Options
	markdown  goldmark.Markdown
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHTML creates an HTML renderer.
func NewHTML(opts Options) *HTML {
	if opts.Title == "" {
		opts.Title = "Notes"
	}

	style := styles.Get(opts.Style)
	if style == nil {
		style = styles.Fallback
	}

	return &HTML{
		opts:      opts,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4)),
	}
}

func (r *HTML) Name() string { return "html" }

type htmlPage struct {
	Title     string
	Documents []htmlDocument
}

type htmlDocument struct {
	Anchor   string
	Title    string
	Path     string
	Author   string
	Tags     []string
	Counts   notes.Counts
	Sections []htmlSection
}

type htmlSection struct {
	Anchor   string
	Title    string
	Heading  int // h2..h6
	Preamble bool
	Body     template.HTML
	Children []htmlSection
}

func (r *HTML) Render(w io.Writer, docs []*notes.Document) error {
	page := htmlPage{Title: r.opts.Title}

	var docSlugs notes.Slugger
	for _, doc := range docs {
		anchor := docSlugs.Unique(notes.Slugify(doc.Title))
		sections, err := r.sections(anchor, doc.Sections)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", doc.Path, err)
		}
		page.Documents = append(page.Documents, htmlDocument{
			Anchor:   anchor,
			Title:    doc.Title,
			Path:     displayPath(doc.Path, r.opts.BaseDir),
			Author:   doc.Meta.Author,
			Tags:     doc.Meta.Tags,
			Counts:   doc.Counts(),
			Sections: sections,
		})
	}

	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

func (r *HTML) sections(docAnchor string, sections []*notes.Section) ([]htmlSection, error) {
	out := make([]htmlSection, 0, len(sections))
	for _, s := range sections {
		body, err := r.blocks(s.Blocks)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", s.Title, err)
		}
		children, err := r.sections(docAnchor, s.Children)
		if err != nil {
			return nil, err
		}
		out = append(out, htmlSection{
			Anchor:   docAnchor + "--" + s.Anchor,
			Title:    s.Title,
			Heading:  min(s.Level+1, 6),
			Preamble: s.IsPreamble(),
			Body:     body,
			Children: children,
		})
	}
	return out, nil
}

func (r *HTML) blocks(blocks []notes.Block) (template.HTML, error) {
	var buf bytes.Buffer
	for _, b := range blocks {
		switch b.Kind {
		case notes.KindCode:
			if err := r.highlight(&buf, b); err != nil {
				return "", err
			}
		default:
			if err := r.markdown.Convert([]byte(b.Text), &buf); err != nil {
				return "", fmt.Errorf("failed to convert paragraph: %w", err)
			}
		}
	}
	// goldmark escapes raw HTML and chroma escapes token text
	return template.HTML(buf.String()), nil
}

func (r *HTML) highlight(buf *bytes.Buffer, b notes.Block) error {
	lexer := lexers.Fallback
	if b.Lang != "" {
		if l := lexers.Get(b.Lang); l != nil {
			lexer = l
		}
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, b.Text+"\n")
	if err != nil {
		return fmt.Errorf("failed to tokenise %s code: %w", b.Lang, err)
	}
	if err := r.formatter.Format(buf, r.style, iterator); err != nil {
		return fmt.Errorf("failed to highlight code: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"heading": func(level int, anchor, title string) template.HTML {
		return template.HTML(fmt.Sprintf(`<h%d id="%s">%s</h%d>`,
			level, template.HTMLEscapeString(anchor), template.HTMLEscapeString(title), level))
	},
	"join": strings.Join,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { display: flex; margin: 0; font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; line-height: 1.55; color: #1f2328; }
nav { position: sticky; top: 0; height: 100vh; overflow-y: auto; width: 20rem; flex-shrink: 0; padding: 1rem; border-right: 1px solid #d0d7de; box-sizing: border-box; font-size: 0.9rem; }
nav ul { list-style: none; padding-left: 1rem; margin: 0.2rem 0; }
nav > ul { padding-left: 0; }
nav a { color: #0969da; text-decoration: none; }
main { max-width: 52rem; padding: 1rem 2rem; }
article { margin-bottom: 3rem; }
.meta { color: #656d76; font-size: 0.85rem; }
pre { padding: 0.75rem; overflow-x: auto; border-radius: 6px; }
</style>
</head>
<body>
<nav>
<h1>{{.Title}}</h1>
<ul>
{{- range .Documents}}
<li><a href="#{{.Anchor}}">{{.Title}}</a>{{template "toc" .Sections}}</li>
{{- end}}
</ul>
</nav>
<main>
{{- range .Documents}}
<article id="{{.Anchor}}">
<h1>{{.Title}}</h1>
<p class="meta">{{.Path}}{{if .Author}} · {{.Author}}{{end}}{{if .Tags}} · {{join .Tags ", "}}{{end}} · {{.Counts.Sections}} sections · {{.Counts.Words}} words</p>
{{- template "sections" .Sections}}
</article>
{{- end}}
</main>
</body>
</html>
{{define "toc"}}{{if .}}<ul>{{range .}}{{if .Preamble}}{{template "toc" .Children}}{{else}}<li><a href="#{{.Anchor}}">{{.Title}}</a>{{template "toc" .Children}}</li>{{end}}{{end}}</ul>{{end}}{{end}}
{{define "sections"}}{{range .}}
<section{{if .Preamble}} class="preamble"{{end}}>
{{if not .Preamble}}{{heading .Heading .Anchor .Title}}
{{end}}{{.Body}}{{template "sections" .Children}}
</section>{{end}}{{end}}`))
