package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

type attr struct {
	name  string
	value string
	bare  bool
}

func a(name, value string) attr { return attr{name: name, value: value} }

func flag(name string, on bool) attr {
	if !on {
		return attr{}
	}
	return attr{name: name, bare: true}
}

func attrIf(on bool, name, value string) attr {
	if !on {
		return attr{}
	}
	return a(name, value)
}

// html writes escaped markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func newHTML(w io.Writer) *html { return &html{w: w} }

func (h *html) raw(parts ...string) {
	for _, part := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, part)
	}
}

func (h *html) text(s string) { h.raw(templ.EscapeString(s)) }

func (h *html) open(tag string, attrs ...attr) {
	h.raw("<", tag)
	for _, at := range attrs {
		switch {
		case at.name == "":
		case at.bare:
			h.raw(" ", at.name)
		default:
			h.raw(" ", at.name, `="`, templ.EscapeString(at.value), `"`)
		}
	}
	h.raw(">")
}

func (h *html) close(tag string) { h.raw("</", tag, ">") }

// element writes a whole element with escaped text content.
func (h *html) element(tag, content string, attrs ...attr) {
	h.open(tag, attrs...)
	h.text(content)
	h.close(tag)
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(w)
		fn(ctx, h)
		return h.err
	})
}
