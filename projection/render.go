package projection

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Projector renders asset descriptions for display. Descriptions are
// curator-entered markdown; rendered HTML is always sanitized before it
// reaches a template.
type Projector struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Projector {
	return &Projector{
		md:     goldmark.New(goldmark.WithExtensions(extension.Strikethrough)),
		policy: bluemonday.UGCPolicy(),
	}
}

// DescriptionHTML converts a markdown description to sanitized HTML. A
// description that fails to render falls back to its escaped source text.
func (p *Projector) DescriptionHTML(text string) string {
	if text == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := p.md.Convert([]byte(text), &buf); err != nil {
		return p.policy.Sanitize(text)
	}
	return strings.TrimSpace(p.policy.Sanitize(buf.String()))
}
