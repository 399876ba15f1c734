// Package report produces a human-readable audit of the fillable surface of
// a page: every form, its controls, and the candidates the detector would
// rank for each semantic field type. Captured page HTML is sanitized before
// rendering; the output is markdown for logs, MCP consumers, and the CLI
// audit mode. Reporting never fills anything.
package report

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"

	"github.com/jawadgarzaldeen1/filling-sub001/detect"
	"github.com/jawadgarzaldeen1/filling-sub001/dom"
	"github.com/jawadgarzaldeen1/filling-sub001/fieldmap"
	"github.com/jawadgarzaldeen1/filling-sub001/idgen"
)

// ControlInfo describes one control found on the page.
type ControlInfo struct {
	Identity    dom.Identity `json:"identity"`
	Type        string       `json:"type,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Visible     bool         `json:"visible"`
	Disabled    bool         `json:"disabled"`
}

// FieldCandidates lists the detector's ranking for one field type.
type FieldCandidates struct {
	Field      fieldmap.FieldType `json:"field"`
	Candidates []CandidateInfo    `json:"candidates"`
}

// CandidateInfo is the reportable slice of a detect.Candidate.
type CandidateInfo struct {
	Identity dom.Identity `json:"identity"`
	Score    int          `json:"score"`
	Selector string       `json:"selector"`
}

// Report is the full audit result.
type Report struct {
	ID       string            `json:"id"`
	Origin   string            `json:"origin,omitempty"`
	Forms    int               `json:"forms"`
	Controls []ControlInfo     `json:"controls"`
	Fields   []FieldCandidates `json:"fields"`
	Markdown string            `json:"markdown"`
}

// Auditor builds reports. Construct once and reuse: the markdown converter
// and sanitizer are stateless after creation.
type Auditor struct {
	conv   *converter.Converter
	policy *bluemonday.Policy
	set    fieldmap.SelectorSet
	ids    idgen.Generator
}

// New creates an Auditor using the given selector registry.
func New(set fieldmap.SelectorSet) *Auditor {
	// The sanitizer keeps form structure and the attributes the report
	// talks about; everything else (scripts, handlers, styles) is dropped.
	policy := bluemonday.NewPolicy()
	policy.AllowElements("form", "fieldset", "legend", "label", "input",
		"select", "option", "textarea", "button", "div", "span", "p",
		"h1", "h2", "h3", "ul", "ol", "li", "table", "tr", "td", "th")
	policy.AllowAttrs("name", "id", "type", "placeholder", "value", "for").Globally()

	return &Auditor{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		policy: policy,
		set:    set,
		ids:    idgen.Prefixed("audit_", idgen.Default),
	}
}

// Audit inspects doc and returns the report. Detection runs on a throwaway
// detector so the audit never pollutes the engine's cache.
func (a *Auditor) Audit(doc dom.Document) (*Report, error) {
	rep := &Report{ID: a.ids(), Origin: doc.Origin()}

	forms, err := doc.Query("form")
	if err != nil {
		return nil, fmt.Errorf("report: query forms: %w", err)
	}
	rep.Forms = len(forms)

	controls, err := doc.Query("input, select, textarea")
	if err != nil {
		return nil, fmt.Errorf("report: query controls: %w", err)
	}
	for _, el := range controls {
		rep.Controls = append(rep.Controls, ControlInfo{
			Identity:    dom.IdentityOf(el),
			Type:        el.Type(),
			Placeholder: el.Attr("placeholder"),
			Visible:     el.Visible(),
			Disabled:    el.Disabled(),
		})
	}

	det := detect.New(nil)
	for _, ft := range allFields() {
		cands := det.FindCandidates(doc, a.set, ft)
		if len(cands) == 0 {
			continue
		}
		fc := FieldCandidates{Field: ft}
		for _, c := range cands {
			fc.Candidates = append(fc.Candidates, CandidateInfo{
				Identity: c.Identity,
				Score:    c.Score,
				Selector: c.Selector,
			})
		}
		rep.Fields = append(rep.Fields, fc)
	}

	rep.Markdown = a.render(rep, forms)
	return rep, nil
}

func (a *Auditor) render(rep *Report, forms []dom.Element) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Fillable surface")
	if rep.Origin != "" {
		fmt.Fprintf(&sb, " of %s", rep.Origin)
	}
	fmt.Fprintf(&sb, "\n\n%d form(s), %d control(s)\n", rep.Forms, len(rep.Controls))

	for _, fc := range rep.Fields {
		fmt.Fprintf(&sb, "\n## %s\n\n", fc.Field)
		for _, c := range fc.Candidates {
			fmt.Fprintf(&sb, "- score %d: `<%s name=%q id=%q>` via `%s`\n",
				c.Score, c.Identity.Tag, c.Identity.Name, c.Identity.ID, c.Selector)
		}
	}

	for i, form := range forms {
		raw, err := form.HTML()
		if err != nil {
			continue
		}
		md, err := a.conv.ConvertString(a.policy.Sanitize(raw))
		if err != nil || strings.TrimSpace(md) == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n## Form %d markup\n\n%s\n", i+1, strings.TrimSpace(md))
	}
	return sb.String()
}

func allFields() []fieldmap.FieldType {
	fields := make([]fieldmap.FieldType, 0, len(fieldmap.UniversalFields)+10)
	fields = append(fields, fieldmap.UniversalFields...)
	fields = append(fields,
		fieldmap.Password,
		fieldmap.Facebook, fieldmap.Twitter, fieldmap.Instagram,
		fieldmap.LinkedIn, fieldmap.YouTube, fieldmap.TikTok,
		fieldmap.Category, fieldmap.Country, fieldmap.Region,
		fieldmap.Locality, fieldmap.Street,
	)
	return fields
}
