package report

import (
	"strings"
	"testing"

	"github.com/jawadgarzaldeen1/filling-sub001/dom/htmldoc"
	"github.com/jawadgarzaldeen1/filling-sub001/fieldmap"
)

const auditPage = `<html><body>
<form>
  <label for="email">Email</label>
  <input type="email" name="email" id="email" placeholder="you@example.com">
  <input type="tel" name="phone" id="phone">
  <script>alert("never rendered")</script>
</form>
<input type="text" name="orphan">
</body></html>`

func TestAudit(t *testing.T) {
	doc, err := htmldoc.ParseString(auditPage)
	if err != nil {
		t.Fatal(err)
	}
	doc.SetOrigin("https://post.example.com/listing")

	rep, err := New(fieldmap.Defaults()).Audit(doc)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(rep.ID, "audit_") {
		t.Fatalf("report id = %q", rep.ID)
	}
	if rep.Forms != 1 {
		t.Fatalf("forms = %d, want 1", rep.Forms)
	}
	if len(rep.Controls) != 3 {
		t.Fatalf("controls = %d, want 3", len(rep.Controls))
	}

	var sawEmail bool
	for _, fc := range rep.Fields {
		if fc.Field == fieldmap.Email {
			sawEmail = true
			if len(fc.Candidates) == 0 {
				t.Fatal("email field has no candidates")
			}
			if fc.Candidates[0].Identity.Name != "email" {
				t.Fatalf("top email candidate = %+v", fc.Candidates[0].Identity)
			}
		}
	}
	if !sawEmail {
		t.Fatal("email field missing from report")
	}

	if !strings.Contains(rep.Markdown, "post.example.com") {
		t.Fatalf("markdown missing origin:\n%s", rep.Markdown)
	}
	if strings.Contains(rep.Markdown, "never rendered") {
		t.Fatal("script content leaked through sanitizer")
	}
}

func TestAuditEmptyPage(t *testing.T) {
	doc, err := htmldoc.ParseString(`<html><body><p>nothing here</p></body></html>`)
	if err != nil {
		t.Fatal(err)
	}

	rep, err := New(fieldmap.Defaults()).Audit(doc)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Forms != 0 || len(rep.Controls) != 0 || len(rep.Fields) != 0 {
		t.Fatalf("expected empty report, got %+v", rep)
	}
}
