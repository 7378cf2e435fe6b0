package docs

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestSubstituteVars(t *testing.T) {
	vars := map[string]string{"project_name": "Atlas", "date": "2026-08-31"}

	got := SubstituteVars("{{project_name}} built on {{ date }}", vars)
	if got != "Atlas built on 2026-08-31" {
		t.Fatalf("got %q", got)
	}

	// Unknown markers stay visible instead of vanishing.
	got = SubstituteVars("hello {{missing}}", vars)
	if got != "hello {{missing}}" {
		t.Fatalf("got %q", got)
	}
}

func TestAssembleManual_JoinsFragmentsInOrder(t *testing.T) {
	out := AssembleManual("Atlas", []string{"SSO"}, []string{
		"## Gateway\nUse {{project_name}}.",
		"## Portal\nFeatures: {{feature_list}}.",
	})

	if !strings.HasPrefix(out, "# Atlas User Manual\n") {
		t.Fatalf("missing title: %q", out)
	}
	gw := strings.Index(out, "## Gateway")
	pt := strings.Index(out, "## Portal")
	if gw < 0 || pt < 0 || gw > pt {
		t.Fatalf("fragments out of order: %q", out)
	}
	if !strings.Contains(out, "Use Atlas.") || !strings.Contains(out, "Features: SSO.") {
		t.Fatalf("variables not substituted: %q", out)
	}
	if !strings.Contains(out, "\n---\n") {
		t.Fatalf("missing fragment separator: %q", out)
	}
}

func TestManualFileName(t *testing.T) {
	cases := []struct {
		name string
		ext  string
		want string
	}{
		{"Atlas", ".docx", "Atlas-user-manual.docx"},
		{"My  Project! v2", ".docx", "My-Project-v2-user-manual.docx"},
		{"---", ".md", "project-user-manual.md"},
		{"Καμπάνια 2026", ".md", "2026-user-manual.md"},
	}
	for _, tc := range cases {
		if got := ManualFileName(tc.name, tc.ext); got != tc.want {
			t.Fatalf("ManualFileName(%q) = %q; want %q", tc.name, got, tc.want)
		}
	}
}

// buildTemplate assembles a minimal DOCX-shaped zip for template tests.
func buildTemplate(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   documentXML,
		"word/styles.xml":     `<styles/>`,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestBuildDocx_FillsPlaceholderAndKeepsOtherEntries(t *testing.T) {
	tmpl := buildTemplate(t, `<w:p><w:r><w:t>{{DOCUMENT_CONTENT}}</w:t></w:r></w:p>`)

	out, err := BuildDocx(tmpl, "Line <1>\nLine 2 & done")
	if err != nil {
		t.Fatalf("BuildDocx: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}

	var doc string
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name == "word/document.xml" {
			rc, _ := f.Open()
			data, _ := io.ReadAll(rc)
			rc.Close()
			doc = string(data)
		}
	}
	if !names["[Content_Types].xml"] || !names["word/styles.xml"] {
		t.Fatalf("template entries dropped: %v", names)
	}
	if strings.Contains(doc, "{{DOCUMENT_CONTENT}}") {
		t.Fatalf("placeholder not replaced: %q", doc)
	}
	if !strings.Contains(doc, "Line &lt;1&gt;") || !strings.Contains(doc, "&amp; done") {
		t.Fatalf("XML escaping missing: %q", doc)
	}
	if !strings.Contains(doc, "<w:br/>") {
		t.Fatalf("newline not converted to line break: %q", doc)
	}
}

func TestBuildDocx_MissingMarker(t *testing.T) {
	tmpl := buildTemplate(t, `<w:p><w:r><w:t>static</w:t></w:r></w:p>`)
	if _, err := BuildDocx(tmpl, "content"); err == nil {
		t.Fatal("expected error for template without marker")
	}
}

func TestBuildDocx_NotAZip(t *testing.T) {
	if _, err := BuildDocx([]byte("not a zip"), "c"); err == nil {
		t.Fatal("expected error for invalid template")
	}
}
