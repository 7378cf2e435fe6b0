package docs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// contentPlaceholder is the marker inside the DOCX template's document body
// that gets replaced with the assembled manual text.
const contentPlaceholder = "{{DOCUMENT_CONTENT}}"

var varRE = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// SubstituteVars replaces every {{name}} marker in text with its value from
// vars. Unknown markers are left in place so missing data stays visible in
// the output instead of silently vanishing.
func SubstituteVars(text string, vars map[string]string) string {
	return varRE.ReplaceAllStringFunc(text, func(m string) string {
		key := varRE.FindStringSubmatch(m)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return m
	})
}

// ManualVars builds the substitution map shared by every module fragment.
func ManualVars(projectName string, featureNames []string) map[string]string {
	return map[string]string{
		"project_name": projectName,
		"feature_list": strings.Join(featureNames, ", "),
		"date":         time.Now().UTC().Format("2006-01-02"),
	}
}

// AssembleManual concatenates the per-product module fragments in catalog
// order, applies variable substitution, and returns the manual body as
// markdown. Each fragment is separated by a horizontal rule so product
// sections stay visually distinct.
func AssembleManual(projectName string, featureNames []string, fragments []string) string {
	vars := ManualVars(projectName, featureNames)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s User Manual\n\n", projectName)
	for i, frag := range fragments {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		b.WriteString(strings.TrimSpace(SubstituteVars(frag, vars)))
	}
	b.WriteString("\n")
	return b.String()
}

// BuildDocx fills a DOCX template with the assembled content. The template is
// a regular DOCX archive whose word/document.xml carries the
// {{DOCUMENT_CONTENT}} marker; every other archive entry is copied through
// unchanged so styles, headers, and media survive.
func BuildDocx(template []byte, content string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	replaced := false

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("read template entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read template entry %s: %w", f.Name, err)
		}

		if f.Name == "word/document.xml" && bytes.Contains(data, []byte(contentPlaceholder)) {
			data = bytes.Replace(data, []byte(contentPlaceholder), []byte(docxEscape(content)), 1)
			replaced = true
		}

		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("write template entry %s: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write template entry %s: %w", f.Name, err)
		}
	}

	if !replaced {
		return nil, fmt.Errorf("template is missing the %s marker", contentPlaceholder)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize document: %w", err)
	}
	return out.Bytes(), nil
}

// docxEscape makes plain text safe inside a <w:t> run: XML entities are
// escaped and newlines become explicit line breaks.
func docxEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	escaped := r.Replace(s)
	return strings.ReplaceAll(escaped, "\n", `</w:t><w:br/><w:t xml:space="preserve">`)
}

var unsafeFileRE = regexp.MustCompile(`[^A-Za-z0-9]+`)

// ManualFileName derives the download filename from a project name: runs of
// non-alphanumeric characters collapse to single hyphens and the manual
// suffix plus extension are appended.
func ManualFileName(projectName, ext string) string {
	base := strings.Trim(unsafeFileRE.ReplaceAllString(projectName, "-"), "-")
	if base == "" {
		base = "project"
	}
	return base + "-user-manual" + ext
}
