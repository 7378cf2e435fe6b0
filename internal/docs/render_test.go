package docs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

// seedManualGraph builds project → features → products with module files on
// disk, returning the project and the renderer's module dir.
func seedManualGraph(t *testing.T, db *gorm.DB) (*domain.Project, string) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write module %s: %v", name, err)
		}
	}
	write("gateway.md", "## Gateway\nRoutes for {{project_name}}.")
	write("portal.md", "## Portal\nEnabled: {{feature_list}}.")

	gw, err := repo.CreateProduct(ctx, db, &domain.Product{Name: "Gateway", ManualURL: "gateway.md", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	pt, err := repo.CreateProduct(ctx, db, &domain.Product{Name: "Portal", ManualURL: "portal.md", DisplayOrder: 2})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	sso, err := repo.CreateFeature(ctx, db, &domain.ProductFeature{Name: "SSO", Category: "Security"})
	if err != nil {
		t.Fatalf("create feature: %v", err)
	}
	search, err := repo.CreateFeature(ctx, db, &domain.ProductFeature{Name: "Search", Category: "General"})
	if err != nil {
		t.Fatalf("create feature: %v", err)
	}
	if err := repo.LinkFeatureProduct(ctx, db, sso.ID, gw.ID); err != nil {
		t.Fatalf("link: %v", err)
	}
	if err := repo.LinkFeatureProduct(ctx, db, search.ID, pt.ID); err != nil {
		t.Fatalf("link: %v", err)
	}

	project := seedProject(t, db, sso.ID, search.ID)
	return project, dir
}

func TestManualRenderer_AssemblesMarkdown(t *testing.T) {
	db := newDocsDB(t)
	project, dir := seedManualGraph(t, db)
	r := &ManualRenderer{DB: db, ModuleDir: dir}

	data, name, err := r.Render(context.Background(), &domain.DocumentationJob{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if name != "Atlas-rollout-user-manual.md" {
		t.Fatalf("file name = %q", name)
	}

	out := string(data)
	if !strings.HasPrefix(out, "# Atlas rollout User Manual\n") {
		t.Fatalf("missing title: %q", out)
	}
	gw := strings.Index(out, "## Gateway")
	pt := strings.Index(out, "## Portal")
	if gw < 0 || pt < 0 || gw > pt {
		t.Fatalf("modules out of display order: %q", out)
	}
	if !strings.Contains(out, "Routes for Atlas rollout.") {
		t.Fatalf("project name not substituted: %q", out)
	}
	if !strings.Contains(out, "SSO") || !strings.Contains(out, "Search") {
		t.Fatalf("feature list incomplete: %q", out)
	}
}

func TestManualRenderer_DocxWhenTemplateConfigured(t *testing.T) {
	db := newDocsDB(t)
	project, dir := seedManualGraph(t, db)

	tmplPath := filepath.Join(dir, "template.docx")
	tmpl := buildTemplate(t, `<w:p><w:r><w:t>{{DOCUMENT_CONTENT}}</w:t></w:r></w:p>`)
	if err := os.WriteFile(tmplPath, tmpl, 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	r := &ManualRenderer{DB: db, ModuleDir: dir, TemplatePath: tmplPath}
	data, name, err := r.Render(context.Background(), &domain.DocumentationJob{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if name != "Atlas-rollout-user-manual.docx" {
		t.Fatalf("file name = %q", name)
	}
	// DOCX output is a zip archive.
	if len(data) < 4 || string(data[:2]) != "PK" {
		t.Fatalf("output is not a zip: % x", data[:4])
	}
}

func TestManualRenderer_ReportsProductsWithoutModules(t *testing.T) {
	db := newDocsDB(t)
	ctx := context.Background()

	p, err := repo.CreateProduct(ctx, db, &domain.Product{Name: "Billing"})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	f, err := repo.CreateFeature(ctx, db, &domain.ProductFeature{Name: "Invoices"})
	if err != nil {
		t.Fatalf("create feature: %v", err)
	}
	if err := repo.LinkFeatureProduct(ctx, db, f.ID, p.ID); err != nil {
		t.Fatalf("link: %v", err)
	}
	project := seedProject(t, db, f.ID)

	r := &ManualRenderer{DB: db, ModuleDir: t.TempDir()}
	_, _, err = r.Render(ctx, &domain.DocumentationJob{ProjectID: project.ID})
	if err == nil || !strings.Contains(err.Error(), "Billing") {
		t.Fatalf("want error naming the product, got %v", err)
	}
}

func TestManualRenderer_NoLinkedProducts(t *testing.T) {
	db := newDocsDB(t)
	ctx := context.Background()

	f, err := repo.CreateFeature(ctx, db, &domain.ProductFeature{Name: "Orphan"})
	if err != nil {
		t.Fatalf("create feature: %v", err)
	}
	project := seedProject(t, db, f.ID)

	r := &ManualRenderer{DB: db, ModuleDir: t.TempDir()}
	if _, _, err := r.Render(ctx, &domain.DocumentationJob{ProjectID: project.ID}); err == nil {
		t.Fatal("expected error when no products are linked")
	}
}
