package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

// Renderer produces the finished manual document for a job.
type Renderer interface {
	Render(ctx context.Context, job *domain.DocumentationJob) (data []byte, filename string, err error)
}

// ManualRenderer assembles a manual from the per-product module fragments
// referenced by the project's features. With a DOCX template configured the
// output is a filled .docx; otherwise the assembled markdown ships as-is.
type ManualRenderer struct {
	// DB resolves the project, features, and products for a job.
	DB *gorm.DB
	// ModuleDir roots relative manual module paths.
	ModuleDir string
	// TemplatePath points at the optional DOCX template.
	TemplatePath string
}

// Render resolves the job's project to its product set, loads each product's
// manual module, and assembles the final document.
func (r *ManualRenderer) Render(ctx context.Context, job *domain.DocumentationJob) ([]byte, string, error) {
	project, err := repo.GetProject(ctx, r.DB, job.ProjectID)
	if err != nil {
		return nil, "", fmt.Errorf("load project: %w", err)
	}
	if len(project.FeaturesUsed) == 0 {
		return nil, "", ErrNoFeatures
	}

	features, err := repo.ListFeaturesByIDs(ctx, r.DB, project.FeaturesUsed)
	if err != nil {
		return nil, "", fmt.Errorf("load features: %w", err)
	}
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name)
	}

	productIDs, err := repo.ProductIDsForFeatures(ctx, r.DB, project.FeaturesUsed)
	if err != nil {
		return nil, "", fmt.Errorf("resolve products: %w", err)
	}
	products, err := repo.ListProductsByIDs(ctx, r.DB, productIDs)
	if err != nil {
		return nil, "", fmt.Errorf("load products: %w", err)
	}
	if len(products) == 0 {
		return nil, "", fmt.Errorf("no products are linked to the project's features")
	}

	fragments := make([]string, 0, len(products))
	var missing []string
	for _, p := range products {
		if strings.TrimSpace(p.ManualURL) == "" {
			missing = append(missing, p.Name)
			continue
		}
		frag, err := r.readModule(p.ManualURL)
		if err != nil {
			return nil, "", fmt.Errorf("manual module for %s: %w", p.Name, err)
		}
		fragments = append(fragments, frag)
	}
	if len(missing) > 0 {
		return nil, "", fmt.Errorf("products missing manual modules: %s", strings.Join(missing, ", "))
	}

	content := AssembleManual(project.Name, names, fragments)

	if r.TemplatePath != "" {
		tmpl, err := os.ReadFile(r.TemplatePath)
		if err != nil {
			return nil, "", fmt.Errorf("read template: %w", err)
		}
		data, err := BuildDocx(tmpl, content)
		if err != nil {
			return nil, "", err
		}
		return data, ManualFileName(project.Name, ".docx"), nil
	}
	return []byte(content), ManualFileName(project.Name, ".md"), nil
}

// readModule loads one module fragment. Relative paths resolve under
// ModuleDir; absolute paths are used verbatim.
func (r *ManualRenderer) readModule(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.ModuleDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
