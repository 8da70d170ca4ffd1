package docx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateName is the file name looked up by ResolveTemplate.
const TemplateName = "Aarsrapport-plan_MAL.docx"

// ErrTemplate matches every template failure.
var ErrTemplate = errors.New("template error")

// TemplateError reports a template that cannot be used, either because it
// is malformed or because required placeholders are missing.
type TemplateError struct {
	Path    string
	Missing []string
	Err     error
}

func (e *TemplateError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("template %s is missing required placeholders: %s", e.Path, strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("template %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("template %s is invalid", e.Path)
}

func (e *TemplateError) Is(target error) bool { return target == ErrTemplate }

func (e *TemplateError) Unwrap() error { return e.Err }

// Renderer renders report templates to disk.
type Renderer struct {
	// Required lists placeholders a template must declare before it is
	// rendered.
	Required []string
	Logger   *zap.Logger
}

// NewRenderer returns a Renderer that insists on the required keys.
func NewRenderer(required []string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{Required: required, Logger: logger}
}

// Render fills templatePath with values and writes the document to
// outputPath. Output is written to a temporary file in the same directory
// and renamed into place, so a failed render leaves nothing behind.
func (r *Renderer) Render(ctx context.Context, templatePath, outputPath string, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t, err := Open(templatePath)
	if err != nil {
		return err
	}
	if missing := t.Missing(r.Required); len(missing) > 0 {
		return &TemplateError{Path: templatePath, Missing: missing}
	}
	r.logger().Debug("template parsed",
		zap.String("template", templatePath),
		zap.Int("placeholders", len(t.Placeholders())),
	)

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp := filepath.Join(dir, "."+uuid.NewString()+".docx.tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := t.Render(f, values); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("rendering %s: %w", templatePath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("moving output into place: %w", err)
	}
	return nil
}

func (r *Renderer) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// ResolveTemplate returns the path of the report template in dir.
func ResolveTemplate(dir string) (string, error) {
	p := filepath.Join(dir, TemplateName)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", &TemplateError{
			Path: dir,
			Err:  fmt.Errorf("no template found, expected a file named %s", TemplateName),
		}
	}
	return p, nil
}
