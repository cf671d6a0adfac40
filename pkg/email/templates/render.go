package templates

import (
	"context"
	"errors"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	ErrInvalidTemplateName = errors.New("templates.errors.invalid_template_name")
	ErrTemplateNotFound    = errors.New("templates.errors.template_not_found")
)

var placeholderRegex = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_\-]+)\s*\}\}`)

// Render takes a templ.Component and renders it to a string.
func Render(ctx context.Context, tpl templ.Component) (string, error) {
	var sb strings.Builder
	err := tpl.Render(ctx, &sb)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// File returns a component that renders <dir>/<name>.html with every {{key}}
// placeholder replaced by the HTML-escaped value from vars. Placeholders
// without a value are left untouched.
func File(dir, name string, vars map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := validateName(name); err != nil {
			return err
		}

		raw, err := os.ReadFile(filepath.Join(dir, name+".html"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return errors.Join(ErrTemplateNotFound, err)
			}
			return err
		}

		out := placeholderRegex.ReplaceAllStringFunc(string(raw), func(m string) string {
			key := placeholderRegex.FindStringSubmatch(m)[1]
			v, ok := vars[key]
			if !ok {
				return m
			}
			return html.EscapeString(v)
		})

		_, err = io.WriteString(w, out)
		return err
	})
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidTemplateName
	}
	return nil
}
