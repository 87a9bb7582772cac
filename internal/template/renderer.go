package template

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/motortrade/notification-api/pkg/errors"
)

//go:embed templates/*.html
var embedded embed.FS

// Renderer loads named template text and performs flat placeholder
// substitution. This is deliberately not an HTML templating language: no
// loops, no escaping, no nested expressions. Callers must pre-escape
// untrusted content; emails are rendered from operator-supplied fields
// today, which is a known gap for untrusted input.
type Renderer struct {
	source fs.FS
}

// NewRenderer serves templates from the binary's embedded set.
func NewRenderer() *Renderer {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		// The embedded tree always contains templates/.
		panic(err)
	}
	return &Renderer{source: sub}
}

// NewRendererFromDir serves templates from a directory, for deployments
// that override the built-in set.
func NewRendererFromDir(dir string) *Renderer {
	return &Renderer{source: os.DirFS(filepath.Clean(dir))}
}

// Load returns the named template text.
func (r *Renderer) Load(name string) (string, error) {
	data, err := fs.ReadFile(r.source, name)
	if err != nil {
		return "", errors.TemplateNotFound(name, err)
	}
	return string(data), nil
}

// Render substitutes every {{key}} placeholder with the string form of
// bindings[key]. A nil/empty/zero binding becomes the empty string;
// placeholders with no corresponding binding are left untouched.
func (r *Renderer) Render(text string, bindings map[string]interface{}) string {
	for key, value := range bindings {
		placeholder := "{{" + key + "}}"
		replacement := ""
		if truthy(value) {
			replacement = fmt.Sprintf("%v", value)
		}
		text = strings.ReplaceAll(text, placeholder, replacement)
	}
	return text
}

// Section returns fragment unchanged when cond is truthy, else the empty
// string. Used to conditionally include HTML blocks for optional fields.
func (r *Renderer) Section(cond interface{}, fragment string) string {
	if truthy(cond) {
		return fragment
	}
	return ""
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

var placeholderPattern = regexp.MustCompile(`\{\{[a-zA-Z0-9_]+\}\}`)

// Placeholders lists the distinct {{key}} tokens present in text. Handlers
// use it in tests to keep binding sets and templates in sync.
func Placeholders(text string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, match := range placeholderPattern.FindAllString(text, -1) {
		key := match[2 : len(match)-2]
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
