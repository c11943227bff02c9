package output

import (
	"bytes"
	"strconv"
	"sync"
	"text/template"
)

// TemplateFormatter formats output using a custom Go text/template.
// The template receives the Result.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// NewTemplateFormatter creates a new template formatter with the given template string.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{
		templateStr: templateStr,
	}
}

// SetTemplate sets or updates the template string.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
	f.template = nil
}

// templateFuncs returns the custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// name renders a name, or the ID when the name is empty.
		// Usage: {{name .User .UID}}
		"name": display,

		// dash renders an empty string as "-".
		// Usage: {{dash .Group}}
		"dash": func(s string) string {
			if s == "" {
				return "-"
			}
			return s
		},

		// id formats a numeric ID.
		// Usage: {{id .GID}}
		"id": func(id uint32) string {
			return strconv.FormatUint(uint64(id), 10)
		},
	}
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.template == nil {
		tmpl, err := template.New("output").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			return err
		}
		f.template = tmpl
	}

	return f.template.Execute(w, r)
}

// defaultTemplate mirrors the `ls -l` owner and group columns.
const defaultTemplate = `{{range .Records}}{{name .User .UID}}:{{name .Group .GID}}	{{.Path}}
{{end}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(defaultTemplate)
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
