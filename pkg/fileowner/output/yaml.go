package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// yamlOutput mirrors the JSON document.
type yamlOutput struct {
	Records []Record      `yaml:"records"`
	Errors  []RecordError `yaml:"errors,omitempty"`
	Meta    yamlMeta      `yaml:"meta"`
}

type yamlMeta struct {
	Total  int `yaml:"total"`
	Failed int `yaml:"failed"`
}

// YAMLFormatter formats output as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	records := r.Records
	if records == nil {
		records = []Record{}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(yamlOutput{
		Records: records,
		Errors:  r.Errors,
		Meta: yamlMeta{
			Total:  len(r.Records) + len(r.Errors),
			Failed: len(r.Errors),
		},
	}); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
