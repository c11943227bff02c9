package output

import (
	"bytes"
	"encoding/json"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Records []Record      `json:"records"`
	Errors  []RecordError `json:"errors,omitempty"`
	Meta    jsonMeta      `json:"meta"`
}

// jsonMeta summarises the result.
type jsonMeta struct {
	Total  int `json:"total"`
	Failed int `json:"failed"`
}

// JSONFormatter formats output as a single indented JSON object with
// records, errors and meta sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	records := r.Records
	if records == nil {
		records = []Record{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonOutput{
		Records: records,
		Errors:  r.Errors,
		Meta: jsonMeta{
			Total:  len(r.Records) + len(r.Errors),
			Failed: len(r.Errors),
		},
	})
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON, one compact
// object per path. Failed paths are written as {"path","error"} objects
// after the records, which suits streaming through jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	for _, rec := range r.Records {
		if err := encoder.Encode(rec); err != nil {
			return err
		}
	}
	for _, e := range r.Errors {
		if err := encoder.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
