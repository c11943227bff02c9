package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/fileowner/pkg/fileowner/owner"
)

func sampleResult() *Result {
	r := &Result{}
	r.Add("/tmp/baz", owner.Owner{ID: 99, Name: "nobody"}, owner.Group{ID: 99, Name: "nogroup"})
	r.Add("/srv/data", owner.Owner{ID: 321321}, owner.Group{ID: 0, Name: "root"})
	return r
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", func() Formatter { return &PlainFormatter{} })
	reg.Register("a", func() Formatter { return &JSONFormatter{} })

	assert.Equal(t, []string{"a", "b"}, reg.Available())

	f, err := reg.Get("a")
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	_, err = reg.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown formatter")
}

func TestDefaultRegistry(t *testing.T) {
	for _, name := range []string{"pretty", "plain", "json", "jsonl", "yaml", "csv", "tsv", "markdown", "template"} {
		t.Run(name, func(t *testing.T) {
			f, err := Get(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, f.Format(&buf, sampleResult()))
			assert.Contains(t, buf.String(), "/tmp/baz")
		})
	}
	assert.Contains(t, Available(), "pretty")
}

func TestRecordDisplay(t *testing.T) {
	r := sampleResult()

	assert.Equal(t, "nobody", r.Records[0].OwnerString())
	assert.Equal(t, "nogroup", r.Records[0].GroupString())
	assert.Equal(t, "321321", r.Records[1].OwnerString())
	assert.Equal(t, "root", r.Records[1].GroupString())
}

func TestResultErrors(t *testing.T) {
	r := &Result{}
	assert.False(t, r.Failed())

	r.AddError("/no/such/path", errors.New("stat /no/such/path: path not found"))
	assert.True(t, r.Failed())
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "/no/such/path", r.Errors[0].Path)
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, sampleResult()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"OWNER", "GROUP", "PATH"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"nobody", "nogroup", "/tmp/baz"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"321321", "root", "/srv/data"}, strings.Fields(lines[2]))
}

func TestJSONFormatter(t *testing.T) {
	r := sampleResult()
	r.AddError("/missing", errors.New("path not found"))

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, r))

	var got jsonOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, r.Records, got.Records)
	assert.Equal(t, 3, got.Meta.Total)
	assert.Equal(t, 1, got.Meta.Failed)

	// Names without an entry are omitted rather than empty.
	assert.NotContains(t, buf.String(), `"user": ""`)
}

func TestJSONFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, &Result{}))
	assert.Contains(t, buf.String(), `"records": []`)
}

func TestJSONLFormatter(t *testing.T) {
	r := sampleResult()
	r.AddError("/missing", errors.New("path not found"))

	var buf bytes.Buffer
	require.NoError(t, (&JSONLFormatter{}).Format(&buf, r))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, r.Records[0], rec)

	var e RecordError
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &e))
	assert.Equal(t, "/missing", e.Path)
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).Format(&buf, sampleResult()))

	var got yamlOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Records, 2)
	assert.Equal(t, "nobody", got.Records[0].User)
	assert.Equal(t, uint32(321321), got.Records[1].UID)
	assert.Empty(t, got.Records[1].User)
	assert.Equal(t, 2, got.Meta.Total)
}

func TestTSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TSVFormatter{}).Format(&buf, sampleResult()))

	assert.Equal(t,
		"PATH\tUID\tUSER\tGID\tGROUP\n"+
			"/tmp/baz\t99\tnobody\t99\tnogroup\n"+
			"/srv/data\t321321\t\t0\troot\n",
		buf.String())
}

func TestTSVFormatter_EscapesControlCharacters(t *testing.T) {
	r := &Result{}
	r.Add("/tmp/a\tb\nc\\d\re", owner.Owner{ID: 1}, owner.Group{ID: 2})

	var buf bytes.Buffer
	require.NoError(t, (&TSVFormatter{}).Format(&buf, r))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `/tmp/a\tb\nc\\d\re`+"\t1\t\t2\t", lines[1])
	assert.Len(t, strings.Split(lines[1], "\t"), len(tableHeader))
}

func TestCSVFormatter_Quoting(t *testing.T) {
	r := &Result{}
	r.Add("/tmp/a,b", owner.Owner{ID: 1, Name: "daemon"}, owner.Group{ID: 1})

	var buf bytes.Buffer
	require.NoError(t, (&CSVFormatter{}).Format(&buf, r))

	assert.Equal(t, "PATH,UID,USER,GID,GROUP\n\"/tmp/a,b\",1,daemon,1,\n", buf.String())
}

func TestMarkdownFormatter(t *testing.T) {
	r := &Result{}
	r.Add("/tmp/a|b", owner.Owner{ID: 0, Name: "root"}, owner.Group{ID: 0, Name: "root"})

	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Format(&buf, r))
	assert.Contains(t, buf.String(), `| root | root | /tmp/a\|b |`)
}

func TestTemplateFormatter(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{
			name: "default",
			tmpl: defaultTemplate,
			want: "nobody:nogroup\t/tmp/baz\n321321:root\t/srv/data\n",
		},
		{
			name: "ids",
			tmpl: `{{range .Records}}{{id .UID}}:{{id .GID}} {{end}}`,
			want: "99:99 321321:0 ",
		},
		{
			name: "dash",
			tmpl: `{{range .Records}}{{dash .User}} {{end}}`,
			want: "nobody - ",
		},
		{
			name: "count",
			tmpl: `{{len .Records}}`,
			want: "2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewTemplateFormatter(tt.tmpl).Format(&buf, sampleResult()))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestTemplateFormatter_InvalidTemplate(t *testing.T) {
	var buf bytes.Buffer
	err := NewTemplateFormatter("{{range}").Format(&buf, sampleResult())
	require.Error(t, err)
}

func TestTemplateFormatter_SetTemplate(t *testing.T) {
	f := NewTemplateFormatter("a")
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, &Result{}))

	f.SetTemplate("b")
	buf.Reset()
	require.NoError(t, f.Format(&buf, &Result{}))
	assert.Equal(t, "b", buf.String())
}

func TestPrettyFormatter(t *testing.T) {
	r := sampleResult()
	r.AddError("/missing", errors.New("stat /missing: path not found"))

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "OWNER")
	assert.Contains(t, out, "nobody")
	assert.Contains(t, out, "321321")
	assert.Contains(t, out, "/srv/data")
	assert.Contains(t, out, "stat /missing: path not found")
	assert.Contains(t, out, "Paths:")
	assert.Contains(t, out, "Unnamed IDs:")
}

func TestPrettyFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, &Result{}))
	assert.Contains(t, buf.String(), "No paths inspected")
}
