package binding

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vcapFixture = `{
  "p-redis": [
    {"name": "cache1", "label": "p-redis", "tags": ["redis", "key-value"], "credentials": {"uri": "redis://:secret@10.0.0.5:6379"}}
  ],
  "elephantsql": [
    {"name": "db1", "tags": ["postgres", "relational"], "credentials": {"uri": "postgres://u:p@host:5432/music"}},
    {"name": "db2", "tags": ["postgres"]}
  ]
}`

func TestHasTags(t *testing.T) {
	b := Binding{Name: "db1", Tags: []string{"postgres", "relational", "sql"}}

	tests := []struct {
		name     string
		required []string
		want     bool
	}{
		{"single tag present", []string{"postgres"}, true},
		{"subset", []string{"relational", "postgres"}, true},
		{"missing tag", []string{"mysql"}, false},
		{"partially present", []string{"postgres", "mysql"}, false},
		{"empty requirement", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.HasTags(tt.required...))
		})
	}
}

func TestURI(t *testing.T) {
	assert.Equal(t, "redis://h:1", Binding{Credentials: map[string]any{"uri": "redis://h:1"}}.URI())
	assert.Equal(t, "mongodb://h", Binding{Credentials: map[string]any{"url": " mongodb://h "}}.URI())
	assert.Equal(t, "", Binding{Credentials: map[string]any{"uri": 12}}.URI())
	assert.Equal(t, "", Binding{}.URI())
}

func TestParseVCAPServices_DeterministicOrder(t *testing.T) {
	bindings, err := ParseVCAPServices([]byte(vcapFixture))
	require.NoError(t, err)
	require.Len(t, bindings, 3)

	// Labels sorted: elephantsql before p-redis; array order kept inside a label.
	assert.Equal(t, "db1", bindings[0].Name)
	assert.Equal(t, "db2", bindings[1].Name)
	assert.Equal(t, "cache1", bindings[2].Name)
	assert.Equal(t, "elephantsql", bindings[0].Label, "label is filled from the document key")
	assert.Equal(t, "postgres://u:p@host:5432/music", bindings[0].URI())
}

func TestParseVCAPServices_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "{}"} {
		bindings, err := ParseVCAPServices([]byte(raw))
		require.NoError(t, err)
		assert.Empty(t, bindings)
	}
}

func TestParseVCAPServices_Malformed(t *testing.T) {
	_, err := ParseVCAPServices([]byte(`{"p-redis": "nope"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse VCAP_SERVICES")
}

func TestCatalog_LogsNamesOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	c := NewCatalog([]Binding{{Name: "db1"}, {Name: "db2"}}, logger)
	first := c.Bindings()
	_ = c.Bindings()

	assert.Len(t, first, 2)
	assert.Equal(t, 1, strings.Count(buf.String(), "found services"))
	assert.Contains(t, buf.String(), "names=db1,db2")
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	c := NewCatalog([]Binding{{Name: "db1"}}, slog.Default())
	got := c.Bindings()
	got[0].Name = "mutated"

	assert.Equal(t, []string{"db1"}, c.Names())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("VCAP_SERVICES", vcapFixture)

	c, err := FromEnv(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestFromEnv_Unset(t *testing.T) {
	t.Setenv("VCAP_SERVICES", "")

	c, err := FromEnv(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Bindings())
}
