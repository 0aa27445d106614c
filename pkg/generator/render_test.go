package generator

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	r := NewRenderer()
	assert.NotNil(t, r)
	assert.NotNil(t, r.funcMap)
	assert.Empty(t, r.cache)
}

func TestRenderString(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name        string
		templateStr string
		data        any
		expected    string
		wantErr     bool
		errContains string
	}{
		{
			name:        "simple template with no data",
			templateStr: "Hello World",
			expected:    "Hello World",
		},
		{
			name:        "template with struct data",
			templateStr: "include_bytes!({{ quote .Path }})",
			data:        struct{ Path string }{Path: "/out/bin/capnp"},
			expected:    `include_bytes!("/out/bin/capnp")`,
		},
		{
			name:        "replace helper",
			templateStr: `{{ replace .P "\\" "/" }}`,
			data:        map[string]any{"P": `C:\out\bin`},
			expected:    "C:/out/bin",
		},
		{
			name:        "template with syntax error",
			templateStr: "{{ .Name }",
			wantErr:     true,
			errContains: "failed to parse template",
		},
		{
			name:        "missing map key",
			templateStr: "{{ .missing }}",
			data:        map[string]any{},
			wantErr:     true,
			errContains: "failed to render template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.RenderString(tt.name, tt.templateStr, tt.data)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestRenderFS(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/hello.tmpl": {Data: []byte("Hello, {{ .Name }}!")},
	}
	r := NewRenderer()

	out, err := r.RenderFS(fsys, "templates/hello.tmpl", map[string]string{"Name": "capnp"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, capnp!", string(out))

	// Cached template survives removal from the source filesystem
	delete(fsys, "templates/hello.tmpl")
	out, err = r.RenderFS(fsys, "templates/hello.tmpl", map[string]string{"Name": "again"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, again!", string(out))

	r.ClearCache()
	_, err = r.RenderFS(fsys, "templates/hello.tmpl", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read template")
}
