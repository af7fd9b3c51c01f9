package endpoint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Endpoint
		wantErr string
	}{
		{
			name:  "plain path",
			input: "/v1/health\n",
			want:  []Endpoint{{Path: "/v1/health", ExpectedStatus: 200}},
		},
		{
			name:  "auth token",
			input: "/v1/items auth\n",
			want:  []Endpoint{{Path: "/v1/items", RequiresAuth: true, ExpectedStatus: 200}},
		},
		{
			name:  "requires_auth alias",
			input: "/v1/items REQUIRES_AUTH\n",
			want:  []Endpoint{{Path: "/v1/items", RequiresAuth: true, ExpectedStatus: 200}},
		},
		{
			name:  "status override",
			input: "/v1/missing status=404\n",
			want:  []Endpoint{{Path: "/v1/missing", ExpectedStatus: 404}},
		},
		{
			name:  "auth and status combined",
			input: "/v1/admin auth status=403\n",
			want:  []Endpoint{{Path: "/v1/admin", RequiresAuth: true, ExpectedStatus: 403}},
		},
		{
			name:  "comments and blank lines",
			input: "# full line comment\n\n/v1/health # trailing comment\n   \n/v1/items auth\n",
			want: []Endpoint{
				{Path: "/v1/health", ExpectedStatus: 200},
				{Path: "/v1/items", RequiresAuth: true, ExpectedStatus: 200},
			},
		},
		{
			name:  "only comments yields no endpoints",
			input: "# nothing here\n# still nothing\n",
			want:  nil,
		},
		{
			name:    "unknown token",
			input:   "/v1/health bogus\n",
			wantErr: `unknown token "bogus"`,
		},
		{
			name:    "malformed status",
			input:   "/v1/health status=abc\n",
			wantErr: "invalid status token",
		},
		{
			name:    "status out of range",
			input:   "/v1/health status=42\n",
			wantErr: "line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReader(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paths.txt")
	content := "/v1/health\n/v1/items auth status=401\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	endpoints, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, endpoints, 2)
	assert.Equal(t, "/v1/items", endpoints[1].Path)
	assert.True(t, endpoints[1].RequiresAuth)
	assert.Equal(t, 401, endpoints[1].ExpectedStatus)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestFromPaths(t *testing.T) {
	endpoints := FromPaths([]string{"/a", "/b"})
	require.Len(t, endpoints, 2)
	for _, ep := range endpoints {
		assert.Equal(t, 200, ep.ExpectedStatus)
		assert.False(t, ep.RequiresAuth)
	}
}

func TestEndpointValidate(t *testing.T) {
	assert.NoError(t, New("/v1/health").Validate())
	assert.Error(t, Endpoint{Path: "", ExpectedStatus: 200}.Validate())
	assert.Error(t, Endpoint{Path: "/x", ExpectedStatus: 9000}.Validate())
}
