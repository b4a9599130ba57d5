package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeOutputPath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "inference_fixed.json")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0o600))
	require.NoError(t, os.Symlink(existing, filepath.Join(dir, "fixed-link.json")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "specs"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "specs"), filepath.Join(dir, "specs-link")))

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr string
	}{
		{name: "existing regular file", path: existing, want: existing},
		{name: "new file", path: filepath.Join(dir, "new.json"), want: filepath.Join(dir, "new.json")},
		{name: "dot-dot cleaned", path: filepath.Join(dir, "specs", "..", "out.json"), want: filepath.Join(dir, "out.json")},
		{name: "symlink to file", path: filepath.Join(dir, "fixed-link.json"), wantErr: "symlink"},
		{name: "directory", path: filepath.Join(dir, "specs"), wantErr: "directory"},
		{name: "symlink to directory", path: filepath.Join(dir, "specs-link"), wantErr: "symlink"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeOutputPath(tt.path)
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

func TestSanitizeOutputPath_Relative(t *testing.T) {
	got, err := SanitizeOutputPath("inference_fixed.json")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	assert.Equal(t, "inference_fixed.json", filepath.Base(got))
}
