// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/wpconf/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(Defaults()))
}

func TestValidate_UploadsPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"default", "wp-content/media-files", false},
		{"single segment", "uploads", false},
		{"empty", "", true},
		{"absolute", "/var/www/uploads", true},
		{"traversal", "wp-content/../../etc", true},
		{"backslash", `wp-content\uploads`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			s.UploadsPath = tt.path
			err := Validate(s)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr validate.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "UploadsPath", verr.Errors()[0].Field)
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	s := Defaults()
	s.UploadsPath = ""
	s.MemoryLimit = 0

	err := Validate(s)
	var verr validate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors(), 2)
}

func TestSettings_UploadsDir(t *testing.T) {
	root := t.TempDir()
	s := Defaults()

	dir, err := s.UploadsDir(root)
	require.NoError(t, err)
	realRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realRoot, "wp-content", "media-files"), dir)
}

func TestSettings_UploadsDirRejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "wp-content"), 0o750))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "wp-content", "media-files")))

	_, err := Defaults().UploadsDir(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes root")
}
