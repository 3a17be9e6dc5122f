// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"

	"github.com/ManuGH/wpconf/internal/fsutil"
	"github.com/ManuGH/wpconf/internal/validate"
)

// Validate validates Settings using the centralized validation package.
func Validate(s Settings) error {
	v := validate.New()

	v.RelativePath("UploadsPath", s.UploadsPath)

	var memErr error
	if !s.MemoryLimit.Valid() {
		memErr = fmt.Errorf("%w: must be a positive size or -1", ErrInvalidMemoryLimit)
	}
	v.Check("MemoryLimit", s.MemoryLimit.Bytes(), memErr)

	return v.Err()
}

// UploadsDir resolves the uploads path under siteRoot, following symlinks,
// and fails if the result would escape siteRoot.
func (s Settings) UploadsDir(siteRoot string) (string, error) {
	dir, err := fsutil.ConfineRelPath(siteRoot, s.UploadsPath)
	if err != nil {
		return "", fmt.Errorf("uploads path %q: %w", s.UploadsPath, err)
	}
	return dir, nil
}
