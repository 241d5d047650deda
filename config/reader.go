package config

import (
	"bytes"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Read reads a scene from the given file. Environment variables in the file are expanded
// before it is decoded.
func Read(filePath string) (*Scene, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a scene from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader) (*Scene, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scene %q", originalPath)
	}
	var scene Scene
	if err := json5.Unmarshal(buf, &scene); err != nil {
		return nil, errors.Wrapf(err, "failed to decode scene %q", originalPath)
	}
	if err := scene.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid scene %q", originalPath)
	}
	return &scene, nil
}
