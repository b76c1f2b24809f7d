package bundle

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

// Format is a bundle file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from the file extension. Unknown
// extensions are JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Encode serializes b.
func Encode(b *Bundle, format Format) ([]byte, error) {
	b.normalize()
	switch format {
	case FormatYAML:
		return fileutil.MarshalYAML(b)
	case FormatTOML:
		return fileutil.MarshalTOML(b)
	case FormatJSON, "":
		return fileutil.MarshalJSON(b)
	default:
		return nil, errors.Newf("unsupported bundle format %q", format)
	}
}

// Decode parses a bundle and checks its schema version. Every failure is
// marked errors.ErrMalformedConfig.
func Decode(data []byte, format Format) (*Bundle, error) {
	var (
		b   Bundle
		err error
	)
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &b)
	case FormatTOML:
		err = toml.Unmarshal(data, &b)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&b)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decoding %s bundle", format), errors.ErrMalformedConfig)
	}

	if b.MCPConfig == nil {
		return nil, errors.Wrap(errors.ErrMalformedConfig, "bundle has no mcp_config")
	}
	if err := b.CheckVersion(); err != nil {
		return nil, err
	}
	if _, err := b.Registry(); err != nil {
		return nil, err
	}
	b.normalize()
	return &b, nil
}

// ReadFile reads and decodes the bundle at path.
func ReadFile(path string) (*Bundle, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, errors.Mark(err, errors.ErrNotFound)
		case errors.Is(err, fileutil.ErrFileTooLarge):
			return nil, errors.Mark(err, errors.ErrMalformedConfig)
		}
		return nil, err
	}
	b, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return b, nil
}

// WriteFile encodes b by path extension and writes it atomically.
func WriteFile(path string, b *Bundle) error {
	b.normalize()
	switch FormatFromPath(path) {
	case FormatYAML:
		return fileutil.AtomicWriteYAML(path, b)
	case FormatTOML:
		return fileutil.AtomicWriteTOML(path, b)
	default:
		return fileutil.AtomicWriteJSON(path, b)
	}
}
