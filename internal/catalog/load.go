package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskcycle/internal/domain"
	tcerrors "github.com/mrz1836/taskcycle/internal/errors"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Format identifies a catalog file encoding.
type Format string

// Supported catalog formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Document is the on-disk shape of a catalog file.
//
//	tasks:
//	  - id: 23
//	    category: TurnKnob
//	    target_position: 1
//	    instruction: Turn the knob to position 1.
type Document struct {
	Tasks []domain.TaskRecord `json:"tasks" yaml:"tasks"`
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", tcerrors.Wrapf(tcerrors.ErrUnsupportedFormat, "file %s", path)
	}
}

// ParseFormat validates a user-supplied format name. An empty name means
// "infer from the file extension" and is returned unchanged.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", tcerrors.Wrapf(tcerrors.ErrUnsupportedFormat, "format %q", name)
	}
}

// Parse decodes a catalog document. Unknown fields are rejected so that a
// misspelled target_position does not silently turn an axis task into a
// simple one. An empty YAML document decodes to no records.
func Parse(data []byte, format Format) ([]domain.TaskRecord, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s", tcerrors.ErrCatalogParse, err.Error())
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %s", tcerrors.ErrCatalogParse, err.Error())
		}
	default:
		return nil, tcerrors.Wrapf(tcerrors.ErrUnsupportedFormat, "format %q", format)
	}
	return doc.Tasks, nil
}

// Load reads, parses and indexes the catalog file at path. An empty format
// is inferred from the extension.
func Load(path string, format Format, opts ...Option) (*Catalog, error) {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path) //#nosec G304 -- path is chosen by the operator
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tcerrors.Wrapf(tcerrors.ErrCatalogNotFound, "%s", path)
		}
		return nil, tcerrors.Wrapf(err, "failed to read catalog %s", path)
	}

	records, err := Parse(data, format)
	if err != nil {
		return nil, tcerrors.Wrapf(err, "catalog %s", path)
	}

	cat, err := New(records, opts...)
	if err != nil {
		return nil, tcerrors.Wrapf(err, "catalog %s", path)
	}
	return cat, nil
}

// Default returns the built-in BusyBox catalog: wire, button, switch,
// reposition and box tasks, a six-position knob and two five-position
// sliders split into "top" and "bottom" axes.
func Default(opts ...Option) (*Catalog, error) {
	records, err := Parse(defaultCatalogYAML, FormatYAML)
	if err != nil {
		return nil, tcerrors.Wrap(err, "built-in catalog")
	}
	return New(records, opts...)
}
