package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is the catalog file format version this package reads. Files may
// omit the version key entirely.
const Version = 1

// kindPattern matches kind keys that a directive can address. Directive
// kinds are uppercase letters, lowercased before lookup, so any other key
// would be unreachable.
var kindPattern = regexp.MustCompile(`^[a-z]+$`)

type valuesFile struct {
	Version int                `yaml:"version"`
	Kinds   map[string][]Value `yaml:"kinds"`
}

type fieldsFile struct {
	Version int                `yaml:"version"`
	Kinds   map[string][]Field `yaml:"kinds"`
}

// LoadValues reads a values catalog from a YAML file.
func LoadValues(path string) (*Values, error) {
	var file valuesFile
	if err := decodeFile(path, &file); err != nil {
		return nil, err
	}
	if err := checkHeader(path, file.Version, len(file.Kinds)); err != nil {
		return nil, err
	}
	for kind, values := range file.Kinds {
		if err := checkKind(kind); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
		for i, v := range values {
			if err := checkEntry(v.Name, v.Doc); err != nil {
				return nil, fmt.Errorf("catalog %s: kind %s entry %d: %w", path, kind, i, err)
			}
		}
	}
	return NewValues(file.Kinds), nil
}

// LoadFields reads a fields catalog from a YAML file.
func LoadFields(path string) (*Fields, error) {
	var file fieldsFile
	if err := decodeFile(path, &file); err != nil {
		return nil, err
	}
	if err := checkHeader(path, file.Version, len(file.Kinds)); err != nil {
		return nil, err
	}
	for kind, fields := range file.Kinds {
		if err := checkKind(kind); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
		for i, f := range fields {
			if err := checkEntry(f.Name, f.Doc); err != nil {
				return nil, fmt.Errorf("catalog %s: kind %s entry %d: %w", path, kind, i, err)
			}
		}
	}
	return NewFields(file.Kinds), nil
}

// decodeFile reads path into out, rejecting unknown keys so a typo in a
// catalog fails loudly instead of silently dropping entries.
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return nil
}

func checkHeader(path string, version, kinds int) error {
	if version != 0 && version != Version {
		return fmt.Errorf("catalog %s: unsupported version %d", path, version)
	}
	if kinds == 0 {
		return fmt.Errorf("catalog %s: no kinds defined", path)
	}
	return nil
}

func checkKind(kind string) error {
	if !kindPattern.MatchString(kind) {
		return fmt.Errorf("kind %q must be lowercase letters", kind)
	}
	return nil
}

func checkEntry(name, doc string) error {
	if name == "" {
		return errors.New("name is required")
	}
	if strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("name %q must not span lines", name)
	}
	if doc == "" {
		return fmt.Errorf("entry %q: doc is required", name)
	}
	if strings.ContainsAny(doc, "\r\n") {
		return fmt.Errorf("entry %q: doc must be a single line", name)
	}
	return nil
}
