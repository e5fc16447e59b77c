// internal/dataset/dataset.go
//
// Loads the hero dataset.
//
// Sources:
//   - JSON file: an array of records with the keys name, role, species, resource,
//     range, region, lane, year, icon_url, portrait_url.
//   - YAML file: the same records as a YAML sequence.
//   - Embedded default (assets/heroes.json) when nothing is configured.
//   - SQLite (see sqlite.go).
//
// Attribute values may be strings, numbers or null; numbers become their shortest
// decimal form ("2009"), null and blanks become absent ("").
//
// Every source is validated: at least one hero, every hero named, names unique
// ignoring case.

package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/heroguess/assets"
	"github.com/robalobadob/heroguess/internal/hero"
)

var (
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrMissingName   = errors.New("hero entry missing name")
	ErrDuplicateName = errors.New("duplicate hero name")
)

// Format is a dataset file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported dataset extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// value is a lenient attribute scalar.
type value string

func (v *value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = value(strings.TrimSpace(s))
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("attribute must be a string, number or null, got %s", b)
	}
	*v = value(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

func (v *value) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: attribute must be a scalar", n.Line)
	}
	if n.Tag == "!!null" {
		*v = ""
		return nil
	}
	*v = value(strings.TrimSpace(n.Value))
	return nil
}

type record struct {
	Name        value `json:"name" yaml:"name"`
	Role        value `json:"role" yaml:"role"`
	Species     value `json:"species" yaml:"species"`
	Resource    value `json:"resource" yaml:"resource"`
	Range       value `json:"range" yaml:"range"`
	Region      value `json:"region" yaml:"region"`
	Lane        value `json:"lane" yaml:"lane"`
	Year        value `json:"year" yaml:"year"`
	IconURL     value `json:"icon_url" yaml:"icon_url"`
	PortraitURL value `json:"portrait_url" yaml:"portrait_url"`
}

func (r record) hero() hero.Hero {
	return hero.Hero{
		Name:        string(r.Name),
		Role:        string(r.Role),
		Species:     string(r.Species),
		Resource:    string(r.Resource),
		Range:       string(r.Range),
		Region:      string(r.Region),
		Lane:        string(r.Lane),
		Year:        string(r.Year),
		IconURL:     string(r.IconURL),
		PortraitURL: string(r.PortraitURL),
	}
}

// Decode reads a dataset in the given format and validates it.
func Decode(r io.Reader, format Format) (hero.Dataset, error) {
	var recs []record
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&recs); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&recs); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown dataset format %q", format)
	}

	ds := make(hero.Dataset, 0, len(recs))
	for _, rec := range recs {
		ds = append(ds, rec.hero())
	}
	if err := Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// LoadFile reads a JSON or YAML dataset file.
func LoadFile(path string) (hero.Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// LoadDefault decodes the embedded dataset.
func LoadDefault() (hero.Dataset, error) {
	b, err := assets.DefaultDataset()
	if err != nil {
		return nil, fmt.Errorf("read embedded dataset: %w", err)
	}
	ds, err := Decode(bytes.NewReader(b), FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", err)
	}
	return ds, nil
}

// Validate enforces the dataset invariants.
func Validate(ds hero.Dataset) error {
	if len(ds) == 0 {
		return ErrEmptyDataset
	}
	seen := make(map[string]int, len(ds))
	for i, h := range ds {
		if strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("%w (entry %d)", ErrMissingName, i+1)
		}
		if j, ok := seen[h.Key()]; ok {
			return fmt.Errorf("%w: %q (entries %d and %d)", ErrDuplicateName, h.Name, j+1, i+1)
		}
		seen[h.Key()] = i
	}
	return nil
}
