// internal/hero/hero.go
//
// Hero records and the dataset they live in.
// Defines:
//   - Hero: one guessable entity (name + comparable attributes + display refs).
//   - Attributes: the fixed, ordered set of attributes compared on every guess.
//   - Dataset: the ordered, read-only hero list with lookup helpers.

package hero

import "strings"

// Hero is a single entry of the dataset. Attribute fields are free-form strings;
// an empty string means the value is absent/unknown.
type Hero struct {
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Species  string `json:"species,omitempty"`
	Resource string `json:"resource,omitempty"`
	Range    string `json:"range,omitempty"`
	Region   string `json:"region,omitempty"`
	Lane     string `json:"lane,omitempty"`
	Year     string `json:"year,omitempty"`

	// Display-only references, never compared.
	IconURL     string `json:"iconUrl,omitempty"`
	PortraitURL string `json:"portraitUrl,omitempty"`
}

// Attribute names, in the order feedback is reported.
const (
	AttrRole     = "role"
	AttrSpecies  = "species"
	AttrResource = "resource"
	AttrRange    = "range"
	AttrRegion   = "region"
	AttrLane     = "lane"
	AttrYear     = "year"
)

// Attributes is the fixed comparison set.
var Attributes = []string{AttrRole, AttrSpecies, AttrResource, AttrRange, AttrRegion, AttrLane, AttrYear}

// Attr returns the value of the named attribute ("" for unknown names).
func (h Hero) Attr(name string) string {
	switch name {
	case AttrRole:
		return h.Role
	case AttrSpecies:
		return h.Species
	case AttrResource:
		return h.Resource
	case AttrRange:
		return h.Range
	case AttrRegion:
		return h.Region
	case AttrLane:
		return h.Lane
	case AttrYear:
		return h.Year
	}
	return ""
}

// Key is the lower-cased name used for history and equality checks.
func (h Hero) Key() string { return strings.ToLower(h.Name) }

// Is reports case-insensitive name equality.
func (h Hero) Is(other Hero) bool { return h.Key() == other.Key() }

// SuggestLimit caps the number of live suggestions returned for a prefix.
const SuggestLimit = 8

// Dataset is the ordered hero list. It is loaded once and never mutated.
type Dataset []Hero

// Names returns hero names in dataset order.
func (d Dataset) Names() []string {
	out := make([]string, len(d))
	for i, h := range d {
		out[i] = h.Name
	}
	return out
}

// Find returns the first hero whose lower-cased name equals key.
// key is expected to be trimmed and lower-cased already.
func (d Dataset) Find(key string) (Hero, bool) {
	for _, h := range d {
		if h.Key() == key {
			return h, true
		}
	}
	return Hero{}, false
}

// Suggest returns up to limit heroes whose name starts with prefix
// (case-insensitive), in dataset order. An empty prefix yields nothing.
func (d Dataset) Suggest(prefix string, limit int) []Hero {
	p := strings.ToLower(strings.TrimSpace(prefix))
	out := []Hero{}
	if p == "" || limit <= 0 {
		return out
	}
	for _, h := range d {
		if strings.HasPrefix(h.Key(), p) {
			out = append(out, h)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
