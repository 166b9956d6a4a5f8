// Package zone loads zone configuration files and drives floor generation for
// a zone.
package zone

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default floor dimensions used when a zone file leaves them out.
const (
	DefaultWidth  = 56
	DefaultHeight = 32
)

// Document is a zone configuration file.
type Document struct {
	ID     string    `yaml:"id"`
	Name   string    `yaml:"name"`
	Floors int       `yaml:"floors"` // number of floors; 0 means unbounded
	Width  int       `yaml:"width,omitempty"`
	Height int       `yaml:"height,omitempty"`
	Steps  ZoneSteps `yaml:"steps"`
}

// LoadDocument reads a zone file.
func LoadDocument(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read zone file: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return doc, nil
}

// ParseDocument decodes and validates a zone file.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse zone file: %w", err)
	}
	if doc.Width == 0 {
		doc.Width = DefaultWidth
	}
	if doc.Height == 0 {
		doc.Height = DefaultHeight
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the parts of a zone the decoder cannot.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("zone has no id")
	}
	if d.Floors < 0 {
		return fmt.Errorf("zone %s: negative floor count", d.ID)
	}
	if d.Width < 3 || d.Height < 3 {
		return fmt.Errorf("zone %s: floor size %dx%d is too small", d.ID, d.Width, d.Height)
	}
	for i, s := range d.Steps {
		switch z := s.(type) {
		case *MobSpawnZoneStep:
			if z.Step != nil && z.Priority == nil {
				return fmt.Errorf("zone %s: step %d: mob placement without priority", d.ID, i)
			}
		case *ItemSpawnZoneStep:
			if z.Step != nil && z.Priority == nil {
				return fmt.Errorf("zone %s: step %d: item placement without priority", d.ID, i)
			}
		case *NameZoneStep:
			if z.Priority == nil {
				return fmt.Errorf("zone %s: step %d: name step without priority", d.ID, i)
			}
		case *SpreadZoneStep:
			if z.Step.Step == nil {
				return fmt.Errorf("zone %s: step %d: spread without a step", d.ID, i)
			}
			if z.Count.Min < 0 {
				return fmt.Errorf("zone %s: step %d: negative spread count %d", d.ID, i, z.Count.Min)
			}
		}
	}
	return nil
}

// HasFloor reports whether index is a floor of the zone.
func (d *Document) HasFloor(index int) bool {
	return index >= 0 && (d.Floors == 0 || index < d.Floors)
}
