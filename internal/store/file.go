package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"honnef.co/go/curve"
)

type fileRecord struct {
	StartX   float64 `yaml:"start_x"`
	StartY   float64 `yaml:"start_y"`
	ControlX float64 `yaml:"control_x"`
	ControlY float64 `yaml:"control_y"`
	EndX     float64 `yaml:"end_x"`
	EndY     float64 `yaml:"end_y"`
}

type fileFormat struct {
	Name       string       `yaml:"name,omitempty"`
	Connectors []fileRecord `yaml:"connectors"`
}

// Marshal encodes the live records as YAML.
func (s *Store) Marshal(name string) ([]byte, error) {
	f := fileFormat{Name: name}
	for _, seg := range s.Segments() {
		f.Connectors = append(f.Connectors, fileRecord{
			StartX: seg.Start.X, StartY: seg.Start.Y,
			ControlX: seg.Control.X, ControlY: seg.Control.Y,
			EndX: seg.End.X, EndY: seg.End.Y,
		})
	}
	return yaml.Marshal(&f)
}

// Unmarshal decodes YAML produced by Marshal and restores it into the store.
func (s *Store) Unmarshal(b []byte) (string, error) {
	var f fileFormat
	if err := yaml.Unmarshal(b, &f); err != nil {
		return "", fmt.Errorf("decode curve: %w", err)
	}
	segs := make([]Segment, 0, len(f.Connectors))
	for _, r := range f.Connectors {
		segs = append(segs, Segment{
			Start:   curve.Pt(r.StartX, r.StartY),
			Control: curve.Pt(r.ControlX, r.ControlY),
			End:     curve.Pt(r.EndX, r.EndY),
		})
	}
	if err := Validate(segs); err != nil {
		return "", err
	}
	s.Restore(segs)
	return f.Name, nil
}

func (s *Store) Save(path, name string) error {
	b, err := s.Marshal(name)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Load reads a curve file into the store and returns the curve's name.
func (s *Store) Load(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	name, err := s.Unmarshal(b)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return name, nil
}

// Validate checks that segs form a contiguous curve over [0,1] that fits in
// a Store.
func Validate(segs []Segment) error {
	switch {
	case len(segs) == 0:
		return fmt.Errorf("curve has no segments")
	case len(segs) > MaxConnectors:
		return fmt.Errorf("curve has %d segments, limit is %d", len(segs), MaxConnectors)
	case segs[0].Start.X != 0:
		return fmt.Errorf("curve starts at x=%g, want 0", segs[0].Start.X)
	case segs[len(segs)-1].End.X != 1:
		return fmt.Errorf("curve ends at x=%g, want 1", segs[len(segs)-1].End.X)
	}
	for i, seg := range segs {
		if seg.End.X <= seg.Start.X {
			return fmt.Errorf("segment %d does not advance in x", i)
		}
		if i > 0 && seg.Start != segs[i-1].End {
			return fmt.Errorf("segment %d does not start where segment %d ends", i, i-1)
		}
	}
	return nil
}
