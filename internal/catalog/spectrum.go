package catalog

import (
	"path/filepath"
	"slices"
	"sync"

	"pxrd/internal/samples"
)

type loadState int

const (
	unloaded loadState = iota
	loaded
)

// Spectrum is one catalog member. Metadata fields are fixed for the lifetime
// of the object; an edit produces a new Spectrum. Samples are read from disk
// on first access and cached, including a failed read, and never refreshed.
type Spectrum struct {
	Name        string
	DisplayName string
	Description string
	Elements    []string
	Tags        []string

	sampleFile string
	samplePath string

	mu      sync.Mutex
	state   loadState
	samples samples.Samples
	loadErr error
}

func newSpectrum(dir string, d Descriptor) *Spectrum {
	elements := slices.Clone(d.Elements)
	slices.Sort(elements)
	return &Spectrum{
		Name:        d.Name,
		DisplayName: d.DisplayName,
		Description: d.Description,
		Elements:    slices.Compact(elements),
		Tags:        slices.Clone(d.Tags),
		sampleFile:  d.SampleFile,
		samplePath:  filepath.Join(dir, d.SampleFile),
	}
}

// ReadableName returns the display name when set, else the name.
func (s *Spectrum) ReadableName() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// SampleFile returns the sample container reference relative to the catalog.
func (s *Spectrum) SampleFile() string { return s.sampleFile }

// Equal reports identity by name and sample reference, not by content.
func (s *Spectrum) Equal(other *Spectrum) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Name == other.Name && s.sampleFile == other.sampleFile
}

// HasElement reports whether symbol is among the contained elements.
func (s *Spectrum) HasElement(symbol string) bool {
	_, found := slices.BinarySearch(s.Elements, symbol)
	return found
}

// HasTag reports whether tag is attached to the spectrum.
func (s *Spectrum) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// Samples loads the sample container on first call. The returned value is a
// copy the caller may modify.
func (s *Spectrum) Samples() (samples.Samples, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == unloaded {
		s.samples, s.loadErr = samples.ReadFile(s.samplePath)
		s.state = loaded
	}
	if s.loadErr != nil {
		return samples.Samples{}, s.loadErr
	}
	return s.samples.Clone(), nil
}

// Loaded reports whether the sample container has been read.
func (s *Spectrum) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == loaded
}

// X returns the Q values, or nil when the samples cannot be loaded.
func (s *Spectrum) X() []float64 {
	smp, err := s.Samples()
	if err != nil {
		return nil
	}
	return smp.X
}

// Y returns the normalized intensities, or nil when the samples cannot be loaded.
func (s *Spectrum) Y() []float64 {
	smp, err := s.Samples()
	if err != nil {
		return nil
	}
	return smp.Y
}

// Descriptor returns the persisted form of the metadata.
func (s *Spectrum) Descriptor() Descriptor {
	return Descriptor{
		Name:        s.Name,
		SampleFile:  s.sampleFile,
		Elements:    slices.Clone(s.Elements),
		Tags:        slices.Clone(s.Tags),
		Description: s.Description,
		DisplayName: s.DisplayName,
	}
}
