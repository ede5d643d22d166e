package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pxrd/internal/fileutil"
)

const (
	descriptorExt = ".meta"
	sampleExt     = ".xy.zst"
)

// Descriptor is the persisted metadata record of one spectrum.
type Descriptor struct {
	Name        string   `yaml:"name" json:"name"`
	SampleFile  string   `yaml:"sample_file" json:"sample_file"`
	Elements    []string `yaml:"contained_elements" json:"contained_elements"`
	Tags        []string `yaml:"tags" json:"tags"`
	Description string   `yaml:"description" json:"description"`
	DisplayName string   `yaml:"display_name,omitempty" json:"display_name,omitempty"`
}

func descriptorFileName(name string) string { return name + descriptorExt }

func sampleFileName(name string) string { return name + sampleExt }

// readDescriptor parses the descriptor at path and checks that it agrees with
// its file name.
func readDescriptor(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, err
	}
	var d Descriptor
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return Descriptor{}, fmt.Errorf("%s: descriptor is empty", filepath.Base(path))
		}
		return Descriptor{}, fmt.Errorf("%s: parse descriptor: %w", filepath.Base(path), err)
	}
	if err := d.validate(strings.TrimSuffix(filepath.Base(path), descriptorExt)); err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return d, nil
}

func (d Descriptor) validate(stem string) error {
	if d.Name != stem {
		return fmt.Errorf("descriptor name %q does not match file name", d.Name)
	}
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	ref := d.SampleFile
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return fmt.Errorf("sample_file %q is not a plain file name", ref)
	}
	return nil
}

func encodeDescriptor(d Descriptor) func(io.Writer) error {
	if d.Elements == nil {
		d.Elements = []string{}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode descriptor: %w", err)
		}
		return enc.Close()
	}
}

// Swapped in tests to simulate write failures.
var (
	writeDescriptor  = replaceDescriptor
	createDescriptor = newDescriptorFile
)

// replaceDescriptor replaces the descriptor at path atomically.
func replaceDescriptor(path string, d Descriptor) error {
	return fileutil.WriteAtomic(path, 0o644, encodeDescriptor(d))
}

// newDescriptorFile writes a new descriptor, refusing to replace one.
func newDescriptorFile(path string, d Descriptor) error {
	return fileutil.CreateAtomic(path, 0o644, encodeDescriptor(d))
}
