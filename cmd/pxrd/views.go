package main

import (
	"os"
	"path/filepath"
	"strings"

	"pxrd/internal/catalog"
)

type spectrumView struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name,omitempty"`
	Description string   `json:"description"`
	Elements    []string `json:"contained_elements"`
	Tags        []string `json:"tags"`
	SampleFile  string   `json:"sample_file"`
	Points      int      `json:"points,omitempty"`
	QMin        float64  `json:"q_min,omitempty"`
	QMax        float64  `json:"q_max,omitempty"`
	SampleBytes int64    `json:"sample_bytes,omitempty"`
}

func newSpectrumView(sp *catalog.Spectrum) spectrumView {
	d := sp.Descriptor()
	view := spectrumView{
		Name:        d.Name,
		DisplayName: d.DisplayName,
		Description: d.Description,
		Elements:    d.Elements,
		Tags:        d.Tags,
		SampleFile:  d.SampleFile,
	}
	if view.Elements == nil {
		view.Elements = []string{}
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}
	return view
}

// withSampleDetails loads the samples and stats the container file.
func (v spectrumView) withSampleDetails(store *catalog.Store, sp *catalog.Spectrum) (spectrumView, error) {
	smp, err := sp.Samples()
	if err != nil {
		return v, err
	}
	v.Points = smp.Len()
	v.QMin, v.QMax = smp.Range()
	if info, err := os.Stat(filepath.Join(store.Dir(), sp.SampleFile())); err == nil {
		v.SampleBytes = info.Size()
	}
	return v, nil
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
