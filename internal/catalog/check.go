package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pxrd/internal/fileutil"
	"pxrd/internal/metrics"
)

// Problem describes one inconsistency found by Check.
type Problem struct {
	File   string `json:"file"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Problem kinds reported by Check.
const (
	ProblemUnreadable     = "unreadable_descriptor"
	ProblemMissingSamples = "missing_sample_file"
	ProblemUnreferenced   = "unreferenced_sample_file"
)

// Report summarises a catalog consistency scan.
type Report struct {
	Records  int       `json:"records"`
	Problems []Problem `json:"problems"`
}

// OK reports whether the scan found nothing to fix.
func (r Report) OK() bool { return len(r.Problems) == 0 }

// Check scans the catalog directory for orphaned and unreadable files. It
// only reports; nothing is repaired or removed.
func (s *Store) Check() (_ Report, err error) {
	defer func() { s.metrics.RecordStoreOp(metrics.OpCheck, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return Report{}, fmt.Errorf("read catalog directory: %w", err)
	}

	report := Report{Problems: []Problem{}}
	referenced := make(map[string]struct{})
	var sampleFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.HasSuffix(name, sampleExt) {
			sampleFiles = append(sampleFiles, name)
			continue
		}
		if !strings.HasSuffix(name, descriptorExt) {
			continue
		}
		d, readErr := readDescriptor(filepath.Join(s.dir, name))
		if readErr != nil {
			report.Problems = append(report.Problems, Problem{File: name, Kind: ProblemUnreadable, Detail: readErr.Error()})
			continue
		}
		referenced[d.SampleFile] = struct{}{}
		exists, statErr := fileutil.Exists(filepath.Join(s.dir, d.SampleFile))
		if statErr != nil {
			return Report{}, fmt.Errorf("stat sample file %s: %w", d.SampleFile, statErr)
		}
		if !exists {
			report.Problems = append(report.Problems, Problem{
				File:   name,
				Kind:   ProblemMissingSamples,
				Detail: "references " + d.SampleFile,
			})
			continue
		}
		report.Records++
	}
	for _, name := range sampleFiles {
		if _, ok := referenced[name]; !ok {
			report.Problems = append(report.Problems, Problem{File: name, Kind: ProblemUnreferenced, Detail: "no descriptor references this file"})
		}
	}
	sort.SliceStable(report.Problems, func(i, j int) bool { return report.Problems[i].File < report.Problems[j].File })
	return report, nil
}
