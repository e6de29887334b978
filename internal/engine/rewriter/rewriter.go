// Package rewriter turns a platform-specific conda environment into a portable one.
package rewriter

import (
	"strings"

	"go.trai.ch/portable/internal/core/domain"
)

// BackendPin forces conda to pick OpenBLAS as the BLAS implementation.
const BackendPin = "libblas=*=*openblas"

// strippedKeys are top-level keys that only make sense on the exporting machine.
var strippedKeys = []string{"channel_priority", "prefix"}

// competingBackends are the MKL/OpenMP packages that conflict with OpenBLAS.
var competingBackends = map[string]struct{}{
	"mkl":          {},
	"mkl-service":  {},
	"intel-openmp": {},
	"openmp":       {},
}

// Report summarizes what a rewrite changed.
type Report struct {
	// Dropped lists conda specs removed by the platform profile.
	Dropped []string
	// Tagged lists pip specs that received a platform marker, in their tagged form.
	Tagged []string
	// BackendsRemoved lists conda specs removed as competing BLAS backends.
	BackendsRemoved []string
	// BackendInserted is true when BackendPin was added to the list.
	BackendInserted bool
	// DiscardedPipSections counts pip records superseded by a later one.
	DiscardedPipSections int
}

// Rewrite makes doc portable in place and reports what changed.
//
// The pip record, if any, is moved to the end of the dependency list. When the
// list holds several pip records only the last one survives.
func Rewrite(doc *domain.Document, profile domain.Profile, from domain.Platform) Report {
	var report Report

	for _, key := range strippedKeys {
		doc.Delete(key)
	}

	deps := doc.Dependencies()
	kept := make([]domain.Entry, 0, len(deps)+1)
	var pip *domain.Entry

	for _, entry := range deps {
		switch entry.Kind {
		case domain.EntryPip:
			if pip != nil {
				report.DiscardedPipSections++
			}
			section := tagPip(entry.Pip, profile, from, &report)
			pip = &section
		case domain.EntrySpec:
			if profile.Drops(domain.BaseName(entry.Spec)) {
				report.Dropped = append(report.Dropped, entry.Spec)
				continue
			}
			kept = append(kept, entry)
		default:
			kept = append(kept, entry)
		}
	}

	if pip != nil {
		kept = append(kept, *pip)
	}

	kept = normalizeBackend(kept, &report)
	doc.SetDependencies(kept)

	return report
}

// tagPip appends the platform marker to pip specs listed in the profile that
// carry no marker yet. Only the pip key of the source record is kept.
func tagPip(inner []domain.Entry, profile domain.Profile, from domain.Platform, report *Report) domain.Entry {
	tagged := make([]domain.Entry, 0, len(inner))
	for _, entry := range inner {
		if entry.Kind == domain.EntrySpec &&
			profile.Tags(domain.BaseName(entry.Spec)) &&
			!strings.Contains(entry.Spec, ";") {
			entry = domain.Entry{Kind: domain.EntrySpec, Spec: entry.Spec + from.Marker(), Source: entry.Source}
			report.Tagged = append(report.Tagged, entry.Spec)
		}
		tagged = append(tagged, entry)
	}
	return domain.PipEntry(tagged)
}

// normalizeBackend removes MKL/OpenMP packages and pins OpenBLAS at the front
// of the list unless an OpenBLAS pin is already present.
func normalizeBackend(deps []domain.Entry, report *Report) []domain.Entry {
	kept := make([]domain.Entry, 0, len(deps)+1)
	hasOpenBLAS := false

	for _, entry := range deps {
		if entry.Kind == domain.EntrySpec {
			name := domain.BaseName(entry.Spec)
			if _, ok := competingBackends[name]; ok {
				report.BackendsRemoved = append(report.BackendsRemoved, entry.Spec)
				continue
			}
			if name == "libblas" && strings.Contains(entry.Spec, "*openblas") {
				hasOpenBLAS = true
			}
		}
		kept = append(kept, entry)
	}

	if hasOpenBLAS {
		return kept
	}

	report.BackendInserted = true
	return append([]domain.Entry{domain.SpecEntry(BackendPin)}, kept...)
}
