package rewriter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/portable/internal/core/domain"
	"go.trai.ch/portable/internal/engine/rewriter"
)

func specs(names ...string) []domain.Entry {
	entries := make([]domain.Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, domain.SpecEntry(n))
	}
	return entries
}

func newDoc(deps ...domain.Entry) *domain.Document {
	doc := domain.NewDocument()
	doc.Set("name", "demo")
	doc.SetDependencies(deps)
	return doc
}

// flatten renders entries as strings so whole lists compare in one assertion.
func flatten(entries []domain.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		switch e.Kind {
		case domain.EntrySpec:
			out = append(out, e.Spec)
		case domain.EntryPip:
			out = append(out, "pip:["+strings.Join(flatten(e.Pip), "|")+"]")
		default:
			out = append(out, "<opaque>")
		}
	}
	return out
}

func TestRewrite_Scenario(t *testing.T) {
	doc := newDoc(
		domain.SpecEntry("python=3.10"),
		domain.SpecEntry("mkl"),
		domain.SpecEntry("numpy>=1.18"),
		domain.PipEntry(specs("foo==1.0", "bar")),
	)
	profile := domain.NewProfile([]string{"mkl"}, []string{"bar"})

	report := rewriter.Rewrite(doc, profile, domain.PlatformWindows)

	assert.Equal(t, []string{
		"libblas=*=*openblas",
		"python=3.10",
		"numpy>=1.18",
		`pip:[foo==1.0|bar ; platform_system == "Windows"]`,
	}, flatten(doc.Dependencies()))
	assert.Equal(t, []string{"mkl"}, report.Dropped)
	assert.Equal(t, []string{`bar ; platform_system == "Windows"`}, report.Tagged)
	assert.True(t, report.BackendInserted)
	assert.Empty(t, report.BackendsRemoved)
}

func TestRewrite_StripsMachineKeys(t *testing.T) {
	doc := domain.NewDocument()
	doc.Set("name", "demo")
	doc.Set("channel_priority", "strict")
	doc.Set("channels", nil)
	doc.SetDependencies(specs("python"))
	doc.Set("prefix", `C:\Users\me\miniconda3\envs\demo`)

	rewriter.Rewrite(doc, domain.Profile{}, domain.PlatformWindows)

	assert.Equal(t, []string{"name", "channels", "dependencies"}, doc.Keys())
}

func TestRewrite_DropsProfilePackages(t *testing.T) {
	doc := newDoc(specs(
		"vc=14.3=h8a93ad2_20",
		"python=3.11",
		"VS2015_RUNTIME=14.36",
		"pywin32=306",
		"requests",
	)...)
	profile := domain.NewProfile([]string{"vc", "vs2015_runtime", "pywin32"}, nil)

	report := rewriter.Rewrite(doc, profile, domain.PlatformWindows)

	assert.Equal(t, []string{"libblas=*=*openblas", "python=3.11", "requests"}, flatten(doc.Dependencies()))
	assert.Equal(t, []string{"vc=14.3=h8a93ad2_20", "VS2015_RUNTIME=14.36", "pywin32=306"}, report.Dropped)
}

func TestRewrite_PipTagging(t *testing.T) {
	opaque := domain.OpaqueEntry(42)
	doc := newDoc(domain.PipEntry([]domain.Entry{
		domain.SpecEntry("pywin32==306"),
		domain.SpecEntry(`pywinpty ; sys_platform == "win32"`),
		domain.SpecEntry("numpy"),
		opaque,
		domain.SpecEntry("WMI[extra]>=1.5"),
	}))
	profile := domain.NewProfile(nil, []string{"pywin32", "pywinpty", "wmi"})

	report := rewriter.Rewrite(doc, profile, domain.PlatformLinux)

	deps := doc.Dependencies()
	require.Len(t, deps, 2)
	assert.Equal(t, domain.EntryPip, deps[1].Kind)
	assert.Equal(t, []string{
		`pywin32==306 ; platform_system == "Linux"`,
		`pywinpty ; sys_platform == "win32"`,
		"numpy",
		"<opaque>",
		`WMI[extra]>=1.5 ; platform_system == "Linux"`,
	}, flatten(deps[1].Pip))
	assert.Equal(t, 42, deps[1].Pip[3].Source)
	assert.Len(t, report.Tagged, 2)
}

func TestRewrite_PipMovedToTail(t *testing.T) {
	doc := newDoc(
		domain.SpecEntry("libblas=*=*openblas"),
		domain.PipEntry(specs("foo")),
		domain.SpecEntry("python"),
		domain.OpaqueEntry("opaque"),
	)

	report := rewriter.Rewrite(doc, domain.Profile{}, domain.PlatformWindows)

	assert.Equal(t, []string{"libblas=*=*openblas", "python", "<opaque>", "pip:[foo]"}, flatten(doc.Dependencies()))
	assert.False(t, report.BackendInserted)
}

func TestRewrite_LastPipSectionWins(t *testing.T) {
	doc := newDoc(
		domain.PipEntry(specs("first")),
		domain.SpecEntry("python"),
		domain.PipEntry(specs("second")),
	)

	report := rewriter.Rewrite(doc, domain.Profile{}, domain.PlatformWindows)

	assert.Equal(t, []string{"libblas=*=*openblas", "python", "pip:[second]"}, flatten(doc.Dependencies()))
	assert.Equal(t, 1, report.DiscardedPipSections)
}

func TestRewrite_EmptyPipSectionKept(t *testing.T) {
	doc := newDoc(domain.PipEntry(nil))

	rewriter.Rewrite(doc, domain.Profile{}, domain.PlatformWindows)

	assert.Equal(t, []string{"libblas=*=*openblas", "pip:[]"}, flatten(doc.Dependencies()))
}

func TestRewrite_BackendNormalization(t *testing.T) {
	tests := []struct {
		name         string
		deps         []string
		want         []string
		wantInserted bool
		wantRemoved  []string
	}{
		{
			name:         "competitors removed and pin inserted",
			deps:         []string{"python", "mkl=2023.1", "MKL-Service", "intel-openmp", "openmp", "numpy"},
			want:         []string{"libblas=*=*openblas", "python", "numpy"},
			wantInserted: true,
			wantRemoved:  []string{"mkl=2023.1", "MKL-Service", "intel-openmp", "openmp"},
		},
		{
			name: "existing pin kept in place",
			deps: []string{"python", "libblas=3.9.0=*openblas"},
			want: []string{"python", "libblas=3.9.0=*openblas"},
		},
		{
			name:         "concrete openblas build string needs the wildcard marker",
			deps:         []string{"libblas=3.9.0=20_linux64_openblas"},
			want:         []string{"libblas=*=*openblas", "libblas=3.9.0=20_linux64_openblas"},
			wantInserted: true,
		},
		{
			name:         "libblas without openblas does not count",
			deps:         []string{"libblas=3.9.0=mkl"},
			want:         []string{"libblas=*=*openblas", "libblas=3.9.0=mkl"},
			wantInserted: true,
		},
		{
			name:         "openblas marker on another package does not count",
			deps:         []string{"liblapack=*=*openblas"},
			want:         []string{"libblas=*=*openblas", "liblapack=*=*openblas"},
			wantInserted: true,
		},
		{
			name:         "empty list",
			deps:         nil,
			want:         []string{"libblas=*=*openblas"},
			wantInserted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDoc(specs(tt.deps...)...)

			report := rewriter.Rewrite(doc, domain.Profile{}, domain.PlatformWindows)

			assert.Equal(t, tt.want, flatten(doc.Dependencies()))
			assert.Equal(t, tt.wantInserted, report.BackendInserted)
			assert.Equal(t, tt.wantRemoved, report.BackendsRemoved)
		})
	}
}

func TestRewrite_BackendCompetitorsNotStrippedFromPip(t *testing.T) {
	doc := newDoc(domain.PipEntry(specs("mkl")))

	rewriter.Rewrite(doc, domain.Profile{}, domain.PlatformWindows)

	assert.Equal(t, []string{"libblas=*=*openblas", "pip:[mkl]"}, flatten(doc.Dependencies()))
}

func TestRewrite_Idempotent(t *testing.T) {
	profile := domain.NewProfile([]string{"vc", "ucrt"}, []string{"pywin32"})

	for _, platform := range domain.Platforms() {
		t.Run(platform.String(), func(t *testing.T) {
			doc := newDoc(
				domain.SpecEntry("ucrt=10.0"),
				domain.SpecEntry("python=3.10"),
				domain.SpecEntry("mkl"),
				domain.PipEntry(specs("pywin32==306", "rich")),
				domain.SpecEntry("intel-openmp"),
			)

			rewriter.Rewrite(doc, profile, platform)
			first := flatten(doc.Dependencies())

			report := rewriter.Rewrite(doc, profile, platform)
			second := flatten(doc.Dependencies())

			assert.Equal(t, first, second)
			assert.False(t, report.BackendInserted)
			assert.Empty(t, report.Tagged)
			assert.Empty(t, report.BackendsRemoved)
			assert.Equal(t, 1, strings.Count(strings.Join(second, "\n"), rewriter.BackendPin))
		})
	}
}

func TestRewrite_RetainsRelativeOrder(t *testing.T) {
	profile := domain.NewProfile([]string{"b", "d"}, nil)
	doc := newDoc(specs("a", "b", "c", "d", "e")...)

	rewriter.Rewrite(doc, profile, domain.PlatformMacOS)

	assert.Equal(t, []string{"libblas=*=*openblas", "a", "c", "e"}, flatten(doc.Dependencies()))
}
