package linear_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/portable/internal/adapters/linear"
)

func newTestReporter(t *testing.T) (*linear.Reporter, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return linear.NewReporter(buf), buf
}

func TestReporter_Run(t *testing.T) {
	r, buf := newTestReporter(t)

	r.Section("Making environment portable")
	r.Success("wrote envs/environment.portable.yml (from Windows)")
	r.Section("Verifying portable environment with conda-lock")
	r.Command([]string{
		"conda-lock", "lock", "--mamba", "--file", "envs/environment.portable.yml",
		"--platform", "win-64", "--platform", "osx-arm64", "--platform", "linux-64",
	})
	r.Success("wrote conda-lock.yml")

	g := goldie.New(t)
	g.Assert(t, "run", buf.Bytes())
}

func TestReporter_SectionBoxWidth(t *testing.T) {
	r, buf := newTestReporter(t)

	r.Section("abc")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{"*******", "* abc *", "*******"}, lines)
}

func TestReporter_Command(t *testing.T) {
	r, buf := newTestReporter(t)

	r.Command([]string{"conda-lock", "--version"})

	assert.Equal(t, "+ conda-lock --version\n", buf.String())
}
