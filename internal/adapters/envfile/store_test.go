package envfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/portable/internal/adapters/envfile"
	"go.trai.ch/portable/internal/core/domain"
	"go.trai.ch/portable/internal/engine/rewriter"
	"gopkg.in/yaml.v3"
)

const windowsExport = `name: science
channels:
  - conda-forge
  - defaults
channel_priority: strict
dependencies:
  - python=3.10
  - mkl
  - "numpy>=1.18"
  - pip:
      - foo==1.0
      - bar
variables:
  OMP_NUM_THREADS: "1"
prefix: C:\Users\me\miniconda3\envs\science
`

type envFile struct {
	Name         string            `yaml:"name"`
	Channels     []string          `yaml:"channels"`
	Dependencies []any             `yaml:"dependencies"`
	Variables    map[string]string `yaml:"variables"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestStore_Read(t *testing.T) {
	path := writeFile(t, t.TempDir(), "environment.yml", windowsExport)

	doc, err := envfile.NewStore().Read(path)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"name", "channels", "channel_priority", "dependencies", "variables", "prefix"},
		doc.Keys(),
	)

	deps := doc.Dependencies()
	require.Len(t, deps, 4)
	assert.Equal(t, domain.EntrySpec, deps[0].Kind)
	assert.Equal(t, "python=3.10", deps[0].Spec)
	assert.Equal(t, "numpy>=1.18", deps[2].Spec)
	require.Equal(t, domain.EntryPip, deps[3].Kind)
	require.Len(t, deps[3].Pip, 2)
	assert.Equal(t, "foo==1.0", deps[3].Pip[0].Spec)
	assert.Equal(t, "bar", deps[3].Pip[1].Spec)
}

func TestStore_Read_EntryKinds(t *testing.T) {
	content := `dependencies:
  - python
  - 3.10
  - {channel: conda-forge, name: numpy}
  - pip: null
  - pip:
      - requests
      - 7
`
	doc, err := envfile.Decode([]byte(content), "environment.yml")
	require.NoError(t, err)

	deps := doc.Dependencies()
	require.Len(t, deps, 5)
	assert.Equal(t, domain.EntrySpec, deps[0].Kind)
	assert.Equal(t, domain.EntryOpaque, deps[1].Kind, "unquoted numbers are not spec strings")
	assert.Equal(t, domain.EntryOpaque, deps[2].Kind)
	assert.Equal(t, domain.EntryPip, deps[3].Kind)
	assert.Empty(t, deps[3].Pip)
	require.Equal(t, domain.EntryPip, deps[4].Kind)
	require.Len(t, deps[4].Pip, 2)
	assert.Equal(t, domain.EntrySpec, deps[4].Pip[0].Kind)
	assert.Equal(t, domain.EntryOpaque, deps[4].Pip[1].Kind)
}

func TestStore_Read_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "missing dependencies", content: "name: demo\nchannels: [conda-forge]\n", wantErr: domain.ErrMissingDependencies},
		{name: "empty file", content: "", wantErr: domain.ErrMissingDependencies},
		{name: "top-level list", content: "- python\n", wantErr: domain.ErrMissingDependencies},
		{name: "dependencies not a list", content: "dependencies: python\n", wantErr: domain.ErrInvalidDependencies},
		{name: "invalid yaml", content: "dependencies: [python\n", wantErr: domain.ErrEnvFileParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "environment.yml", tt.content)

			doc, err := envfile.NewStore().Read(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
			assert.Nil(t, doc)
		})
	}
}

func TestStore_Read_NullDependencies(t *testing.T) {
	doc, err := envfile.Decode([]byte("name: demo\ndependencies:\n"), "environment.yml")
	require.NoError(t, err)
	assert.Empty(t, doc.Dependencies())
}

func TestStore_Read_NotFound(t *testing.T) {
	_, err := envfile.NewStore().Read(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEnvFileNotFound.Error())
}

func TestStore_RoundTrip_Portable(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "environment.yml", windowsExport)
	out := filepath.Join(dir, domain.PortableFileName)

	store := envfile.NewStore()
	doc, err := store.Read(in)
	require.NoError(t, err)

	profile := domain.NewProfile([]string{"mkl"}, []string{"bar"})
	rewriter.Rewrite(doc, profile, domain.PlatformWindows)

	require.NoError(t, store.Write(out, doc))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)

	var got envFile
	require.NoError(t, yaml.Unmarshal(data, &got))

	assert.Equal(t, "science", got.Name)
	assert.Equal(t, []string{"conda-forge", "defaults"}, got.Channels)
	assert.Equal(t, map[string]string{"OMP_NUM_THREADS": "1"}, got.Variables)
	assert.Equal(t, []any{
		"libblas=*=*openblas",
		"python=3.10",
		"numpy>=1.18",
		map[string]any{"pip": []any{"foo==1.0", `bar ; platform_system == "Windows"`}},
	}, got.Dependencies)

	assert.NotContains(t, text, "channel_priority")
	assert.NotContains(t, text, "prefix")

	// Key order follows the input.
	nameIdx := strings.Index(text, "name:")
	channelsIdx := strings.Index(text, "channels:")
	depsIdx := strings.Index(text, "dependencies:")
	varsIdx := strings.Index(text, "variables:")
	assert.True(t, nameIdx < channelsIdx && channelsIdx < depsIdx && depsIdx < varsIdx, text)
}

func TestStore_RoundTrip_PreservesComments(t *testing.T) {
	content := `# exported on a workstation
name: demo # project name
dependencies:
  - python=3.11 # interpreter
  - pip:
      - rich
`
	doc, err := envfile.Decode([]byte(content), "environment.yml")
	require.NoError(t, err)

	data, err := envfile.Encode(doc)
	require.NoError(t, err)

	assert.Contains(t, string(data), "# project name")
	assert.Contains(t, string(data), "# interpreter")
}

func TestStore_Encode_QuotesNumericLookingSpecs(t *testing.T) {
	doc := domain.NewDocument()
	doc.SetDependencies([]domain.Entry{domain.SpecEntry("3.10")})

	data, err := envfile.Encode(doc)
	require.NoError(t, err)

	var got envFile
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, []any{"3.10"}, got.Dependencies)
}

func TestStore_Encode_PlainValues(t *testing.T) {
	doc := domain.NewDocument()
	doc.Set("name", "generated")
	doc.SetDependencies([]domain.Entry{domain.SpecEntry("python")})

	data, err := envfile.Encode(doc)
	require.NoError(t, err)

	var got envFile
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "generated", got.Name)
	assert.Equal(t, []any{"python"}, got.Dependencies)
}

func TestStore_Write_Unwritable(t *testing.T) {
	doc := domain.NewDocument()
	doc.SetDependencies(nil)

	err := envfile.NewStore().Write(filepath.Join(t.TempDir(), "missing", "out.yml"), doc)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEnvFileWriteFailed.Error())
}

func TestStore_Read_AliasesClassifiedByTarget(t *testing.T) {
	content := `dependencies:
  - &blas mkl
  - python
  - *blas
  - &pip
    pip:
      - rich
`
	doc, err := envfile.Decode([]byte(content), "environment.yml")
	require.NoError(t, err)

	deps := doc.Dependencies()
	require.Len(t, deps, 4)
	assert.Equal(t, domain.EntrySpec, deps[2].Kind)
	assert.Equal(t, "mkl", deps[2].Spec)
	require.Equal(t, domain.EntryPip, deps[3].Kind)
	assert.Equal(t, "rich", deps[3].Pip[0].Spec)
}

func TestStore_RoundTrip_DroppedAnchor(t *testing.T) {
	content := `name: demo
dependencies:
  - &blas mkl
  - &py python=3.11
  - *blas
  - *py
extra: *blas
`
	doc, err := envfile.Decode([]byte(content), "environment.yml")
	require.NoError(t, err)

	rewriter.Rewrite(doc, domain.Profile{}, domain.PlatformLinux)

	data, err := envfile.Encode(doc)
	require.NoError(t, err)

	var got struct {
		Dependencies []any `yaml:"dependencies"`
		Extra        string `yaml:"extra"`
	}
	require.NoError(t, yaml.Unmarshal(data, &got), string(data))

	assert.Equal(t, []any{"libblas=*=*openblas", "python=3.11", "python=3.11"}, got.Dependencies)
	assert.Equal(t, "mkl", got.Extra)
	assert.Contains(t, string(data), "*py", "aliases with an emitted anchor are kept")
	assert.NotContains(t, string(data), "*blas")
}
