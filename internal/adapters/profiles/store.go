// Package profiles loads the per-platform package lists that decide which
// dependencies are dropped or tagged when an environment is made portable.
package profiles

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.trai.ch/portable/internal/core/domain"
	"go.trai.ch/portable/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BundledName is the name reported for the embedded profile resource.
const BundledName = "common_packages.yaml"

const schemaName = "profiles.schema.json"

//go:embed common_packages.yaml
var bundled []byte

//go:embed schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	errCompile     error
	printer        = message.NewPrinter(language.English)
)

// entry is one platform section of the resource.
type entry struct {
	Conda []string `yaml:"conda"`
	Pip   []string `yaml:"pip"`
}

// Store implements ports.ProfileStore.
type Store struct{}

var _ ports.ProfileStore = (*Store)(nil)

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load returns the profile for platform. An empty path selects the bundled resource.
func (s *Store) Load(path string, platform domain.Platform) (domain.Profile, error) {
	name, data := BundledName, bundled
	if path != "" {
		// #nosec G304 -- path is supplied by the user on the command line
		raw, err := os.ReadFile(path)
		if err != nil {
			return domain.Profile{}, zerr.With(zerr.Wrap(err, domain.ErrProfilesReadFailed.Error()), "path", path)
		}
		name, data = path, raw
	}

	profiles, err := parse(data)
	if err != nil {
		return domain.Profile{}, zerr.With(err, "path", name)
	}

	section, ok := profiles[platform.String()]
	if !ok {
		return domain.Profile{}, nil
	}
	return domain.NewProfile(section.Conda, section.Pip), nil
}

// parse validates data against the profile schema and decodes it by platform name.
func parse(data []byte) (map[string]entry, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, zerr.Wrap(err, domain.ErrProfilesInvalid.Error())
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	var profiles map[string]entry
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, zerr.Wrap(err, domain.ErrProfilesInvalid.Error())
	}
	return profiles, nil
}

// getSchema compiles the embedded JSON schema once.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			errCompile = zerr.Wrap(err, "failed to parse profile schema")
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaName, doc); err != nil {
			errCompile = zerr.Wrap(err, "failed to add profile schema")
			return
		}
		compiledSchema, err = c.Compile(schemaName)
		if err != nil {
			errCompile = zerr.Wrap(err, "failed to compile profile schema")
		}
	})
	return compiledSchema, errCompile
}

// validate checks a YAML-decoded value against the schema. The value goes
// through JSON so numbers reach the validator as json.Number.
func validate(raw any) error {
	schema, err := getSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return zerr.Wrap(err, domain.ErrProfilesInvalid.Error())
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return zerr.Wrap(err, domain.ErrProfilesInvalid.Error())
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return zerr.Wrap(err, domain.ErrProfilesInvalid.Error())
	}

	location, reason := firstIssue(ve)
	return zerr.With(zerr.With(domain.ErrProfilesInvalid, "location", location), "reason", reason)
}

// firstIssue returns the instance location and message of the first leaf error.
func firstIssue(ve *jsonschema.ValidationError) (string, string) {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	location := "/" + strings.Join(ve.InstanceLocation, "/")
	reason := ve.Error()
	if ve.ErrorKind != nil {
		reason = ve.ErrorKind.LocalizedString(printer)
	}
	return location, reason
}
