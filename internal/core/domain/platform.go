package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Platform is the operating system an environment file was exported from.
type Platform string

const (
	// PlatformWindows is the default source platform.
	PlatformWindows Platform = "Windows"
	// PlatformLinux is the Linux source platform.
	PlatformLinux Platform = "Linux"
	// PlatformMacOS is the macOS source platform.
	PlatformMacOS Platform = "MacOS"
)

// Platforms returns the supported source platforms. The first entry is the default.
func Platforms() []Platform {
	return []Platform{PlatformWindows, PlatformLinux, PlatformMacOS}
}

// ParsePlatform validates a platform name. Matching is exact, as the name is
// also written verbatim into pip environment markers.
func ParsePlatform(name string) (Platform, error) {
	for _, p := range Platforms() {
		if string(p) == name {
			return p, nil
		}
	}

	choices := make([]string, 0, len(Platforms()))
	for _, p := range Platforms() {
		choices = append(choices, string(p))
	}
	err := zerr.With(ErrUnknownPlatform, "platform", name)
	return "", zerr.With(err, "choices", strings.Join(choices, ", "))
}

func (p Platform) String() string {
	return string(p)
}

// Marker returns the pip environment marker clause appended to tagged pip specs.
func (p Platform) Marker() string {
	return ` ; platform_system == "` + string(p) + `"`
}

// Profile is the drop/tag rule set for one source platform.
type Profile struct {
	// DropConda holds base names removed from the conda dependency list.
	DropConda map[string]struct{}
	// TagPip holds base names tagged with a platform marker in the pip list.
	TagPip map[string]struct{}
}

// NewProfile builds a Profile, lowercasing every name.
func NewProfile(conda, pip []string) Profile {
	return Profile{
		DropConda: lowerSet(conda),
		TagPip:    lowerSet(pip),
	}
}

// Drops reports whether a conda spec with the given base name is dropped.
func (p Profile) Drops(name string) bool {
	_, ok := p.DropConda[name]
	return ok
}

// Tags reports whether a pip spec with the given base name is tagged.
func (p Profile) Tags(name string) bool {
	_, ok := p.TagPip[name]
	return ok
}

func lowerSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}
