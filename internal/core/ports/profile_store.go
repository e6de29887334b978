package ports

import "go.trai.ch/portable/internal/core/domain"

// ProfileStore loads platform drop/tag rules.
//
//go:generate mockgen -source=profile_store.go -destination=mocks/mock_profile_store.go -package=mocks
type ProfileStore interface {
	// Load returns the profile for platform from the resource at path.
	// An empty path selects the bundled resource. A platform missing from
	// the resource yields an empty profile.
	Load(path string, platform domain.Platform) (domain.Profile, error)
}
