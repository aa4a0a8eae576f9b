package wrapper

import (
	"fmt"

	"github.com/blackwell-systems/flatwrap/internal/store"
)

// Remove explicitly deletes one wrapper: the launcher artifact and its
// registry record. This is the removal path for stale wrappers, which
// reconciliation deliberately leaves in place.
func Remove(targetDir string, registry *store.Store, short string) error {
	if err := removeArtifact(targetDir, short); err != nil {
		return err
	}
	removed, err := registry.DeleteWrapper(short)
	if err != nil {
		return err
	}
	if !removed && !artifactPresent(targetDir, short) {
		return fmt.Errorf("no wrapper named %q", short)
	}
	return nil
}

// PurgeStale removes every wrapper currently marked stale and returns their
// short names.
func PurgeStale(targetDir string, registry *store.Store) ([]string, error) {
	records, err := registry.ListWrappers()
	if err != nil {
		return nil, err
	}

	var purged []string
	for _, rec := range records {
		if !rec.Stale {
			continue
		}
		if err := Remove(targetDir, registry, rec.ShortName); err != nil {
			return purged, err
		}
		purged = append(purged, rec.ShortName)
	}
	return purged, nil
}

// CreateAliasArtifact places the launcher symlink for an alias name.
// Aliases are artifact-only: resolution to the target wrapper happens at
// launch time through the config store.
func CreateAliasArtifact(targetDir, alias string) error {
	if alias == "" || alias == BinaryName {
		return fmt.Errorf("invalid alias name %q", alias)
	}
	return createArtifact(targetDir, alias)
}

// RemoveAliasArtifact removes an alias launcher symlink.
func RemoveAliasArtifact(targetDir, alias string) error {
	return removeArtifact(targetDir, alias)
}

// CreatePassthrough registers a native-passthrough wrapper: an artifact
// whose only job is to splice environment overrides and hooks around the
// native binary of the same name. Reconciliation never removes it.
func CreatePassthrough(targetDir string, registry *store.Store, short string) error {
	if short == "" || short == BinaryName {
		return fmt.Errorf("invalid wrapper name %q", short)
	}
	if err := createArtifact(targetDir, short); err != nil {
		return err
	}
	return registry.UpsertWrapper(&store.Wrapper{
		ShortName: short,
		Kind:      store.KindNativePassthrough,
	})
}
