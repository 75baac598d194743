package domain

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is the ordered list of role kinds dealt to the roster, one per slot
type Catalog []RoleKind

type catalogFile struct {
	Roles []RoleKind `yaml:"roles"`
}

// DefaultCatalog returns the embedded twelve-role catalog
func DefaultCatalog() Catalog {
	catalog, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Errorf("embedded role catalog: %w", err))
	}
	return catalog
}

// LoadCatalog reads a catalog from a YAML file; an empty path yields the default catalog
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read role catalog %s: %w", path, err)
	}

	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog and checks every kind against the role set
func ParseCatalog(data []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse role catalog: %w", err)
	}

	for i, kind := range file.Roles {
		if !kind.Valid() {
			return nil, fmt.Errorf("catalog entry %d %q: %w", i, kind, ErrUnknownRole)
		}
	}

	return Catalog(file.Roles), nil
}

// Validate checks the catalog deals exactly one role per roster slot
func (c Catalog) Validate(rosterSize int) error {
	if len(c) != rosterSize {
		return fmt.Errorf("%w: %d roles for %d players", ErrCatalogSize, len(c), rosterSize)
	}
	return nil
}

// UniqueRoles returns one Role per kind, in first-appearance order
func (c Catalog) UniqueRoles() []Role {
	seen := make(map[RoleKind]bool, len(c))
	roles := make([]Role, 0, len(c))
	for _, kind := range c {
		if seen[kind] {
			continue
		}
		seen[kind] = true
		roles = append(roles, kind.Role())
	}
	return roles
}
