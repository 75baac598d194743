package domain

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	require.Len(t, catalog, DefaultRosterSize)
	require.NoError(t, catalog.Validate(DefaultRosterSize))

	counts := make(map[RoleKind]int)
	for _, kind := range catalog {
		counts[kind]++
	}
	assert.Equal(t, 3, counts[RoleDemon])
	assert.Equal(t, 1, counts[RoleNecromancer])
	assert.Len(t, catalog.UniqueRoles(), 10)
}

func TestParseCatalog(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Catalog
		wantErr error
	}{
		{
			name: "valid",
			data: "roles:\n  - demon\n  - exorcist\n",
			want: Catalog{RoleDemon, RoleExorcist},
		},
		{
			name:    "unknown role",
			data:    "roles:\n  - demon\n  - werewolf\n",
			wantErr: ErrUnknownRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCatalog([]byte(tt.data))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), catalog)

	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles: [demon, vagabond]\n"), 0o600))

	catalog, err = LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, Catalog{RoleDemon, RoleVagabond}, catalog)
	assert.ErrorIs(t, catalog.Validate(DefaultRosterSize), ErrCatalogSize)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAssignRoles_PreservesMultiset(t *testing.T) {
	roster := NewRoster(DefaultRosterSize)
	catalog := DefaultCatalog()

	for seed := int64(0); seed < 20; seed++ {
		assignment, err := AssignRoles(roster, catalog, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.Len(t, assignment, DefaultRosterSize)

		demons := 0
		village := make(map[RoleKind]PlayerID)
		for _, id := range roster {
			kind, ok := assignment[id]
			require.True(t, ok, "slot %s has no role", id)
			if kind.Role().IsDemon() {
				demons++
				continue
			}
			holder, dup := village[kind]
			require.False(t, dup, "%s dealt to both %s and %s", kind, holder, id)
			village[kind] = id
		}
		assert.Equal(t, 3, demons)
		assert.Len(t, village, 9)
	}
}

func TestAssignRoles_SizeMismatch(t *testing.T) {
	_, err := AssignRoles(NewRoster(5), DefaultCatalog(), rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrCatalogSize)
}

func TestAssignment_Swap(t *testing.T) {
	a := Assignment{"1": RoleDemon, "2": RoleExorcist}

	require.NoError(t, a.Swap("1", "2"))
	assert.Equal(t, RoleExorcist, a["1"])
	assert.Equal(t, RoleDemon, a["2"])

	assert.ErrorIs(t, a.Swap("1", "1"), ErrInvalidPair)
	assert.ErrorIs(t, a.Swap("1", "3"), ErrInvalidPair)
}

func TestLookupRole(t *testing.T) {
	role, ok := LookupRole(RoleNecromancer)
	require.True(t, ok)
	assert.Equal(t, FactionVillage, role.Faction)
	assert.NotEmpty(t, role.Name)

	_, ok = LookupRole("werewolf")
	assert.False(t, ok)
	assert.True(t, RoleDemon.Role().IsDemon())
}
