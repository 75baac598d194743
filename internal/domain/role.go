package domain

// Faction is the winning-condition grouping a role belongs to
type Faction string

const (
	FactionVillage Faction = "village"
	FactionDemons  Faction = "demons"
)

// String returns the display name of the faction
func (f Faction) String() string {
	switch f {
	case FactionVillage:
		return "le Village"
	case FactionDemons:
		return "les Démons"
	default:
		return string(f)
	}
}

// RoleKind is the stable key of a role definition
type RoleKind string

const (
	RoleEnchantress   RoleKind = "enchantress"
	RoleDemon         RoleKind = "demon"
	RoleFaceless      RoleKind = "faceless"
	RoleFortuneTeller RoleKind = "fortune_teller"
	RoleCursedLover   RoleKind = "cursed_lover"
	RoleTrickster     RoleKind = "trickster"
	RoleRedeemer      RoleKind = "redeemer"
	RoleVagabond      RoleKind = "vagabond"
	RoleNecromancer   RoleKind = "necromancer"
	RoleExorcist      RoleKind = "exorcist"
)

// Role is the metadata attached to a role kind
type Role struct {
	Kind        RoleKind `json:"kind"`
	Name        string   `json:"name"`
	Faction     Faction  `json:"faction"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
}

// IsDemon returns true if the role plays for the demons
func (r Role) IsDemon() bool {
	return r.Faction == FactionDemons
}

var roleTable = map[RoleKind]Role{
	RoleEnchantress: {
		Kind:        RoleEnchantress,
		Name:        "Enchanteresse",
		Faction:     FactionVillage,
		Icon:        "role_enchanteresse.png",
		Description: "2 pouvoirs à utiliser pendant la nuit : Relique de vie (ressuscite) et Relique de mort (tue).",
	},
	RoleDemon: {
		Kind:        RoleDemon,
		Name:        "Démon",
		Faction:     FactionDemons,
		Icon:        "role_demon.png",
		Description: "Peut éliminer une personne chaque nuit.",
	},
	RoleFaceless: {
		Kind:        RoleFaceless,
		Name:        "Sans visage",
		Faction:     FactionVillage,
		Icon:        "role_sans_visage.png",
		Description: "Peut regarder chaque nuit le rôle d’un joueur.",
	},
	RoleFortuneTeller: {
		Kind:        RoleFortuneTeller,
		Name:        "Cartomancienne",
		Faction:     FactionVillage,
		Icon:        "role_cartomancienne.png",
		Description: "Demande une info gentil/méchant sur un joueur.",
	},
	RoleCursedLover: {
		Kind:        RoleCursedLover,
		Name:        "Amant maudit",
		Faction:     FactionVillage,
		Icon:        "role_amant_maudit.png",
		Description: "Choisit un couple. Peut en choisir un nouveau si le premier meurt.",
	},
	RoleTrickster: {
		Kind:        RoleTrickster,
		Name:        "Esprit farceur",
		Faction:     FactionVillage,
		Icon:        "role_esprit_farceur.png",
		Description: "Peut échanger le rôle de deux joueurs.",
	},
	RoleRedeemer: {
		Kind:        RoleRedeemer,
		Name:        "Rédempteur",
		Faction:     FactionVillage,
		Icon:        "role_redempteur.png",
		Description: "Protège un joueur chaque nuit.",
	},
	RoleVagabond: {
		Kind:        RoleVagabond,
		Name:        "Vagabond",
		Faction:     FactionVillage,
		Icon:        "role_vagabond.png",
		Description: "Dort chez quelqu’un chaque nuit. Meurt si cette personne est tuée.",
	},
	RoleNecromancer: {
		Kind:        RoleNecromancer,
		Name:        "Nécromancien",
		Faction:     FactionVillage,
		Icon:        "role_necromancien.png",
		Description: "Peut consulter la personne décédée précédemment.",
	},
	RoleExorcist: {
		Kind:        RoleExorcist,
		Name:        "Exorciste",
		Faction:     FactionVillage,
		Icon:        "role_exorciste.png",
		Description: "Donne un vote supplémentaire à quelqu’un.",
	},
}

// LookupRole returns the metadata for a role kind
func LookupRole(kind RoleKind) (Role, bool) {
	role, ok := roleTable[kind]
	return role, ok
}

// Valid reports whether the kind belongs to the closed role set
func (k RoleKind) Valid() bool {
	_, ok := roleTable[k]
	return ok
}

// Role returns the metadata of the kind; unknown kinds yield a zero Role
func (k RoleKind) Role() Role {
	return roleTable[k]
}

// String returns the string representation of the role kind
func (k RoleKind) String() string {
	return string(k)
}
