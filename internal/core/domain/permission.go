package domain

// Wildcard matches any action or resource.
const Wildcard = "*"

// Permission grants (or explicitly denies) an action on a resource.
type Permission struct {
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Granted  bool   `json:"granted"`
}

func grant(action, resource string) Permission {
	return Permission{Action: action, Resource: resource, Granted: true}
}

// catalog is the static permission set per role.
var catalog = map[Role][]Permission{
	RoleSuperAdmin: {
		grant(Wildcard, Wildcard),
	},
	RoleAdmin: {
		grant("read", "posts"),
		grant("write", "posts"),
		grant("delete", "posts"),
		grant("read", "comments"),
		grant("write", "comments"),
		grant("delete", "comments"),
		grant("read", "users"),
		grant("write", "users"),
		grant("read", "analytics"),
		grant("read", "database"),
		grant("write", "database"),
		grant("read", "settings"),
		grant("write", "settings"),
	},
	RoleEditor: {
		grant("read", "posts"),
		grant("write", "posts"),
		grant("read", "comments"),
		grant("write", "comments"),
		grant("read", "analytics"),
	},
	RoleViewer: {
		grant("read", "posts"),
		grant("read", "comments"),
		grant("read", "analytics"),
	},
}

// PermissionsFor returns a fresh copy of the catalog entry for role.
// Unknown roles get no permissions.
func PermissionsFor(role Role) []Permission {
	return ClonePermissions(catalog[role])
}

// ClonePermissions copies a permission list by value.
func ClonePermissions(perms []Permission) []Permission {
	if perms == nil {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Allows reports whether perms grant action on resource.
// A granted {*,*} entry short-circuits every check.
func Allows(perms []Permission, action, resource string) bool {
	for _, p := range perms {
		if p.Granted && p.Action == Wildcard && p.Resource == Wildcard {
			return true
		}
	}
	for _, p := range perms {
		if !p.Granted {
			continue
		}
		if (p.Action == action || p.Action == Wildcard) && (p.Resource == resource || p.Resource == Wildcard) {
			return true
		}
	}
	return false
}
