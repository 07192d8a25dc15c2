package rbac

// Default portal policy. Admins run the paper-set workflow; students take the
// interactive quiz. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:take",
		"quiz:history",
	},
	"admin": {
		"set:generate",
		"set:history",
		"quiz:take",
		"quiz:history",
	},
}
