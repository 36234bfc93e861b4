package accounts

import (
	"fmt"

	"github.com/alamedahq/platform-infra/internal/commons"
)

// Spec declares one member account before it exists: the root email the
// organization registers it under and the administrative role created in it.
type Spec struct {
	Email    string
	RoleName string
}

// AdminRole is the role the organization creates in every member account.
// Scoped providers assume it, so renaming it orphans every other project
// until the accounts project is redeployed.
const AdminRole = "PlatformAdministratorAccess"

var specs = map[commons.Environment]Spec{
	commons.Dev:     {Email: "aws+dev@alameda.dev", RoleName: AdminRole},
	commons.Staging: {Email: "aws+staging@alameda.dev", RoleName: AdminRole},
	commons.Prod:    {Email: "aws+prod@alameda.dev", RoleName: AdminRole},
}

// ResolveSpec returns the declaration for an environment, failing loudly
// when none exists.
func ResolveSpec(env commons.Environment) (Spec, error) {
	spec, ok := specs[env]
	if !ok {
		return Spec{}, fmt.Errorf("environment %q has no account declaration", env)
	}
	return spec, nil
}
