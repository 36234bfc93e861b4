package commons

import (
	"fmt"
	"regexp"
)

var accountIDPattern = regexp.MustCompile(`^[0-9]{12}$`)

// AccountRecord identifies one member account and the administrative role
// the platform assumes inside it. Records are validated once at construction
// so that everything downstream can treat the role ARN as well formed.
type AccountRecord struct {
	ID       string
	RoleName string
}

func NewAccountRecord(id, roleName string) (AccountRecord, error) {
	if !accountIDPattern.MatchString(id) {
		return AccountRecord{}, fmt.Errorf("account id %q is not a 12-digit AWS account id", id)
	}
	if roleName == "" {
		return AccountRecord{}, fmt.Errorf("account %s has no administrative role name", id)
	}
	return AccountRecord{ID: id, RoleName: roleName}, nil
}

// RoleArn returns the ARN of the account's administrative role.
func (a AccountRecord) RoleArn() string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", a.ID, a.RoleName)
}

// PublishedAccount is the wire form of an account record as exported by the
// accounts project and consumed by everything else:
//
//	accounts: { [environment]: { "id": ..., "roleArn": ... } }
//
// Renaming these keys breaks every consumer, so they only ever change
// together with refs.Accounts.
type PublishedAccount struct {
	ID      string
	RoleArn string
}

// ResolveAccount looks an environment up in a published accounts mapping.
// A miss aborts the deployment before any resource that depends on the
// account is registered; there is no fallback account.
func ResolveAccount(mapping map[Environment]PublishedAccount, env Environment) (PublishedAccount, error) {
	rec, ok := mapping[env]
	if !ok {
		return PublishedAccount{}, fmt.Errorf("no account registered for environment %q, deploy the accounts project with an entry for it first", env)
	}
	if rec.ID == "" || rec.RoleArn == "" {
		return PublishedAccount{}, fmt.Errorf("account record for environment %q is incomplete (id=%q roleArn=%q)", env, rec.ID, rec.RoleArn)
	}
	return rec, nil
}
