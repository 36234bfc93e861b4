// Package refs wraps the stack references through which projects read each
// other's published outputs. Reads are deferred: every accessor returns a
// Pulumi output, and a missing producer deployment or output name surfaces
// as a resolution error that aborts the consuming run before anything that
// depends on it is registered.
package refs

import (
	"fmt"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/alamedahq/platform-infra/internal/commons"
)

// Organization returns the backend organization stack references live
// under: the "platform:org" config key when set, otherwise the organization
// of the current deployment. An unresolvable organization would point every
// stack reference at a nonexistent producer, so it fails here instead.
func Organization(ctx *pulumi.Context) (string, error) {
	if org := config.New(ctx, "platform").Get("org"); org != "" {
		return org, nil
	}
	if org := ctx.Organization(); org != "" {
		return org, nil
	}
	return "", fmt.Errorf("no backend organization, set platform:org for this stack")
}

// Accounts is a handle on the accounts project's published mapping.
type Accounts struct {
	ref *pulumi.StackReference
}

func NewAccounts(ctx *pulumi.Context) (*Accounts, error) {
	org, err := Organization(ctx)
	if err != nil {
		return nil, err
	}
	ref, err := pulumi.NewStackReference(
		ctx,
		commons.StackRef(org, commons.AccountsProject, commons.AccountsStack),
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &Accounts{ref: ref}, nil
}

// Record is a deferred account record. Projections over it are themselves
// deferred; nothing here blocks.
type Record struct {
	out pulumi.Output
}

// Resolve returns the account record for an environment. The lookup runs
// when the mapping output materializes; an absent environment fails the
// deployment at that point, before any dependent resource exists.
func (a *Accounts) Resolve(env commons.Environment) Record {
	out := a.ref.GetOutput(pulumi.String(commons.OutputAccounts)).ApplyT(func(v interface{}) (commons.PublishedAccount, error) {
		raw, ok := v.(map[string]interface{})
		if !ok {
			return commons.PublishedAccount{}, fmt.Errorf("accounts stack published no %q mapping, deploy the accounts project first", commons.OutputAccounts)
		}
		mapping := make(map[commons.Environment]commons.PublishedAccount, len(raw))
		for name, entry := range raw {
			fields, ok := entry.(map[string]interface{})
			if !ok {
				return commons.PublishedAccount{}, fmt.Errorf("account record for %q has an unexpected shape", name)
			}
			id, _ := fields[commons.AccountKeyID].(string)
			roleArn, _ := fields[commons.AccountKeyRoleArn].(string)
			mapping[commons.Environment(name)] = commons.PublishedAccount{ID: id, RoleArn: roleArn}
		}
		return commons.ResolveAccount(mapping, env)
	})
	return Record{out: out}
}

// ID projects the account identifier out of the record.
func (r Record) ID() pulumi.StringOutput {
	return r.out.ApplyT(func(v interface{}) string {
		return v.(commons.PublishedAccount).ID
	}).(pulumi.StringOutput)
}

// RoleArn projects the administrative role reference out of the record.
func (r Record) RoleArn() pulumi.StringOutput {
	return r.out.ApplyT(func(v interface{}) string {
		return v.(commons.PublishedAccount).RoleArn
	}).(pulumi.StringOutput)
}
