// Package accounts is the accounts project: one AWS member account per
// environment, exported as the mapping every other project resolves its
// deployment target from.
package accounts

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/organizations"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type BuildInput struct {
	fx.In
	Ctx *pulumi.Context
}

type BuildOutput struct {
	fx.Out
	Accounts map[commons.Environment]*organizations.Account `name:"member_accounts"`
}

// BuildAccounts creates one organization member account per declared
// environment. Accounts are protected and never closed on deletion: tearing
// one down is an explicit two-step operation by intent.
func BuildAccounts(in BuildInput) (BuildOutput, error) {
	members := make(map[commons.Environment]*organizations.Account, len(specs))

	for _, env := range commons.Environments() {
		spec, err := ResolveSpec(env)
		if err != nil {
			return BuildOutput{}, err
		}

		account, err := organizations.NewAccount(
			in.Ctx,
			fmt.Sprintf("account-%s", env),
			&organizations.AccountArgs{
				Name:                   pulumi.String(fmt.Sprintf("platform-%s", env)),
				Email:                  pulumi.String(spec.Email),
				RoleName:               pulumi.String(spec.RoleName),
				CloseOnDeletion:        pulumi.Bool(false),
				IamUserAccessToBilling: pulumi.String("DENY"),
				Tags: pulumi.StringMap{
					"environment": pulumi.String(string(env)),
				},
			},
			pulumi.Protect(true),
		)
		if err != nil {
			return BuildOutput{}, err
		}
		members[env] = account
	}

	return BuildOutput{Accounts: members}, nil
}

type ExportInput struct {
	fx.In
	Ctx      *pulumi.Context
	Accounts map[commons.Environment]*organizations.Account `name:"member_accounts"`
}

// Export publishes the accounts mapping in its stable wire form. Each entry
// goes through NewAccountRecord, so a malformed account id or role name fails
// the deployment at publish time and consumers never see a half-created
// record.
func Export(in ExportInput) error {
	mapping := pulumi.Map{}
	for env, account := range in.Accounts {
		spec, err := ResolveSpec(env)
		if err != nil {
			return err
		}

		record := account.ID().ToStringOutput().ApplyT(func(id string) (commons.AccountRecord, error) {
			return commons.NewAccountRecord(id, spec.RoleName)
		})
		mapping[string(env)] = pulumi.Map{
			commons.AccountKeyID: record.ApplyT(func(v interface{}) string {
				return v.(commons.AccountRecord).ID
			}),
			commons.AccountKeyRoleArn: record.ApplyT(func(v interface{}) string {
				return v.(commons.AccountRecord).RoleArn()
			}),
		}
	}

	in.Ctx.Export(commons.OutputAccounts, mapping)
	return nil
}
