package accounts

import (
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/internal/enginetest"
)

func TestEveryEnvironmentHasADeclaration(t *testing.T) {
	assert := assert.New(t)

	emails := map[string]commons.Environment{}
	for _, env := range commons.Environments() {
		spec, err := ResolveSpec(env)
		assert.NoError(err)
		assert.NotEmpty(spec.Email)
		assert.Equal(AdminRole, spec.RoleName)

		if prev, dup := emails[spec.Email]; dup {
			t.Fatalf("environments %q and %q share root email %q", prev, env, spec.Email)
		}
		emails[spec.Email] = env
	}
}

func TestResolveSpecUnknownEnvironment(t *testing.T) {
	assert := assert.New(t)

	_, err := ResolveSpec(commons.Environment("sandbox"))
	assert.Error(err)
}

func TestBuildAccountsRegistersOneAccountPerEnvironment(t *testing.T) {
	assert := assert.New(t)
	monitor := &enginetest.Monitor{
		StaticIDs: map[string]string{
			"account-dev":     "111111111111",
			"account-staging": "222222222222",
			"account-prod":    "333333333333",
		},
	}

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		out, err := BuildAccounts(BuildInput{Ctx: ctx})
		if err != nil {
			return err
		}
		return Export(ExportInput{Ctx: ctx, Accounts: out.Accounts})
	}, pulumi.WithMocks(commons.AccountsProject, commons.AccountsStack, monitor))
	assert.NoError(err)

	registered := monitor.Registered("aws:organizations/account:Account")
	assert.Len(registered, len(commons.Environments()))

	for _, reg := range registered {
		assert.Equal(AdminRole, reg.Inputs["roleName"].StringValue())
		assert.False(reg.Inputs["closeOnDeletion"].BoolValue())
		assert.Equal("DENY", reg.Inputs["iamUserAccessToBilling"].StringValue())
	}
}

func TestExportRejectsMalformedAccountID(t *testing.T) {
	assert := assert.New(t)
	monitor := &enginetest.Monitor{
		StaticIDs: map[string]string{
			"account-dev":     "not-an-account-id",
			"account-staging": "222222222222",
			"account-prod":    "333333333333",
		},
	}

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		out, err := BuildAccounts(BuildInput{Ctx: ctx})
		if err != nil {
			return err
		}
		return Export(ExportInput{Ctx: ctx, Accounts: out.Accounts})
	}, pulumi.WithMocks(commons.AccountsProject, commons.AccountsStack, monitor))
	assert.Error(err)
	assert.Contains(err.Error(), "12-digit")
}
