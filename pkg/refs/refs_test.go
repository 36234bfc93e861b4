package refs

import (
	"sync"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/internal/enginetest"
)

const accountsStack = "alameda/accounts/main"

func setOrg(t *testing.T) {
	t.Helper()
	t.Setenv("PULUMI_CONFIG", `{"platform:org":"alameda"}`)
}

func publishedAccounts() map[string]interface{} {
	return map[string]interface{}{
		commons.OutputAccounts: map[string]interface{}{
			"dev": map[string]interface{}{
				"id":      "111111111111",
				"roleArn": "arn:aws:iam::111111111111:role/PlatformAdministratorAccess",
			},
			"prod": map[string]interface{}{
				"id":      "333333333333",
				"roleArn": "arn:aws:iam::333333333333:role/PlatformAdministratorAccess",
			},
		},
	}
}

func TestResolveKnownEnvironment(t *testing.T) {
	assert := assert.New(t)
	setOrg(t)
	monitor := &enginetest.Monitor{
		StackOutputs: map[string]map[string]interface{}{
			accountsStack: publishedAccounts(),
		},
	}

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		accounts, err := NewAccounts(ctx)
		if err != nil {
			return err
		}
		rec := accounts.Resolve(commons.Dev)

		var wg sync.WaitGroup
		wg.Add(1)
		pulumi.All(rec.ID(), rec.RoleArn()).ApplyT(func(vals []interface{}) error {
			defer wg.Done()
			assert.Equal("111111111111", vals[0])
			assert.Equal("arn:aws:iam::111111111111:role/PlatformAdministratorAccess", vals[1])
			return nil
		})
		wg.Wait()
		return nil
	}, pulumi.WithMocks(commons.SharedProject, "dev", monitor))
	assert.NoError(err)
}

func TestResolveIsRepeatable(t *testing.T) {
	assert := assert.New(t)
	setOrg(t)
	monitor := &enginetest.Monitor{
		StackOutputs: map[string]map[string]interface{}{
			accountsStack: publishedAccounts(),
		},
	}

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		accounts, err := NewAccounts(ctx)
		if err != nil {
			return err
		}
		first := accounts.Resolve(commons.Prod)
		second := accounts.Resolve(commons.Prod)

		var wg sync.WaitGroup
		wg.Add(1)
		pulumi.All(first.ID(), second.ID(), first.RoleArn(), second.RoleArn()).ApplyT(func(vals []interface{}) error {
			defer wg.Done()
			assert.Equal(vals[0], vals[1])
			assert.Equal(vals[2], vals[3])
			return nil
		})
		wg.Wait()
		return nil
	}, pulumi.WithMocks(commons.SharedProject, "prod", monitor))
	assert.NoError(err)
}

func TestResolveUnregisteredEnvironmentFailsTheRun(t *testing.T) {
	assert := assert.New(t)
	setOrg(t)
	monitor := &enginetest.Monitor{
		StackOutputs: map[string]map[string]interface{}{
			accountsStack: publishedAccounts(),
		},
	}

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		accounts, err := NewAccounts(ctx)
		if err != nil {
			return err
		}
		rec := accounts.Resolve(commons.Staging)
		ctx.Export("accountId", rec.ID())
		return nil
	}, pulumi.WithMocks(commons.SharedProject, "staging", monitor))
	assert.Error(err)
	assert.Contains(err.Error(), "no account registered")
}

func TestNeverDeployedProducerFailsTheRun(t *testing.T) {
	assert := assert.New(t)
	setOrg(t)
	monitor := &enginetest.Monitor{}

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		accounts, err := NewAccounts(ctx)
		if err != nil {
			return err
		}
		rec := accounts.Resolve(commons.Dev)
		ctx.Export("accountId", rec.ID())
		return nil
	}, pulumi.WithMocks(commons.SharedProject, "dev", monitor))
	assert.Error(err)
	assert.Contains(err.Error(), "never been deployed")
}

func TestMissingOrganizationFailsBeforeAnyReference(t *testing.T) {
	assert := assert.New(t)
	monitor := &enginetest.Monitor{}

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		_, err := NewAccounts(ctx)
		return err
	}, pulumi.WithMocks(commons.SharedProject, "dev", monitor))
	assert.Error(err)
	assert.Contains(err.Error(), "platform:org")
	assert.Empty(monitor.Registered("pulumi:pulumi:StackReference"))
}

func TestSharedOutputs(t *testing.T) {
	assert := assert.New(t)
	setOrg(t)
	monitor := &enginetest.Monitor{
		StackOutputs: map[string]map[string]interface{}{
			"alameda/shared/dev": {
				commons.OutputVpcID:           "vpc-0123",
				commons.OutputZoneName:        "dev.alameda.dev",
				commons.OutputPublicSubnetIDs: []interface{}{"subnet-a", "subnet-b"},
				commons.OutputMailIdentityArn: "arn:aws:ses:us-east-2:111111111111:identity/dev.alameda.dev",
			},
		},
	}

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		shared, err := NewShared(ctx, commons.Dev)
		if err != nil {
			return err
		}

		var wg sync.WaitGroup
		wg.Add(1)
		pulumi.All(shared.VpcID(), shared.ZoneName(), shared.PublicSubnetIDs(), shared.MailIdentityArn()).ApplyT(func(vals []interface{}) error {
			defer wg.Done()
			assert.Equal("vpc-0123", vals[0])
			assert.Equal("dev.alameda.dev", vals[1])
			assert.Equal([]string{"subnet-a", "subnet-b"}, vals[2])
			assert.Equal("arn:aws:ses:us-east-2:111111111111:identity/dev.alameda.dev", vals[3])
			return nil
		})
		wg.Wait()
		return nil
	}, pulumi.WithMocks(commons.APIProject, "dev", monitor))
	assert.NoError(err)
}

func TestSharedOutputMissingFailsTheRun(t *testing.T) {
	assert := assert.New(t)
	setOrg(t)
	monitor := &enginetest.Monitor{
		StackOutputs: map[string]map[string]interface{}{
			"alameda/shared/dev": {
				commons.OutputVpcID: "vpc-0123",
			},
		},
	}

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		shared, err := NewShared(ctx, commons.Dev)
		if err != nil {
			return err
		}
		ctx.Export("repo", shared.RepositoryURL())
		return nil
	}, pulumi.WithMocks(commons.APIProject, "dev", monitor))
	assert.Error(err)
	assert.Contains(err.Error(), commons.OutputRepositoryURL)
}
