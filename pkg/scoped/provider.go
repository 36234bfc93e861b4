// Package scoped constructs the per-environment AWS provider every resource
// in the shared and api projects is created through. The provider is the
// sole isolation mechanism between environments: it is restricted to the
// environment's account id and authenticates by assuming the account's
// administrative role. If the assumption is rejected, provider construction
// fails and with it every dependent resource in the run; a half-applied
// account boundary cannot occur.
package scoped

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/pkg/refs"
)

// NewProvider resolves the environment's account record out of the accounts
// stack reference and binds a provider to it. The record is deferred, so the
// restriction list and role ARN resolve together with the reference; the
// provider never exists without them.
func NewProvider(ctx *pulumi.Context, env commons.Environment, accounts *refs.Accounts) (*aws.Provider, error) {
	record := accounts.Resolve(env)

	region := config.New(ctx, "platform").Get("region")
	if region == "" {
		region = commons.DefaultRegion
	}

	return aws.NewProvider(ctx, fmt.Sprintf("aws-%s", env), &aws.ProviderArgs{
		Region: pulumi.String(region),
		AllowedAccountIds: pulumi.StringArray{
			record.ID(),
		},
		AssumeRoles: aws.ProviderAssumeRoleArray{
			&aws.ProviderAssumeRoleArgs{
				RoleArn:     record.RoleArn(),
				SessionName: pulumi.Sprintf("platform-%s", env),
			},
		},
	})
}
