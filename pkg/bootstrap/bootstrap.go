// Package bootstrap assembles each project's builder graph in a dig
// container. Builders declare what they need through fx.In/fx.Out tagged
// structs; invoking a project's export function pulls in exactly the
// builders it transitively requires.
package bootstrap

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/dig"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/pkg/accounts"
	"github.com/alamedahq/platform-infra/pkg/refs"
	"github.com/alamedahq/platform-infra/pkg/scoped"
	"github.com/alamedahq/platform-infra/pkg/service"
	"github.com/alamedahq/platform-infra/pkg/stacks"
)

func newContainer(ctx *pulumi.Context, env commons.Environment, providers ...interface{}) (*dig.Container, error) {
	c := dig.New()

	base := []interface{}{
		func() *pulumi.Context { return ctx },
		func() commons.Environment { return env },
	}
	for _, p := range append(base, providers...) {
		if err := c.Provide(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Accounts wires the accounts project. It runs against the organization
// management account with ambient credentials; it is the only project with
// no scoped provider, because it is what the scoped providers are built on.
func Accounts(ctx *pulumi.Context) (*dig.Container, error) {
	return newContainer(ctx, "",
		accounts.BuildAccounts,
	)
}

// Shared wires the shared project for one environment.
func Shared(ctx *pulumi.Context, env commons.Environment) (*dig.Container, error) {
	return newContainer(ctx, env,
		refs.NewAccounts,
		scoped.NewProvider,
		stacks.BuildNetwork,
		stacks.BuildDNS,
		stacks.BuildCertificate,
		stacks.BuildLoadBalancer,
		stacks.BuildCluster,
		stacks.BuildDatabase,
		stacks.BuildMail,
		stacks.BuildRegistry,
	)
}

// Service wires a service project for one environment.
func Service(ctx *pulumi.Context, env commons.Environment) (*dig.Container, error) {
	return newContainer(ctx, env,
		func() service.Config { return service.LoadConfig(ctx) },
		refs.NewAccounts,
		refs.NewShared,
		scoped.NewProvider,
		service.BuildSecrets,
		service.BuildIAM,
		service.BuildLogs,
		service.BuildTaskDefinition,
		service.BuildRouting,
		service.BuildService,
		service.BuildDNS,
	)
}
