package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/pkg/bootstrap"
	"github.com/alamedahq/platform-infra/pkg/stacks"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		env, err := commons.ParseEnvironment(ctx.Stack())
		if err != nil {
			return err
		}

		c, err := bootstrap.Shared(ctx, env)
		if err != nil {
			return err
		}
		return c.Invoke(stacks.ExportShared)
	})
}
