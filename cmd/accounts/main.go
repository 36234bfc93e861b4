package main

import (
	"fmt"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/pkg/accounts"
	"github.com/alamedahq/platform-infra/pkg/bootstrap"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		if ctx.Stack() != commons.AccountsStack {
			return fmt.Errorf("the accounts project has a single stack %q, not %q", commons.AccountsStack, ctx.Stack())
		}

		c, err := bootstrap.Accounts(ctx)
		if err != nil {
			return err
		}
		return c.Invoke(accounts.Export)
	})
}
