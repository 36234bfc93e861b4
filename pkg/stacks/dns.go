package stacks

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/route53"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type DNSInput struct {
	fx.In
	Ctx      *pulumi.Context
	Env      commons.Environment
	Provider *aws.Provider
}

type DNSOutput struct {
	fx.Out
	Zone   *route53.Zone `name:"zone"`
	Domain string        `name:"domain"`
}

// BuildDNS creates the environment's hosted zone. The domain comes from
// stack config ("dns:domain", e.g. dev.alameda.dev) and is the namespace
// every service record and certificate in the environment lives under.
func BuildDNS(in DNSInput) (DNSOutput, error) {
	domain := config.New(in.Ctx, "dns").Require("domain")

	zone, err := route53.NewZone(in.Ctx, "zone", &route53.ZoneArgs{
		Name:    pulumi.String(domain),
		Comment: pulumi.Sprintf("platform %s", in.Env),
		Tags: pulumi.StringMap{
			"environment": pulumi.String(string(in.Env)),
		},
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return DNSOutput{}, err
	}

	return DNSOutput{Zone: zone, Domain: domain}, nil
}
