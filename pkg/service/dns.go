package service

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/route53"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/pkg/refs"
)

type DNSInput struct {
	fx.In
	Ctx      *pulumi.Context
	Provider *aws.Provider
	Shared   *refs.Shared
	Host     pulumi.StringOutput `name:"service_host"`
}

type DNSOutput struct {
	fx.Out
	Record *route53.Record `name:"service_record"`
}

// BuildDNS aliases the service host onto the shared load balancer.
func BuildDNS(in DNSInput) (DNSOutput, error) {
	record, err := route53.NewRecord(in.Ctx, "record", &route53.RecordArgs{
		ZoneId: in.Shared.ZoneID(),
		Name:   in.Host,
		Type:   pulumi.String("A"),
		Aliases: route53.RecordAliasArray{
			&route53.RecordAliasArgs{
				Name:                 in.Shared.ALBDNSName(),
				ZoneId:               in.Shared.ALBZoneID(),
				EvaluateTargetHealth: pulumi.Bool(true),
			},
		},
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return DNSOutput{}, err
	}

	return DNSOutput{Record: record}, nil
}
