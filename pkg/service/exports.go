package service

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecs"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/lb"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/route53"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"
)

type ExportInput struct {
	fx.In
	Ctx         *pulumi.Context
	Cfg         Config
	Service     *ecs.Service        `name:"ecs_service"`
	TargetGroup *lb.TargetGroup     `name:"target_group"`
	Record      *route53.Record     `name:"service_record"`
	Host        pulumi.StringOutput `name:"service_host"`
}

// ExportService publishes the service's own output set. Invoking this
// through the container pulls the whole service graph in.
func ExportService(in ExportInput) error {
	in.Ctx.Export("serviceName", in.Service.Name)
	in.Ctx.Export("targetGroupArn", in.TargetGroup.Arn)
	in.Ctx.Export("host", in.Host)
	in.Ctx.Export("url", pulumi.Sprintf("https://%s", in.Host))
	return nil
}
