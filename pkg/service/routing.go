package service

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/lb"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/pkg/refs"
)

type RoutingInput struct {
	fx.In
	Ctx      *pulumi.Context
	Env      commons.Environment
	Cfg      Config
	Provider *aws.Provider
	Shared   *refs.Shared
}

type RoutingOutput struct {
	fx.Out
	TargetGroup  *lb.TargetGroup     `name:"target_group"`
	ListenerRule *lb.ListenerRule    `name:"listener_rule"`
	Host         pulumi.StringOutput `name:"service_host"`
}

// BuildRouting attaches the service to the shared HTTPS listener with a
// host-header rule. Rule priorities must be unique per listener and host
// conditions must not overlap between services; an overlap is rejected by
// the provider at apply time, not here.
func BuildRouting(in RoutingInput) (RoutingOutput, error) {
	host := pulumi.Sprintf("%s.%s", in.Cfg.Name, in.Shared.ZoneName())

	targetGroup, err := lb.NewTargetGroup(in.Ctx, "target-group", &lb.TargetGroupArgs{
		Port:       pulumi.Int(in.Cfg.Port),
		Protocol:   pulumi.String("HTTP"),
		TargetType: pulumi.String("ip"),
		VpcId:      in.Shared.VpcID(),
		HealthCheck: &lb.TargetGroupHealthCheckArgs{
			Path:               pulumi.String(in.Cfg.HealthPath),
			Matcher:            pulumi.String("200"),
			Interval:           pulumi.Int(15),
			Timeout:            pulumi.Int(5),
			HealthyThreshold:   pulumi.Int(2),
			UnhealthyThreshold: pulumi.Int(3),
		},
		DeregistrationDelay: pulumi.Int(30),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return RoutingOutput{}, err
	}

	rule, err := lb.NewListenerRule(in.Ctx, "listener-rule", &lb.ListenerRuleArgs{
		ListenerArn: in.Shared.HTTPSListenerArn(),
		Priority:    pulumi.Int(in.Cfg.Priority),
		Actions: lb.ListenerRuleActionArray{
			&lb.ListenerRuleActionArgs{
				Type:           pulumi.String("forward"),
				TargetGroupArn: targetGroup.Arn,
			},
		},
		Conditions: lb.ListenerRuleConditionArray{
			&lb.ListenerRuleConditionArgs{
				HostHeader: &lb.ListenerRuleConditionHostHeaderArgs{
					Values: pulumi.StringArray{host},
				},
			},
		},
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return RoutingOutput{}, err
	}

	return RoutingOutput{TargetGroup: targetGroup, ListenerRule: rule, Host: host}, nil
}
