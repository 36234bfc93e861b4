package service

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecs"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/lb"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/pkg/refs"
)

type ServiceInput struct {
	fx.In
	Ctx            *pulumi.Context
	Env            commons.Environment
	Cfg            Config
	Provider       *aws.Provider
	Shared         *refs.Shared
	TaskDefinition *ecs.TaskDefinition `name:"task_definition"`
	TargetGroup    *lb.TargetGroup     `name:"target_group"`
	ListenerRule   *lb.ListenerRule    `name:"listener_rule"`
}

type ServiceOutput struct {
	fx.Out
	Service *ecs.Service `name:"ecs_service"`
}

// BuildService registers the Fargate service on the shared cluster. The
// listener rule is an explicit dependency: ECS refuses to start tasks
// behind a target group that is not yet attached to a load balancer.
func BuildService(in ServiceInput) (ServiceOutput, error) {
	svc, err := ecs.NewService(in.Ctx, "service", &ecs.ServiceArgs{
		Name:           pulumi.Sprintf("%s-%s", in.Cfg.Name, in.Env),
		Cluster:        in.Shared.ClusterArn(),
		TaskDefinition: in.TaskDefinition.Arn,
		DesiredCount:   pulumi.Int(in.Cfg.DesiredCount),
		LaunchType:     pulumi.String("FARGATE"),
		NetworkConfiguration: &ecs.ServiceNetworkConfigurationArgs{
			Subnets:        in.Shared.PrivateSubnetIDs(),
			SecurityGroups: pulumi.StringArray{in.Shared.AppSecurityGroupID()},
			AssignPublicIp: pulumi.Bool(false),
		},
		LoadBalancers: ecs.ServiceLoadBalancerArray{
			&ecs.ServiceLoadBalancerArgs{
				TargetGroupArn: in.TargetGroup.Arn,
				ContainerName:  pulumi.String(in.Cfg.Name),
				ContainerPort:  pulumi.Int(in.Cfg.Port),
			},
		},
		HealthCheckGracePeriodSeconds:   pulumi.Int(60),
		DeploymentMinimumHealthyPercent: pulumi.Int(50),
		DeploymentMaximumPercent:        pulumi.Int(200),
	}, pulumi.Provider(in.Provider), pulumi.DependsOn([]pulumi.Resource{in.ListenerRule}))
	if err != nil {
		return ServiceOutput{}, err
	}

	return ServiceOutput{Service: svc}, nil
}
