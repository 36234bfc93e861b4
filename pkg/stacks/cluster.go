package stacks

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecs"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type ClusterInput struct {
	fx.In
	Ctx      *pulumi.Context
	Env      commons.Environment
	Provider *aws.Provider
}

type ClusterOutput struct {
	fx.Out
	Cluster *ecs.Cluster `name:"ecs_cluster"`
}

// BuildCluster provisions the shared ECS cluster service projects register
// their Fargate services on.
func BuildCluster(in ClusterInput) (ClusterOutput, error) {
	cluster, err := ecs.NewCluster(in.Ctx, "cluster", &ecs.ClusterArgs{
		Name: pulumi.Sprintf("platform-%s", in.Env),
		Settings: ecs.ClusterSettingArray{
			&ecs.ClusterSettingArgs{
				Name:  pulumi.String("containerInsights"),
				Value: pulumi.String("enabled"),
			},
		},
		Tags: pulumi.StringMap{
			"environment": pulumi.String(string(in.Env)),
		},
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return ClusterOutput{}, err
	}

	return ClusterOutput{Cluster: cluster}, nil
}
