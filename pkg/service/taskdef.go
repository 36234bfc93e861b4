package service

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecs"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/secretsmanager"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/pkg/refs"
)

type TaskDefinitionInput struct {
	fx.In
	Ctx           *pulumi.Context
	Env           commons.Environment
	Cfg           Config
	Provider      *aws.Provider
	Shared        *refs.Shared
	ExecutionRole *iam.Role              `name:"execution_role"`
	TaskRole      *iam.Role              `name:"task_role"`
	LogGroup      *cloudwatch.LogGroup   `name:"log_group"`
	AppSecret     *secretsmanager.Secret `name:"app_secret"`
}

type TaskDefinitionOutput struct {
	fx.Out
	TaskDefinition *ecs.TaskDefinition `name:"task_definition"`
}

// BuildTaskDefinition renders the Fargate task definition. The image lives
// in the shared registry; building and pushing it is outside this
// repository, only the tag is selected here.
func BuildTaskDefinition(in TaskDefinitionInput) (TaskDefinitionOutput, error) {
	region := config.New(in.Ctx, "platform").Get("region")
	if region == "" {
		region = commons.DefaultRegion
	}

	image := pulumi.Sprintf("%s:%s", in.Shared.RepositoryURL(), in.Cfg.ImageTag)

	containers := pulumi.JSONMarshal(pulumi.Array{
		pulumi.Map{
			"name":      pulumi.String(in.Cfg.Name),
			"image":     image,
			"essential": pulumi.Bool(true),
			"portMappings": pulumi.Array{
				pulumi.Map{
					"containerPort": pulumi.Int(in.Cfg.Port),
					"protocol":      pulumi.String("tcp"),
				},
			},
			"environment": pulumi.Array{
				pulumi.Map{
					"name":  pulumi.String("ENVIRONMENT"),
					"value": pulumi.String(string(in.Env)),
				},
				pulumi.Map{
					"name":  pulumi.String("PORT"),
					"value": pulumi.Sprintf("%d", in.Cfg.Port),
				},
			},
			"secrets": pulumi.Array{
				pulumi.Map{
					"name":      pulumi.String("APP_SECRET"),
					"valueFrom": in.AppSecret.Arn,
				},
				pulumi.Map{
					"name":      pulumi.String("DATABASE_CREDENTIALS"),
					"valueFrom": in.Shared.DBSecretArn(),
				},
			},
			"logConfiguration": pulumi.Map{
				"logDriver": pulumi.String("awslogs"),
				"options": pulumi.Map{
					"awslogs-group":         in.LogGroup.Name,
					"awslogs-region":        pulumi.String(region),
					"awslogs-stream-prefix": pulumi.String(in.Cfg.Name),
				},
			},
		},
	})

	taskDefinition, err := ecs.NewTaskDefinition(in.Ctx, "task", &ecs.TaskDefinitionArgs{
		Family:                  pulumi.Sprintf("%s-%s", in.Cfg.Name, in.Env),
		Cpu:                     pulumi.String(in.Cfg.CPU),
		Memory:                  pulumi.String(in.Cfg.Memory),
		NetworkMode:             pulumi.String("awsvpc"),
		RequiresCompatibilities: pulumi.StringArray{pulumi.String("FARGATE")},
		ExecutionRoleArn:        in.ExecutionRole.Arn,
		TaskRoleArn:             in.TaskRole.Arn,
		ContainerDefinitions:    containers,
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return TaskDefinitionOutput{}, err
	}

	return TaskDefinitionOutput{TaskDefinition: taskDefinition}, nil
}
