package service

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/secretsmanager"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/pkg/refs"
)

const ecsTasksAssumePolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"Service": "ecs-tasks.amazonaws.com"},
      "Action": "sts:AssumeRole"
    }
  ]
}`

type IAMInput struct {
	fx.In
	Ctx       *pulumi.Context
	Env       commons.Environment
	Cfg       Config
	Provider  *aws.Provider
	Shared    *refs.Shared
	AppSecret *secretsmanager.Secret `name:"app_secret"`
}

type IAMOutput struct {
	fx.Out
	ExecutionRole *iam.Role `name:"execution_role"`
	TaskRole      *iam.Role `name:"task_role"`
}

// BuildIAM creates the task execution role (image pull, logs, secret
// injection) and the task role the application code runs as.
func BuildIAM(in IAMInput) (IAMOutput, error) {
	execution, err := iam.NewRole(in.Ctx, "execution-role", &iam.RoleArgs{
		Name:             pulumi.Sprintf("platform-%s-%s-execution", in.Env, in.Cfg.Name),
		AssumeRolePolicy: pulumi.String(ecsTasksAssumePolicy),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return IAMOutput{}, err
	}

	if _, err := iam.NewRolePolicyAttachment(in.Ctx, "execution-managed", &iam.RolePolicyAttachmentArgs{
		Role:      execution.Name,
		PolicyArn: pulumi.String("arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"),
	}, pulumi.Provider(in.Provider)); err != nil {
		return IAMOutput{}, err
	}

	if _, err := iam.NewRolePolicy(in.Ctx, "execution-secrets", &iam.RolePolicyArgs{
		Role: execution.ID(),
		Policy: pulumi.JSONMarshal(pulumi.Map{
			"Version": pulumi.String("2012-10-17"),
			"Statement": pulumi.Array{
				pulumi.Map{
					"Effect": pulumi.String("Allow"),
					"Action": pulumi.StringArray{
						pulumi.String("secretsmanager:GetSecretValue"),
					},
					"Resource": pulumi.Array{
						in.AppSecret.Arn,
						in.Shared.DBSecretArn(),
					},
				},
			},
		}),
	}, pulumi.Provider(in.Provider)); err != nil {
		return IAMOutput{}, err
	}

	task, err := iam.NewRole(in.Ctx, "task-role", &iam.RoleArgs{
		Name:             pulumi.Sprintf("platform-%s-%s-task", in.Env, in.Cfg.Name),
		AssumeRolePolicy: pulumi.String(ecsTasksAssumePolicy),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return IAMOutput{}, err
	}

	return IAMOutput{ExecutionRole: execution, TaskRole: task}, nil
}
