package service

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/cloudwatch"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type LogsInput struct {
	fx.In
	Ctx      *pulumi.Context
	Env      commons.Environment
	Cfg      Config
	Provider *aws.Provider
}

type LogsOutput struct {
	fx.Out
	LogGroup *cloudwatch.LogGroup `name:"log_group"`
}

func BuildLogs(in LogsInput) (LogsOutput, error) {
	group, err := cloudwatch.NewLogGroup(in.Ctx, "logs", &cloudwatch.LogGroupArgs{
		Name:            pulumi.Sprintf("/ecs/%s/%s", in.Env, in.Cfg.Name),
		RetentionInDays: pulumi.Int(30),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return LogsOutput{}, err
	}

	return LogsOutput{LogGroup: group}, nil
}
