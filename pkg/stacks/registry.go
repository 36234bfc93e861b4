package stacks

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecr"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type RegistryInput struct {
	fx.In
	Ctx      *pulumi.Context
	Env      commons.Environment
	Provider *aws.Provider
}

type RegistryOutput struct {
	fx.Out
	Repository *ecr.Repository `name:"repository"`
}

// BuildRegistry provisions the image repository service builds push to.
// Building and pushing images is outside this repository; only the
// repository itself is shared infrastructure.
func BuildRegistry(in RegistryInput) (RegistryOutput, error) {
	repository, err := ecr.NewRepository(in.Ctx, "repository", &ecr.RepositoryArgs{
		Name:               pulumi.String("platform/api"),
		ImageTagMutability: pulumi.String("IMMUTABLE"),
		ImageScanningConfiguration: &ecr.RepositoryImageScanningConfigurationArgs{
			ScanOnPush: pulumi.Bool(true),
		},
		Tags: pulumi.StringMap{
			"environment": pulumi.String(string(in.Env)),
		},
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return RegistryOutput{}, err
	}

	return RegistryOutput{Repository: repository}, nil
}
