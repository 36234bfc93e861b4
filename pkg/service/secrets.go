package service

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/secretsmanager"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type SecretsInput struct {
	fx.In
	Ctx      *pulumi.Context
	Env      commons.Environment
	Cfg      Config
	Provider *aws.Provider
}

type SecretsOutput struct {
	fx.Out
	Secret *secretsmanager.Secret `name:"app_secret"`
}

// BuildSecrets stores the service's application secret. The value comes
// from stack config ("service:secret", set as a secret) and reaches the
// task only as a Secrets Manager reference, never as a plain environment
// variable.
func BuildSecrets(in SecretsInput) (SecretsOutput, error) {
	value := config.New(in.Ctx, "service").RequireSecret("secret")

	secret, err := secretsmanager.NewSecret(in.Ctx, "app-secret", &secretsmanager.SecretArgs{
		Name:        pulumi.Sprintf("platform/%s/%s", in.Env, in.Cfg.Name),
		Description: pulumi.Sprintf("%s application secret", in.Cfg.Name),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return SecretsOutput{}, err
	}

	if _, err := secretsmanager.NewSecretVersion(in.Ctx, "app-secret-value", &secretsmanager.SecretVersionArgs{
		SecretId:     secret.ID(),
		SecretString: value,
	}, pulumi.Provider(in.Provider)); err != nil {
		return SecretsOutput{}, err
	}

	return SecretsOutput{Secret: secret}, nil
}
