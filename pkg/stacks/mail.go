package stacks

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/route53"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ses"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type MailInput struct {
	fx.In
	Ctx      *pulumi.Context
	Env      commons.Environment
	Provider *aws.Provider
	Zone     *route53.Zone `name:"zone"`
	Domain   string        `name:"domain"`
}

type MailOutput struct {
	fx.Out
	Identity *ses.DomainIdentity `name:"mail_identity"`
}

// BuildMail proves ownership of the environment domain to SES: identity,
// verification token, TXT record carrying the token, then the verification
// wait. Each stage is gated on the previous one existing.
func BuildMail(in MailInput) (MailOutput, error) {
	identity, err := ses.NewDomainIdentity(in.Ctx, "mail-identity", &ses.DomainIdentityArgs{
		Domain: pulumi.String(in.Domain),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return MailOutput{}, err
	}

	token, err := route53.NewRecord(in.Ctx, "mail-verification-token", &route53.RecordArgs{
		ZoneId:  in.Zone.ZoneId,
		Name:    pulumi.Sprintf("_amazonses.%s", in.Domain),
		Type:    pulumi.String("TXT"),
		Ttl:     pulumi.Int(600),
		Records: pulumi.StringArray{identity.VerificationToken},
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return MailOutput{}, err
	}

	if _, err := ses.NewDomainIdentityVerification(in.Ctx, "mail-verified", &ses.DomainIdentityVerificationArgs{
		Domain: identity.Domain,
	}, pulumi.Provider(in.Provider), pulumi.DependsOn([]pulumi.Resource{token})); err != nil {
		return MailOutput{}, err
	}

	return MailOutput{Identity: identity}, nil
}
