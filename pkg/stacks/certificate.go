package stacks

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/acm"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/route53"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type CertificateInput struct {
	fx.In
	Ctx      *pulumi.Context
	Env      commons.Environment
	Provider *aws.Provider
	Zone     *route53.Zone `name:"zone"`
	Domain   string        `name:"domain"`
}

type CertificateOutput struct {
	fx.Out
	Certificate *acm.Certificate    `name:"certificate"`
	Arn         pulumi.StringOutput `name:"certificate_arn"`
}

// BuildCertificate requests a DNS-validated certificate for the environment
// domain and its wildcard. The published ARN comes from the validation
// resource, so consumers are gated on the certificate actually being issued,
// not merely requested.
func BuildCertificate(in CertificateInput) (CertificateOutput, error) {
	cert, err := acm.NewCertificate(in.Ctx, "certificate", &acm.CertificateArgs{
		DomainName:       pulumi.String(in.Domain),
		ValidationMethod: pulumi.String("DNS"),
		SubjectAlternativeNames: pulumi.StringArray{
			pulumi.Sprintf("*.%s", in.Domain),
		},
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return CertificateOutput{}, err
	}

	// Apex and wildcard share one validation record.
	option := cert.DomainValidationOptions.Index(pulumi.Int(0))
	record, err := route53.NewRecord(in.Ctx, "certificate-validation", &route53.RecordArgs{
		ZoneId:         in.Zone.ZoneId,
		Name:           option.ResourceRecordName().Elem(),
		Type:           option.ResourceRecordType().Elem(),
		Records:        pulumi.StringArray{option.ResourceRecordValue().Elem()},
		Ttl:            pulumi.Int(300),
		AllowOverwrite: pulumi.Bool(true),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return CertificateOutput{}, err
	}

	validation, err := acm.NewCertificateValidation(in.Ctx, "certificate-issued", &acm.CertificateValidationArgs{
		CertificateArn:        cert.Arn,
		ValidationRecordFqdns: pulumi.StringArray{record.Fqdn},
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return CertificateOutput{}, err
	}

	return CertificateOutput{
		Certificate: cert,
		Arn:         validation.CertificateArn,
	}, nil
}
