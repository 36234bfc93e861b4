package stacks

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecr"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecs"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/lb"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/rds"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/route53"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/secretsmanager"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ses"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type ExportInput struct {
	fx.In
	Ctx              *pulumi.Context
	VPC              *ec2.Vpc               `name:"vpc"`
	PublicSubnets    []*ec2.Subnet          `name:"public_subnets"`
	PrivateSubnets   []*ec2.Subnet          `name:"private_subnets"`
	AppSecurityGroup *ec2.SecurityGroup     `name:"app_security_group"`
	Cluster          *ecs.Cluster           `name:"ecs_cluster"`
	ALB              *lb.LoadBalancer       `name:"alb"`
	HTTPSListener    *lb.Listener           `name:"https_listener"`
	Zone             *route53.Zone          `name:"zone"`
	Domain           string                 `name:"domain"`
	CertificateArn   pulumi.StringOutput    `name:"certificate_arn"`
	Repository       *ecr.Repository        `name:"repository"`
	DBCluster        *rds.Cluster           `name:"db_cluster"`
	DBSecret         *secretsmanager.Secret `name:"db_secret"`
	MailIdentity     *ses.DomainIdentity    `name:"mail_identity"`
}

// ExportShared publishes the shared output set. Invoking this through the
// container is what pulls every builder in: anything not reachable from
// here is not part of the shared project.
func ExportShared(in ExportInput) error {
	ctx := in.Ctx

	ctx.Export(commons.OutputVpcID, in.VPC.ID())
	ctx.Export(commons.OutputPublicSubnetIDs, subnetIDs(in.PublicSubnets))
	ctx.Export(commons.OutputPrivateSubnetIDs, subnetIDs(in.PrivateSubnets))
	ctx.Export(commons.OutputAppSecurityGroupID, in.AppSecurityGroup.ID())

	ctx.Export(commons.OutputClusterArn, in.Cluster.Arn)
	ctx.Export(commons.OutputClusterName, in.Cluster.Name)

	ctx.Export(commons.OutputALBArn, in.ALB.Arn)
	ctx.Export(commons.OutputALBDNSName, in.ALB.DnsName)
	ctx.Export(commons.OutputALBZoneID, in.ALB.ZoneId)
	ctx.Export(commons.OutputHTTPSListenerArn, in.HTTPSListener.Arn)

	ctx.Export(commons.OutputZoneID, in.Zone.ZoneId)
	ctx.Export(commons.OutputZoneName, pulumi.String(in.Domain))
	ctx.Export(commons.OutputCertificateArn, in.CertificateArn)

	ctx.Export(commons.OutputRepositoryURL, in.Repository.RepositoryUrl)

	ctx.Export(commons.OutputDBEndpoint, in.DBCluster.Endpoint)
	ctx.Export(commons.OutputDBPort, in.DBCluster.Port)
	ctx.Export(commons.OutputDBName, in.DBCluster.DatabaseName)
	ctx.Export(commons.OutputDBSecretArn, in.DBSecret.Arn)

	ctx.Export(commons.OutputMailIdentityArn, in.MailIdentity.Arn)

	return nil
}

func subnetIDs(subnets []*ec2.Subnet) pulumi.StringArray {
	ids := make(pulumi.StringArray, len(subnets))
	for i, subnet := range subnets {
		ids[i] = subnet.ID()
	}
	return ids
}
