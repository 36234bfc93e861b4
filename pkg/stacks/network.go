// Package stacks holds the builders of the shared project: the
// per-environment infrastructure every service attaches to. Each builder is
// wired through the dig container in pkg/bootstrap and creates all of its
// resources through the environment's scoped provider.
package stacks

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ec2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type NetworkInput struct {
	fx.In
	Ctx      *pulumi.Context
	Env      commons.Environment
	Provider *aws.Provider
}

type NetworkOutput struct {
	fx.Out
	VPC              *ec2.Vpc           `name:"vpc"`
	PublicSubnets    []*ec2.Subnet      `name:"public_subnets"`
	PrivateSubnets   []*ec2.Subnet      `name:"private_subnets"`
	ALBSecurityGroup *ec2.SecurityGroup `name:"alb_security_group"`
	AppSecurityGroup *ec2.SecurityGroup `name:"app_security_group"`
	DBSecurityGroup  *ec2.SecurityGroup `name:"db_security_group"`
}

const (
	defaultCIDR = "10.20.0.0/16"
	appPort     = 8080
	dbPort      = 5432
)

func defaultAZs(region string) []string {
	return []string{region + "a", region + "b"}
}

// BuildNetwork provisions the environment VPC: two public subnets for the
// load balancer, two private subnets behind a NAT gateway for services and
// the database, and the three security groups that tier them.
func BuildNetwork(in NetworkInput) (NetworkOutput, error) {
	cfg := config.New(in.Ctx, "network")

	cidr := cfg.Get("cidr")
	if cidr == "" {
		cidr = defaultCIDR
	}
	region := config.New(in.Ctx, "platform").Get("region")
	if region == "" {
		region = commons.DefaultRegion
	}
	azs := defaultAZs(region)

	vpc, err := buildVPC(in, cidr)
	if err != nil {
		return NetworkOutput{}, err
	}

	publicSubnets, err := buildSubnets(in, vpc, "public", []string{"10.20.0.0/24", "10.20.1.0/24"}, azs, true)
	if err != nil {
		return NetworkOutput{}, err
	}
	privateSubnets, err := buildSubnets(in, vpc, "private", []string{"10.20.10.0/24", "10.20.11.0/24"}, azs, false)
	if err != nil {
		return NetworkOutput{}, err
	}

	if err := buildRouting(in, vpc, publicSubnets, privateSubnets); err != nil {
		return NetworkOutput{}, err
	}

	albSG, appSG, dbSG, err := buildSecurityGroups(in, vpc)
	if err != nil {
		return NetworkOutput{}, err
	}

	return NetworkOutput{
		VPC:              vpc,
		PublicSubnets:    publicSubnets,
		PrivateSubnets:   privateSubnets,
		ALBSecurityGroup: albSG,
		AppSecurityGroup: appSG,
		DBSecurityGroup:  dbSG,
	}, nil
}

func buildVPC(in NetworkInput, cidr string) (*ec2.Vpc, error) {
	return ec2.NewVpc(in.Ctx, "vpc", &ec2.VpcArgs{
		CidrBlock:          pulumi.String(cidr),
		EnableDnsSupport:   pulumi.Bool(true),
		EnableDnsHostnames: pulumi.Bool(true),
		Tags: pulumi.StringMap{
			"Name":        pulumi.Sprintf("platform-%s", in.Env),
			"environment": pulumi.String(string(in.Env)),
		},
	}, pulumi.Provider(in.Provider))
}

func buildSubnets(in NetworkInput, vpc *ec2.Vpc, tier string, cidrs, azs []string, public bool) ([]*ec2.Subnet, error) {
	subnets := make([]*ec2.Subnet, len(cidrs))
	for i, cidr := range cidrs {
		subnet, err := ec2.NewSubnet(in.Ctx, fmt.Sprintf("%s-%d", tier, i), &ec2.SubnetArgs{
			VpcId:               vpc.ID(),
			CidrBlock:           pulumi.String(cidr),
			AvailabilityZone:    pulumi.String(azs[i%len(azs)]),
			MapPublicIpOnLaunch: pulumi.Bool(public),
			Tags: pulumi.StringMap{
				"Name": pulumi.Sprintf("platform-%s-%s-%d", in.Env, tier, i),
				"tier": pulumi.String(tier),
			},
		}, pulumi.Provider(in.Provider))
		if err != nil {
			return nil, err
		}
		subnets[i] = subnet
	}
	return subnets, nil
}

func buildRouting(in NetworkInput, vpc *ec2.Vpc, public, private []*ec2.Subnet) error {
	igw, err := ec2.NewInternetGateway(in.Ctx, "igw", &ec2.InternetGatewayArgs{
		VpcId: vpc.ID(),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return err
	}

	publicRT, err := ec2.NewRouteTable(in.Ctx, "public-rt", &ec2.RouteTableArgs{
		VpcId: vpc.ID(),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return err
	}
	if _, err := ec2.NewRoute(in.Ctx, "public-default", &ec2.RouteArgs{
		RouteTableId:         publicRT.ID(),
		DestinationCidrBlock: pulumi.String("0.0.0.0/0"),
		GatewayId:            igw.ID(),
	}, pulumi.Provider(in.Provider)); err != nil {
		return err
	}
	for i, subnet := range public {
		if _, err := ec2.NewRouteTableAssociation(in.Ctx, fmt.Sprintf("public-rta-%d", i), &ec2.RouteTableAssociationArgs{
			SubnetId:     subnet.ID(),
			RouteTableId: publicRT.ID(),
		}, pulumi.Provider(in.Provider)); err != nil {
			return err
		}
	}

	eip, err := ec2.NewEip(in.Ctx, "nat-eip", &ec2.EipArgs{
		Domain: pulumi.String("vpc"),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return err
	}
	nat, err := ec2.NewNatGateway(in.Ctx, "nat", &ec2.NatGatewayArgs{
		AllocationId: eip.ID(),
		SubnetId:     public[0].ID(),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return err
	}

	privateRT, err := ec2.NewRouteTable(in.Ctx, "private-rt", &ec2.RouteTableArgs{
		VpcId: vpc.ID(),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return err
	}
	if _, err := ec2.NewRoute(in.Ctx, "private-default", &ec2.RouteArgs{
		RouteTableId:         privateRT.ID(),
		DestinationCidrBlock: pulumi.String("0.0.0.0/0"),
		NatGatewayId:         nat.ID(),
	}, pulumi.Provider(in.Provider)); err != nil {
		return err
	}
	for i, subnet := range private {
		if _, err := ec2.NewRouteTableAssociation(in.Ctx, fmt.Sprintf("private-rta-%d", i), &ec2.RouteTableAssociationArgs{
			SubnetId:     subnet.ID(),
			RouteTableId: privateRT.ID(),
		}, pulumi.Provider(in.Provider)); err != nil {
			return err
		}
	}

	return nil
}

func buildSecurityGroups(in NetworkInput, vpc *ec2.Vpc) (alb, app, db *ec2.SecurityGroup, err error) {
	egressAll := ec2.SecurityGroupEgressArray{
		&ec2.SecurityGroupEgressArgs{
			FromPort:   pulumi.Int(0),
			ToPort:     pulumi.Int(0),
			Protocol:   pulumi.String("-1"),
			CidrBlocks: pulumi.StringArray{pulumi.String("0.0.0.0/0")},
		},
	}

	alb, err = ec2.NewSecurityGroup(in.Ctx, "alb-sg", &ec2.SecurityGroupArgs{
		VpcId:       vpc.ID(),
		Description: pulumi.String("load balancer, open to the internet"),
		Ingress: ec2.SecurityGroupIngressArray{
			&ec2.SecurityGroupIngressArgs{
				FromPort:   pulumi.Int(80),
				ToPort:     pulumi.Int(80),
				Protocol:   pulumi.String("tcp"),
				CidrBlocks: pulumi.StringArray{pulumi.String("0.0.0.0/0")},
			},
			&ec2.SecurityGroupIngressArgs{
				FromPort:   pulumi.Int(443),
				ToPort:     pulumi.Int(443),
				Protocol:   pulumi.String("tcp"),
				CidrBlocks: pulumi.StringArray{pulumi.String("0.0.0.0/0")},
			},
		},
		Egress: egressAll,
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return nil, nil, nil, err
	}

	app, err = ec2.NewSecurityGroup(in.Ctx, "app-sg", &ec2.SecurityGroupArgs{
		VpcId:       vpc.ID(),
		Description: pulumi.String("service tasks, reachable from the load balancer only"),
		Ingress: ec2.SecurityGroupIngressArray{
			&ec2.SecurityGroupIngressArgs{
				FromPort:       pulumi.Int(appPort),
				ToPort:         pulumi.Int(appPort),
				Protocol:       pulumi.String("tcp"),
				SecurityGroups: pulumi.StringArray{alb.ID()},
			},
		},
		Egress: egressAll,
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return nil, nil, nil, err
	}

	db, err = ec2.NewSecurityGroup(in.Ctx, "db-sg", &ec2.SecurityGroupArgs{
		VpcId:       vpc.ID(),
		Description: pulumi.String("database, reachable from service tasks only"),
		Ingress: ec2.SecurityGroupIngressArray{
			&ec2.SecurityGroupIngressArgs{
				FromPort:       pulumi.Int(dbPort),
				ToPort:         pulumi.Int(dbPort),
				Protocol:       pulumi.String("tcp"),
				SecurityGroups: pulumi.StringArray{app.ID()},
			},
		},
		Egress: egressAll,
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return nil, nil, nil, err
	}

	return alb, app, db, nil
}
