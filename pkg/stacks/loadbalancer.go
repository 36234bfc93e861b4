package stacks

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/lb"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type LoadBalancerInput struct {
	fx.In
	Ctx              *pulumi.Context
	Env              commons.Environment
	Provider         *aws.Provider
	PublicSubnets    []*ec2.Subnet       `name:"public_subnets"`
	ALBSecurityGroup *ec2.SecurityGroup  `name:"alb_security_group"`
	CertificateArn   pulumi.StringOutput `name:"certificate_arn"`
}

type LoadBalancerOutput struct {
	fx.Out
	ALB           *lb.LoadBalancer `name:"alb"`
	HTTPSListener *lb.Listener     `name:"https_listener"`
}

// BuildLoadBalancer provisions the environment's single application load
// balancer. Services attach listener rules to the HTTPS listener; the
// listener itself answers 404 so an unmatched host never reaches a service.
func BuildLoadBalancer(in LoadBalancerInput) (LoadBalancerOutput, error) {
	subnetIDs := make(pulumi.StringArray, len(in.PublicSubnets))
	for i, subnet := range in.PublicSubnets {
		subnetIDs[i] = subnet.ID()
	}

	alb, err := lb.NewLoadBalancer(in.Ctx, "alb", &lb.LoadBalancerArgs{
		LoadBalancerType: pulumi.String("application"),
		Internal:         pulumi.Bool(false),
		Subnets:          subnetIDs,
		SecurityGroups:   pulumi.StringArray{in.ALBSecurityGroup.ID()},
		Tags: pulumi.StringMap{
			"environment": pulumi.String(string(in.Env)),
		},
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return LoadBalancerOutput{}, err
	}

	if _, err := lb.NewListener(in.Ctx, "http", &lb.ListenerArgs{
		LoadBalancerArn: alb.Arn,
		Port:            pulumi.Int(80),
		Protocol:        pulumi.String("HTTP"),
		DefaultActions: lb.ListenerDefaultActionArray{
			&lb.ListenerDefaultActionArgs{
				Type: pulumi.String("redirect"),
				Redirect: &lb.ListenerDefaultActionRedirectArgs{
					Port:       pulumi.String("443"),
					Protocol:   pulumi.String("HTTPS"),
					StatusCode: pulumi.String("HTTP_301"),
				},
			},
		},
	}, pulumi.Provider(in.Provider)); err != nil {
		return LoadBalancerOutput{}, err
	}

	https, err := lb.NewListener(in.Ctx, "https", &lb.ListenerArgs{
		LoadBalancerArn: alb.Arn,
		Port:            pulumi.Int(443),
		Protocol:        pulumi.String("HTTPS"),
		SslPolicy:       pulumi.String("ELBSecurityPolicy-TLS13-1-2-2021-06"),
		CertificateArn:  in.CertificateArn,
		DefaultActions: lb.ListenerDefaultActionArray{
			&lb.ListenerDefaultActionArgs{
				Type: pulumi.String("fixed-response"),
				FixedResponse: &lb.ListenerDefaultActionFixedResponseArgs{
					ContentType: pulumi.String("text/plain"),
					MessageBody: pulumi.String("no such service"),
					StatusCode:  pulumi.String("404"),
				},
			},
		},
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return LoadBalancerOutput{}, err
	}

	return LoadBalancerOutput{ALB: alb, HTTPSListener: https}, nil
}
