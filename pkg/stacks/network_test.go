package stacks

import (
	"testing"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/internal/enginetest"
)

func runNetwork(t *testing.T, monitor *enginetest.Monitor) {
	t.Helper()
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		provider, err := aws.NewProvider(ctx, "aws-dev", &aws.ProviderArgs{
			Region: pulumi.String(commons.DefaultRegion),
		})
		if err != nil {
			return err
		}
		_, err = BuildNetwork(NetworkInput{Ctx: ctx, Env: commons.Dev, Provider: provider})
		return err
	}, pulumi.WithMocks(commons.SharedProject, "dev", monitor))
	require.NoError(t, err)
}

func TestNetworkShape(t *testing.T) {
	assert := assert.New(t)
	monitor := &enginetest.Monitor{}
	runNetwork(t, monitor)

	vpcs := monitor.Registered("aws:ec2/vpc:Vpc")
	require.Len(t, vpcs, 1)
	assert.Equal("10.20.0.0/16", vpcs[0].Inputs["cidrBlock"].StringValue())
	assert.True(vpcs[0].Inputs["enableDnsSupport"].BoolValue())
	assert.True(vpcs[0].Inputs["enableDnsHostnames"].BoolValue())

	subnets := monitor.Registered("aws:ec2/subnet:Subnet")
	assert.Len(subnets, 4)

	public := 0
	for _, s := range subnets {
		if s.Inputs["mapPublicIpOnLaunch"].BoolValue() {
			public++
		}
	}
	assert.Equal(2, public)

	// One NAT gateway serves both private subnets.
	assert.Len(monitor.Registered("aws:ec2/natGateway:NatGateway"), 1)
	assert.Len(monitor.Registered("aws:ec2/internetGateway:InternetGateway"), 1)
	assert.Len(monitor.Registered("aws:ec2/routeTableAssociation:RouteTableAssociation"), 4)
}

func TestSecurityGroupsChainTiers(t *testing.T) {
	assert := assert.New(t)
	monitor := &enginetest.Monitor{}
	runNetwork(t, monitor)

	groups := map[string]enginetest.Registration{}
	for _, g := range monitor.Registered("aws:ec2/securityGroup:SecurityGroup") {
		groups[g.Name] = g
	}
	require.Len(t, groups, 3)

	albIngress := groups["alb-sg"].Inputs["ingress"].ArrayValue()
	require.Len(t, albIngress, 2)
	for _, rule := range albIngress {
		cidrs := rule.ObjectValue()["cidrBlocks"].ArrayValue()
		require.Len(t, cidrs, 1)
		assert.Equal("0.0.0.0/0", cidrs[0].StringValue())
	}

	appIngress := groups["app-sg"].Inputs["ingress"].ArrayValue()
	require.Len(t, appIngress, 1)
	appRule := appIngress[0].ObjectValue()
	assert.EqualValues(appPort, appRule["fromPort"].NumberValue())
	sources := appRule["securityGroups"].ArrayValue()
	require.Len(t, sources, 1)
	assert.Equal("alb-sg-id", sources[0].StringValue())

	dbIngress := groups["db-sg"].Inputs["ingress"].ArrayValue()
	require.Len(t, dbIngress, 1)
	dbRule := dbIngress[0].ObjectValue()
	assert.EqualValues(dbPort, dbRule["fromPort"].NumberValue())
	dbSources := dbRule["securityGroups"].ArrayValue()
	require.Len(t, dbSources, 1)
	assert.Equal("app-sg-id", dbSources[0].StringValue())
}
