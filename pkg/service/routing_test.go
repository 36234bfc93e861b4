package service

import (
	"sync"
	"testing"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alamedahq/platform-infra/internal/commons"
	"github.com/alamedahq/platform-infra/internal/enginetest"
	"github.com/alamedahq/platform-infra/pkg/refs"
)

func sharedMonitor() *enginetest.Monitor {
	return &enginetest.Monitor{
		StackOutputs: map[string]map[string]interface{}{
			"organization/shared/dev": {
				commons.OutputVpcID:            "vpc-0123",
				commons.OutputZoneName:         "dev.alameda.dev",
				commons.OutputHTTPSListenerArn: "arn:aws:elasticloadbalancing:listener/https",
			},
		},
	}
}

func runRouting(t *testing.T, monitor *enginetest.Monitor, wantHost string) {
	t.Helper()
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		provider, err := aws.NewProvider(ctx, "aws-dev", &aws.ProviderArgs{
			Region: pulumi.String(commons.DefaultRegion),
		})
		if err != nil {
			return err
		}
		shared, err := refs.NewShared(ctx, commons.Dev)
		if err != nil {
			return err
		}

		out, err := BuildRouting(RoutingInput{
			Ctx:      ctx,
			Env:      commons.Dev,
			Cfg:      LoadConfig(ctx),
			Provider: provider,
			Shared:   shared,
		})
		if err != nil {
			return err
		}

		var wg sync.WaitGroup
		wg.Add(1)
		out.Host.ApplyT(func(host string) error {
			defer wg.Done()
			assert.Equal(t, wantHost, host)
			return nil
		})
		wg.Wait()
		return nil
	}, pulumi.WithMocks(commons.APIProject, "dev", monitor))
	require.NoError(t, err)
}

func listenerRule(t *testing.T, monitor *enginetest.Monitor) enginetest.Registration {
	t.Helper()
	rules := monitor.Registered("aws:lb/listenerRule:ListenerRule")
	require.Len(t, rules, 1)
	return rules[0]
}

func hostHeaderValues(t *testing.T, rule enginetest.Registration) []string {
	t.Helper()
	conditions := rule.Inputs["conditions"].ArrayValue()
	require.Len(t, conditions, 1)
	values := conditions[0].ObjectValue()["hostHeader"].ObjectValue()["values"].ArrayValue()
	hosts := make([]string, len(values))
	for i, v := range values {
		hosts[i] = v.StringValue()
	}
	return hosts
}

func TestRoutingDefaults(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("PULUMI_CONFIG", `{"platform:org":"organization"}`)
	monitor := sharedMonitor()
	runRouting(t, monitor, "api.dev.alameda.dev")

	rule := listenerRule(t, monitor)
	assert.EqualValues(100, rule.Inputs["priority"].NumberValue())
	assert.Equal([]string{"api.dev.alameda.dev"}, hostHeaderValues(t, rule))
	assert.Equal("arn:aws:elasticloadbalancing:listener/https", rule.Inputs["listenerArn"].StringValue())

	groups := monitor.Registered("aws:lb/targetGroup:TargetGroup")
	require.Len(t, groups, 1)
	assert.EqualValues(8080, groups[0].Inputs["port"].NumberValue())
	assert.Equal("/healthz", groups[0].Inputs["healthCheck"].ObjectValue()["path"].StringValue())
}

func TestSecondServiceGetsItsOwnHostAndPriority(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("PULUMI_CONFIG", `{"platform:org":"organization","service:name":"billing","service:priority":"110"}`)

	monitor := sharedMonitor()
	runRouting(t, monitor, "billing.dev.alameda.dev")

	rule := listenerRule(t, monitor)
	assert.EqualValues(110, rule.Inputs["priority"].NumberValue())
	assert.Equal([]string{"billing.dev.alameda.dev"}, hostHeaderValues(t, rule))
}
