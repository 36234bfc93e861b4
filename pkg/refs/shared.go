package refs

import (
	"fmt"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/alamedahq/platform-infra/internal/commons"
)

// Shared is a handle on the shared project's published outputs for one
// environment. Service projects attach to these resources; they never
// redefine them.
type Shared struct {
	ref *pulumi.StackReference
}

func NewShared(ctx *pulumi.Context, env commons.Environment) (*Shared, error) {
	org, err := Organization(ctx)
	if err != nil {
		return nil, err
	}
	ref, err := pulumi.NewStackReference(
		ctx,
		commons.StackRef(org, commons.SharedProject, string(env)),
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &Shared{ref: ref}, nil
}

func (s *Shared) requireString(name string) pulumi.StringOutput {
	return s.ref.GetOutput(pulumi.String(name)).ApplyT(func(v interface{}) (string, error) {
		str, ok := v.(string)
		if !ok || str == "" {
			return "", fmt.Errorf("shared stack output %q is not available, deploy the shared project for this environment first", name)
		}
		return str, nil
	}).(pulumi.StringOutput)
}

func (s *Shared) requireStringList(name string) pulumi.StringArrayOutput {
	return s.ref.GetOutput(pulumi.String(name)).ApplyT(func(v interface{}) ([]string, error) {
		raw, ok := v.([]interface{})
		if !ok || len(raw) == 0 {
			return nil, fmt.Errorf("shared stack output %q is not available, deploy the shared project for this environment first", name)
		}
		out := make([]string, len(raw))
		for i, item := range raw {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("shared stack output %q has a non-string element", name)
			}
			out[i] = str
		}
		return out, nil
	}).(pulumi.StringArrayOutput)
}

func (s *Shared) VpcID() pulumi.StringOutput              { return s.requireString(commons.OutputVpcID) }
func (s *Shared) PublicSubnetIDs() pulumi.StringArrayOutput {
	return s.requireStringList(commons.OutputPublicSubnetIDs)
}
func (s *Shared) PrivateSubnetIDs() pulumi.StringArrayOutput {
	return s.requireStringList(commons.OutputPrivateSubnetIDs)
}
func (s *Shared) AppSecurityGroupID() pulumi.StringOutput {
	return s.requireString(commons.OutputAppSecurityGroupID)
}
func (s *Shared) ClusterArn() pulumi.StringOutput  { return s.requireString(commons.OutputClusterArn) }
func (s *Shared) ClusterName() pulumi.StringOutput { return s.requireString(commons.OutputClusterName) }
func (s *Shared) ALBDNSName() pulumi.StringOutput  { return s.requireString(commons.OutputALBDNSName) }
func (s *Shared) ALBZoneID() pulumi.StringOutput   { return s.requireString(commons.OutputALBZoneID) }
func (s *Shared) HTTPSListenerArn() pulumi.StringOutput {
	return s.requireString(commons.OutputHTTPSListenerArn)
}
func (s *Shared) ZoneID() pulumi.StringOutput   { return s.requireString(commons.OutputZoneID) }
func (s *Shared) ZoneName() pulumi.StringOutput { return s.requireString(commons.OutputZoneName) }
func (s *Shared) CertificateArn() pulumi.StringOutput {
	return s.requireString(commons.OutputCertificateArn)
}
func (s *Shared) RepositoryURL() pulumi.StringOutput {
	return s.requireString(commons.OutputRepositoryURL)
}
func (s *Shared) DBSecretArn() pulumi.StringOutput { return s.requireString(commons.OutputDBSecretArn) }
func (s *Shared) MailIdentityArn() pulumi.StringOutput {
	return s.requireString(commons.OutputMailIdentityArn)
}
