package commons

import "fmt"

// Project names as they appear in each Pulumi.yaml. Stack references are
// built from these, so they move together with the project directories.
const (
	AccountsProject = "accounts"
	SharedProject   = "shared"
	APIProject      = "api"
)

// AccountsStack is the single stack of the accounts project. The accounts
// project is deployed once and holds the mapping for every environment;
// shared and api are deployed once per environment instead.
const AccountsStack = "main"

const DefaultRegion = "us-east-2"

// Published output names. These are the inter-project wire contract: only
// the producing project may change them, and a rename requires updating the
// refs wrappers and every consumer in the same change.
const (
	OutputAccounts = "accounts"

	OutputVpcID              = "vpcId"
	OutputPublicSubnetIDs    = "publicSubnetIds"
	OutputPrivateSubnetIDs   = "privateSubnetIds"
	OutputAppSecurityGroupID = "appSecurityGroupId"
	OutputClusterArn         = "clusterArn"
	OutputClusterName        = "clusterName"
	OutputALBArn             = "albArn"
	OutputALBDNSName         = "albDnsName"
	OutputALBZoneID          = "albZoneId"
	OutputHTTPSListenerArn   = "httpsListenerArn"
	OutputZoneID             = "zoneId"
	OutputZoneName           = "zoneName"
	OutputCertificateArn     = "certificateArn"
	OutputRepositoryURL      = "repositoryUrl"
	OutputDBEndpoint         = "dbEndpoint"
	OutputDBPort             = "dbPort"
	OutputDBName             = "dbName"
	OutputDBSecretArn        = "dbSecretArn"
	OutputMailIdentityArn    = "mailIdentityArn"
)

// Keys inside each published account record.
const (
	AccountKeyID      = "id"
	AccountKeyRoleArn = "roleArn"
)

// StackRef names the deployment another project reads outputs from.
func StackRef(org, project, stack string) string {
	return fmt.Sprintf("%s/%s/%s", org, project, stack)
}
