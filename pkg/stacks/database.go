package stacks

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/rds"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/secretsmanager"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
	"go.uber.org/fx"

	"github.com/alamedahq/platform-infra/internal/commons"
)

type DatabaseInput struct {
	fx.In
	Ctx             *pulumi.Context
	Env             commons.Environment
	Provider        *aws.Provider
	PrivateSubnets  []*ec2.Subnet      `name:"private_subnets"`
	DBSecurityGroup *ec2.SecurityGroup `name:"db_security_group"`
}

type DatabaseOutput struct {
	fx.Out
	Cluster *rds.Cluster           `name:"db_cluster"`
	Secret  *secretsmanager.Secret `name:"db_secret"`
}

const (
	dbEngine        = "aurora-postgresql"
	dbEngineVersion = "15.4"
	dbName          = "platform"
	dbUsername      = "platform"
)

// BuildDatabase provisions the environment's Aurora PostgreSQL cluster and
// publishes its connection material as a Secrets Manager secret so services
// read credentials from the secret, never from stack outputs.
func BuildDatabase(in DatabaseInput) (DatabaseOutput, error) {
	cfg := config.New(in.Ctx, "database")
	password := cfg.RequireSecret("password")

	subnetIDs := make(pulumi.StringArray, len(in.PrivateSubnets))
	for i, subnet := range in.PrivateSubnets {
		subnetIDs[i] = subnet.ID()
	}

	subnetGroup, err := rds.NewSubnetGroup(in.Ctx, "db-subnets", &rds.SubnetGroupArgs{
		SubnetIds: subnetIDs,
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return DatabaseOutput{}, err
	}

	cluster, err := rds.NewCluster(in.Ctx, "db", &rds.ClusterArgs{
		ClusterIdentifier:   pulumi.Sprintf("platform-%s", in.Env),
		Engine:              pulumi.String(dbEngine),
		EngineVersion:       pulumi.String(dbEngineVersion),
		DatabaseName:        pulumi.String(dbName),
		MasterUsername:      pulumi.String(dbUsername),
		MasterPassword:      password,
		DbSubnetGroupName:   subnetGroup.Name,
		VpcSecurityGroupIds: pulumi.StringArray{in.DBSecurityGroup.ID()},
		StorageEncrypted:    pulumi.Bool(true),
		BackupRetentionPeriod: pulumi.Int(7),
		PreferredBackupWindow: pulumi.String("03:00-04:00"),
		SkipFinalSnapshot:     pulumi.Bool(in.Env != commons.Prod),
		FinalSnapshotIdentifier: pulumi.Sprintf("platform-%s-final", in.Env),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return DatabaseOutput{}, err
	}

	if _, err := rds.NewClusterInstance(in.Ctx, "db-writer", &rds.ClusterInstanceArgs{
		ClusterIdentifier: cluster.ID(),
		InstanceClass:     pulumi.String("db.t4g.medium"),
		Engine:            rds.EngineType(dbEngine),
		EngineVersion:     pulumi.String(dbEngineVersion),
	}, pulumi.Provider(in.Provider)); err != nil {
		return DatabaseOutput{}, err
	}

	secret, err := secretsmanager.NewSecret(in.Ctx, "db-credentials", &secretsmanager.SecretArgs{
		Name:        pulumi.Sprintf("platform/%s/database", in.Env),
		Description: pulumi.String("database connection material"),
	}, pulumi.Provider(in.Provider))
	if err != nil {
		return DatabaseOutput{}, err
	}

	if _, err := secretsmanager.NewSecretVersion(in.Ctx, "db-credentials-value", &secretsmanager.SecretVersionArgs{
		SecretId: secret.ID(),
		SecretString: pulumi.JSONMarshal(pulumi.Map{
			"engine":   pulumi.String("postgres"),
			"host":     cluster.Endpoint,
			"port":     cluster.Port,
			"dbname":   pulumi.String(dbName),
			"username": pulumi.String(dbUsername),
			"password": password,
		}),
	}, pulumi.Provider(in.Provider)); err != nil {
		return DatabaseOutput{}, err
	}

	return DatabaseOutput{Cluster: cluster, Secret: secret}, nil
}
