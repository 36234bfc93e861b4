// infractl is the operator wrapper around the pulumi CLI: it knows where
// each project lives and which stack an environment maps to, so deployments
// are always run against the right pair.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/AlekSi/pointer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alamedahq/platform-infra/internal/commons"
)

var projectDirs = map[string]string{
	commons.AccountsProject: "cmd/accounts",
	commons.SharedProject:   "cmd/shared",
	commons.APIProject:      "cmd/api",
}

// ServiceConfig is what a service process needs at runtime, assembled from
// the shared stack's outputs.
type ServiceConfig struct {
	Environment *string `json:"ENVIRONMENT"`
	DatabaseURL *string `json:"DATABASE_SECRET_ARN"`
	ClusterName *string `json:"CLUSTER_NAME"`
	Zone        *string `json:"ZONE_NAME"`
	Registry    *string `json:"REGISTRY_URL"`
}

func stackFor(project, env string) string {
	if project == commons.AccountsProject {
		return commons.AccountsStack
	}
	return env
}

func runPulumi(logger *zap.Logger, project, env string, args ...string) error {
	dir, ok := projectDirs[project]
	if !ok {
		return fmt.Errorf("unknown project %q", project)
	}
	stack := stackFor(project, env)

	full := append([]string{"-C", dir}, args...)
	full = append(full, "--stack", stack)

	logger.Info("running pulumi",
		zap.String("project", project),
		zap.String("stack", stack),
		zap.Strings("args", args),
	)

	cmd := exec.Command("pulumi", full...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	var project, env string

	rootCmd := &cobra.Command{
		Use:   "infractl",
		Short: "Deploy and inspect the platform's Pulumi projects",
	}
	rootCmd.PersistentFlags().StringVarP(&project, "project", "p", commons.SharedProject, "project to operate on (accounts, shared, api)")
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", string(commons.Dev), "environment / stack name")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the changes a deployment would make",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPulumi(logger, project, env, "preview", "--diff")
		},
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Deploy the project for the selected environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPulumi(logger, project, env, "up", "--yes")
		},
	}

	destroyCmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the project's resources for the selected environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPulumi(logger, project, env, "destroy", "--yes")
		},
	}

	outputsCmd := &cobra.Command{
		Use:   "outputs",
		Short: "Show the project's published outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPulumi(logger, project, env, "stack", "output", "--json")
		},
	}

	serviceConfigCmd := &cobra.Command{
		Use:   "service-config",
		Short: "Render runtime configuration for a service from the shared stack's outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := exec.Command(
				"pulumi", "-C", projectDirs[commons.SharedProject],
				"stack", "output", "--json", "--stack", env,
			).Output()
			if err != nil {
				return fmt.Errorf("reading shared stack outputs: %w", err)
			}

			var outputs map[string]interface{}
			if err := json.Unmarshal(out, &outputs); err != nil {
				return fmt.Errorf("parsing shared stack outputs: %w", err)
			}

			config := &ServiceConfig{
				Environment: pointer.ToString(env),
			}
			if v, ok := outputs[commons.OutputDBSecretArn].(string); ok {
				config.DatabaseURL = pointer.ToString(v)
			}
			if v, ok := outputs[commons.OutputClusterName].(string); ok {
				config.ClusterName = pointer.ToString(v)
			}
			if v, ok := outputs[commons.OutputZoneName].(string); ok {
				config.Zone = pointer.ToString(v)
			}
			if v, ok := outputs[commons.OutputRepositoryURL].(string); ok {
				config.Registry = pointer.ToString(v)
			}

			rendered, err := json.MarshalIndent(config, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(rendered))
			return nil
		},
	}

	rootCmd.AddCommand(previewCmd, upCmd, destroyCmd, outputsCmd, serviceConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}
