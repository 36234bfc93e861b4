package commons

import "fmt"

// Environment is a named deployment context. Every project is deployed once
// per environment, and the stack name of a deployment is the environment
// name, so the two are interchangeable throughout this repository.
type Environment string

const (
	Dev     Environment = "dev"
	Staging Environment = "staging"
	Prod    Environment = "prod"
)

// Environments lists the deployment contexts the accounts project
// provisions. Adding an environment is a code change here plus a deployment
// of the accounts project; downstream projects pick it up by stack name.
func Environments() []Environment {
	return []Environment{Dev, Staging, Prod}
}

// ParseEnvironment maps a stack name onto an environment. It validates shape
// only; whether an account exists for the environment is checked at account
// resolution, where a miss is a deployment-time fatal error.
func ParseEnvironment(stack string) (Environment, error) {
	if stack == "" {
		return "", fmt.Errorf("stack name is empty, select a stack before deploying")
	}
	for _, r := range stack {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return "", fmt.Errorf("stack name %q is not a valid environment name (lowercase letters, digits and hyphens only)", stack)
		}
	}
	return Environment(stack), nil
}
