// Package service holds the builders of a service project. A service only
// attaches to shared infrastructure (cluster registration, target group,
// listener rule, DNS record in the shared zone); it never redefines it.
package service

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// Config is the per-service stack configuration, read once at container
// construction and threaded through every builder.
type Config struct {
	Name         string
	Port         int
	Priority     int
	ImageTag     string
	DesiredCount int
	CPU          string
	Memory       string
	HealthPath   string
}

func LoadConfig(ctx *pulumi.Context) Config {
	cfg := config.New(ctx, "service")

	c := Config{
		Name:         "api",
		Port:         8080,
		Priority:     100,
		ImageTag:     "latest",
		DesiredCount: 2,
		CPU:          "256",
		Memory:       "512",
		HealthPath:   "/healthz",
	}
	if v := cfg.Get("name"); v != "" {
		c.Name = v
	}
	if v := cfg.GetInt("port"); v != 0 {
		c.Port = v
	}
	if v := cfg.GetInt("priority"); v != 0 {
		c.Priority = v
	}
	if v := cfg.Get("imageTag"); v != "" {
		c.ImageTag = v
	}
	if v := cfg.GetInt("desiredCount"); v != 0 {
		c.DesiredCount = v
	}
	if v := cfg.Get("cpu"); v != "" {
		c.CPU = v
	}
	if v := cfg.Get("memory"); v != "" {
		c.Memory = v
	}
	if v := cfg.Get("healthPath"); v != "" {
		c.HealthPath = v
	}
	return c
}
