package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is an optional YAML file overlaid on top of the parameter store
// configuration. Only non-empty fields override.
type Settings struct {
	S3Bucket          string `yaml:"s3_bucket"`
	AssumeRoleArn     string `yaml:"assume_role_arn"`
	AzureSecretName   string `yaml:"azure_secret_name"`
	AzureSecretRegion string `yaml:"azure_secret_region"`
	ALBDNSName        string `yaml:"alb_dns_name"`
	JobsTableName     string `yaml:"jobs_table_name"`
}

// LoadSettings reads a settings file. A missing path returns empty settings.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		return Settings{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	return settings, nil
}

// Apply overlays the settings onto a config.
func (s Settings) Apply(config *Config) {
	if s.S3Bucket != "" {
		config.S3Bucket = s.S3Bucket
	}
	if s.AssumeRoleArn != "" {
		config.AssumeRoleArn = s.AssumeRoleArn
	}
	if s.AzureSecretName != "" {
		config.AzureSecretName = s.AzureSecretName
	}
	if s.AzureSecretRegion != "" {
		config.AzureSecretRegion = s.AzureSecretRegion
	}
	if s.ALBDNSName != "" {
		config.ALBDNSName = s.ALBDNSName
	}
	if s.JobsTableName != "" {
		config.JobsTableName = s.JobsTableName
	}
}
