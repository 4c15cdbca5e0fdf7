package services

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/jaya855/voicepipe/internal/errors"
)

// Config holds all application configuration values from Parameter Store
type Config struct {
	S3Bucket          string // bucket holding input/, ssml/, audio/ folders
	AssumeRoleArn     string // IAM role assumed for Secrets Manager access
	AzureSecretName   string // Secrets Manager secret with the Azure API key
	AzureSecretRegion string // region the secret lives in
	ALBDNSName        string // public DNS name, reported at startup
	JobsTableName     string // DynamoDB job history table; empty disables tracking
}

// Validate checks that required configuration is present. The service refuses
// to start without a bucket, matching the original deployment's fail-fast
// behavior on missing environment.
func (c *Config) Validate() error {
	if c.S3Bucket == "" {
		return errors.ErrBucketRequired
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.AzureSecretName == "" {
		c.AzureSecretName = "azure-secrets"
	}
	if c.AzureSecretRegion == "" {
		c.AzureSecretRegion = "ap-south-1"
	}
}

// ParameterStore defines the interface for accessing configuration parameters
type ParameterStore interface {
	// GetParameter retrieves a single parameter by name
	GetParameter(ctx context.Context, name string) (string, error)

	// GetConfig loads all application configuration from Parameter Store
	GetConfig(ctx context.Context) (*Config, error)
}

// SSMParameterStore implements ParameterStore using AWS Systems Manager Parameter Store
type SSMParameterStore struct {
	client *ssm.Client
	env    string
	mu     sync.RWMutex
	cache  map[string]string
}

// NewSSMParameterStore creates a new SSM-backed parameter store
func NewSSMParameterStore(client *ssm.Client, env string) *SSMParameterStore {
	return &SSMParameterStore{
		client: client,
		env:    env,
		cache:  make(map[string]string),
	}
}

// GetParameter retrieves a single parameter from SSM Parameter Store
func (s *SSMParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	// Check cache first
	s.mu.RLock()
	if value, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return value, nil
	}
	s.mu.RUnlock()

	result, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: boolPtr(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %s: %w", name, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s not found", name)
	}

	value := *result.Parameter.Value

	s.mu.Lock()
	s.cache[name] = value
	s.mu.Unlock()

	return value, nil
}

// GetConfig loads all application configuration from Parameter Store
func (s *SSMParameterStore) GetConfig(ctx context.Context) (*Config, error) {
	path := fmt.Sprintf("/%s/voicepipe", s.env)

	// Use GetParametersByPath for efficient batch retrieval
	result, err := s.client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           &path,
		Recursive:      boolPtr(true),
		WithDecryption: boolPtr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get parameters by path %s: %w", path, err)
	}

	params := make(map[string]string)
	for _, param := range result.Parameters {
		if param.Name != nil && param.Value != nil {
			params[*param.Name] = *param.Value
		}
	}

	s.mu.Lock()
	for k, v := range params {
		s.cache[k] = v
	}
	s.mu.Unlock()

	config := &Config{
		S3Bucket:          params[fmt.Sprintf("/%s/voicepipe/s3-bucket", s.env)],
		AssumeRoleArn:     params[fmt.Sprintf("/%s/voicepipe/assume-role-arn", s.env)],
		AzureSecretName:   params[fmt.Sprintf("/%s/voicepipe/azure-secret-name", s.env)],
		AzureSecretRegion: params[fmt.Sprintf("/%s/voicepipe/azure-secret-region", s.env)],
		ALBDNSName:        params[fmt.Sprintf("/%s/voicepipe/alb-dns-name", s.env)],
		JobsTableName:     params[fmt.Sprintf("/%s/voicepipe/jobs-table-name", s.env)],
	}
	config.applyDefaults()

	return config, nil
}

// EnvParameterStore implements ParameterStore using environment variables.
// Used for local development and deployments that pass configuration
// directly into the task definition instead of SSM.
type EnvParameterStore struct {
	env string
}

// NewEnvParameterStore creates a new environment variable-backed parameter store
func NewEnvParameterStore(env string) *EnvParameterStore {
	return &EnvParameterStore{
		env: env,
	}
}

// GetParameter retrieves a parameter from environment variables
func (e *EnvParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	return os.Getenv(name), nil
}

// GetConfig loads all application configuration from environment variables
func (e *EnvParameterStore) GetConfig(ctx context.Context) (*Config, error) {
	config := &Config{
		S3Bucket:          os.Getenv("S3_BUCKET_NAME"),
		AssumeRoleArn:     os.Getenv("IAM_ROLE_ARN"),
		AzureSecretName:   os.Getenv("AZURE_SECRET_NAME"),
		AzureSecretRegion: os.Getenv("AZURE_SECRET_REGION"),
		ALBDNSName:        os.Getenv("ALB_DNS_NAME"),
		JobsTableName:     os.Getenv("JOBS_TABLE_NAME"),
	}
	config.applyDefaults()

	return config, nil
}

func boolPtr(b bool) *bool {
	return &b
}
