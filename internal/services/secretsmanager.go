package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/jaya855/voicepipe/internal/azure"
)

const roleSessionName = "voicepipe-secrets"

// SecretsManagerService retrieves the Azure Speech credentials from AWS
// Secrets Manager. When an IAM role ARN is configured, Secrets Manager calls
// run under that assumed role rather than the task's own credentials.
type SecretsManagerService struct {
	client     *secretsmanager.Client
	secretName string

	mu     sync.Mutex
	cached *azure.Credentials
}

// NewSecretsManagerService creates a SecretsManagerService from the base AWS
// config and application config.
func NewSecretsManagerService(cfg aws.Config, appConfig *Config) *SecretsManagerService {
	cfg = cfg.Copy()
	if appConfig.AzureSecretRegion != "" {
		cfg.Region = appConfig.AzureSecretRegion
	}

	if appConfig.AssumeRoleArn != "" {
		provider := stscreds.NewAssumeRoleProvider(
			sts.NewFromConfig(cfg),
			appConfig.AssumeRoleArn,
			func(o *stscreds.AssumeRoleOptions) {
				o.RoleSessionName = roleSessionName
			},
		)
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	return &SecretsManagerService{
		client:     secretsmanager.NewFromConfig(cfg),
		secretName: appConfig.AzureSecretName,
	}
}

// AzureCredentials fetches and caches the Azure Speech API key and region.
// Implements azure.CredentialsProvider.
func (s *SecretsManagerService) AzureCredentials(ctx context.Context) (azure.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}

	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
			return azure.Credentials{}, fmt.Errorf("secret %s does not exist: %w", s.secretName, err)
		}
		return azure.Credentials{}, fmt.Errorf("failed to get secret %s: %w", s.secretName, err)
	}

	if result.SecretString == nil {
		return azure.Credentials{}, fmt.Errorf("secret %s has no string value", s.secretName)
	}

	var creds azure.Credentials
	if err := json.Unmarshal([]byte(*result.SecretString), &creds); err != nil {
		return azure.Credentials{}, fmt.Errorf("failed to unmarshal secret %s: %w", s.secretName, err)
	}

	if creds.APIKey == "" || creds.Region == "" {
		return azure.Credentials{}, fmt.Errorf("secret %s is missing AZURE_API_KEY or AZURE_REGION", s.secretName)
	}

	s.cached = &creds
	return creds, nil
}
