package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/jaya855/voicepipe/internal/dao/jobdao"
	"github.com/jaya855/voicepipe/internal/services"
)

func ProvideContext() context.Context {
	return context.Background()
}

func ProvideAWSConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx)
}

func ProvideSSMClient(config aws.Config) *ssm.Client {
	return ssm.NewFromConfig(config)
}

func ProvideS3Client(config aws.Config) *s3.Client {
	return s3.NewFromConfig(config)
}

func ProvideDynamoDB(config aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(config)
}

func ProvideParameterStore(client *ssm.Client, env string, disableSSM DisableSSM) services.ParameterStore {
	if disableSSM {
		return services.NewEnvParameterStore(env)
	}
	return services.NewSSMParameterStore(client, env)
}

// ProvideAppConfig loads configuration, overlays the optional settings file,
// and fails fast when required values are missing.
func ProvideAppConfig(ctx context.Context, store services.ParameterStore, settingsPath SettingsPath) (*services.Config, error) {
	appConfig, err := store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := services.LoadSettings(string(settingsPath))
	if err != nil {
		return nil, err
	}
	settings.Apply(appConfig)

	if err := appConfig.Validate(); err != nil {
		return nil, err
	}

	return appConfig, nil
}

func ProvideS3Store(client *s3.Client, appConfig *services.Config) *services.S3Store {
	return services.NewS3Store(client, appConfig.S3Bucket)
}

// ProvideJobDAO returns nil when no jobs table is configured; job tracking
// is optional.
func ProvideJobDAO(client *dynamodb.Client, appConfig *services.Config) *jobdao.DAO {
	if appConfig.JobsTableName == "" {
		return nil
	}
	return jobdao.New(client, appConfig.JobsTableName)
}

func ProvideSecretsManager(config aws.Config, appConfig *services.Config) *services.SecretsManagerService {
	return services.NewSecretsManagerService(config, appConfig)
}
