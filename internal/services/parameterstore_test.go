package services

import (
	"context"
	"testing"

	"github.com/jaya855/voicepipe/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvParameterStore(t *testing.T) {
	t.Run("GetConfig", func(t *testing.T) {
		t.Setenv("S3_BUCKET_NAME", "voicepipe-artifacts")
		t.Setenv("IAM_ROLE_ARN", "arn:aws:iam::123456789012:role/voicepipe")
		t.Setenv("ALB_DNS_NAME", "voicepipe-123.ap-south-1.elb.amazonaws.com")
		t.Setenv("JOBS_TABLE_NAME", "voicepipe-jobs")

		store := NewEnvParameterStore("dev")
		config, err := store.GetConfig(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "voicepipe-artifacts", config.S3Bucket)
		assert.Equal(t, "arn:aws:iam::123456789012:role/voicepipe", config.AssumeRoleArn)
		assert.Equal(t, "voicepipe-123.ap-south-1.elb.amazonaws.com", config.ALBDNSName)
		assert.Equal(t, "voicepipe-jobs", config.JobsTableName)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("S3_BUCKET_NAME", "voicepipe-artifacts")
		t.Setenv("AZURE_SECRET_NAME", "")
		t.Setenv("AZURE_SECRET_REGION", "")

		store := NewEnvParameterStore("dev")
		config, err := store.GetConfig(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "azure-secrets", config.AzureSecretName)
		assert.Equal(t, "ap-south-1", config.AzureSecretRegion)
	})

	t.Run("GetParameter", func(t *testing.T) {
		t.Setenv("SOME_PARAM", "value")

		store := NewEnvParameterStore("dev")
		value, err := store.GetParameter(context.Background(), "SOME_PARAM")
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	})
}

func TestConfigValidate(t *testing.T) {
	config := &Config{}
	assert.ErrorIs(t, config.Validate(), errors.ErrBucketRequired)

	config.S3Bucket = "voicepipe-artifacts"
	assert.NoError(t, config.Validate())
}
