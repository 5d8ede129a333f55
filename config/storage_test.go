package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() *S3Config {
	awsCfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("test-access", "test-secret", ""),
	}
	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: "recipeops-test-assets",
	}
}

func TestGeneratePresignedURL(t *testing.T) {
	cfg := testS3Config()

	url, err := cfg.GeneratePresignedURL(context.Background(), "recipe-images/abc.png", time.Hour)
	require.NoError(t, err)

	assert.Contains(t, url, "recipeops-test-assets")
	assert.Contains(t, url, "recipe-images/abc.png")
	assert.Contains(t, url, "X-Amz-Signature")
}

func TestNewS3ConfigPrivateBucketFlag(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "recipeops-private")
	t.Setenv("S3_PRIVATE_BUCKET", "true")
	t.Setenv("AWS_REGION", "us-east-1")

	cfg, err := NewS3Config(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "recipeops-private", cfg.BucketName)
	assert.True(t, cfg.PrivateBucket)
}
