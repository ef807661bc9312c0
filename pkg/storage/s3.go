package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/blob/s3blob"
)

// openS3Bucket opens the bucket named by the URI authority with the resolved
// S3 settings. Settings that are absent fall through to the default AWS
// credential chain.
func openS3Bucket(ctx context.Context, uri objectURI, settings map[string]string) (*blob.Bucket, string, error) {
	if uri.host == "" {
		return nil, "", errors.Errorf("no bucket in storage URI %q", uri.raw)
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region, ok := settings[settingRegion]; ok {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	if key, ok := settings[settingKey]; ok {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, settings[settingSecret], ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to load AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint, ok := settings[settingEndpointURL]; ok {
			// custom endpoints are S3 compatible stores that want path style
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	bucket, err := s3blob.OpenBucketV2(ctx, client, uri.host, nil)
	if err != nil {
		return nil, "", err
	}
	return bucket, uri.key(), nil
}
