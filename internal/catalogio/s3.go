package catalogio

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/aristath/formulary/internal/domain"
)

// S3Source loads a catalog from an object in an S3 bucket, for
// deployments where the catalog lives in object storage instead of on
// local disk next to the service binary.
type S3Source struct {
	Bucket string
	Key    string
	Region string
	Log    zerolog.Logger

	client     *s3.Client
	downloader *manager.Downloader
}

// NewS3Source builds an S3Source for bucket/key, resolving AWS
// credentials the standard way (environment, shared config, instance
// role) via the default config loader.
func NewS3Source(ctx context.Context, bucket, key, region string, log zerolog.Logger) (*S3Source, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("catalogio: loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Source{
		Bucket:     bucket,
		Key:        key,
		Region:     region,
		Log:        log.With().Str("component", "catalogio.s3").Logger(),
		client:     client,
		downloader: manager.NewDownloader(client),
	}, nil
}

// Fetch implements Fetcher. It uses the S3 download manager rather than a
// plain GetObject so large catalogs transfer via concurrent ranged parts.
func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	n, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("catalogio: fetching s3://%s/%s: %w", s.Bucket, s.Key, err)
	}

	s.Log.Debug().Str("bucket", s.Bucket).Str("key", s.Key).Int64("bytes", n).Msg("loaded catalog object")
	return buf.Bytes(), nil
}

// Load implements Source.
func (s *S3Source) Load(ctx context.Context) (*domain.Catalog, error) {
	raw, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(raw, s.Log)
}
