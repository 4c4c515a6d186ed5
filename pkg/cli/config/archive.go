package config

import (
	"context"

	"github.com/m-mizutani/pagecap/pkg/domain/interfaces"
	"github.com/m-mizutani/pagecap/pkg/infra/gcs"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Archive holds Cloud Storage archive configuration
type Archive struct {
	Bucket      string
	Prefix      string
	Credentials string
}

// Flags returns CLI flags for archive configuration
func (c *Archive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket to upload captured pages to",
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("PAGECAP_ARCHIVE_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "archive-prefix",
			Usage:       "Object name prefix for uploaded pages",
			Destination: &c.Prefix,
			Sources:     cli.EnvVars("PAGECAP_ARCHIVE_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "archive-credentials",
			Usage:       "Service account JSON file (default: application default credentials)",
			Destination: &c.Credentials,
			Sources:     cli.EnvVars("PAGECAP_ARCHIVE_CREDENTIALS"),
		},
	}
}

// Configure returns an Archiver, or nil when no bucket is configured
func (c *Archive) Configure(ctx context.Context, profile *Profile) (interfaces.Archiver, error) {
	bucket, prefix := c.Bucket, c.Prefix
	if bucket == "" {
		bucket = profile.Archive.Bucket
	}
	if prefix == "" {
		prefix = profile.Archive.Prefix
	}
	if bucket == "" {
		return nil, nil
	}

	var opts []option.ClientOption
	if c.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(c.Credentials))
	}

	archiver, err := gcs.New(ctx, bucket, prefix, opts...)
	if err != nil {
		return nil, err
	}
	return archiver, nil
}
