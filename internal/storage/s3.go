package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/OFFIS-RIT/catalog-graph/internal/config"
	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/jsonfile"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithBaseEndpoint(cfg.Endpoint),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client, nil
}

func PutFile(ctx context.Context, client *s3.Client, bucket, key, contentType string, file io.ReadSeeker) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return nil
}

// ContentType returns the MIME type of the serialized format.
func ContentType(format jsonfile.Format) string {
	if format == jsonfile.FormatLines {
		return "application/x-ndjson"
	}
	return "application/json"
}

// GraphObjectWriter uploads the serialized graph document as one object.
type GraphObjectWriter struct {
	client *s3.Client
	bucket string
	key    string
	format jsonfile.Format
}

func NewGraphObjectWriter(client *s3.Client, bucket, key string, format jsonfile.Format) *GraphObjectWriter {
	return &GraphObjectWriter{client: client, bucket: bucket, key: key, format: format}
}

func (w *GraphObjectWriter) Name() string {
	return "s3://" + w.bucket + "/" + w.key
}

func (w *GraphObjectWriter) WriteGraph(ctx context.Context, doc *common.GraphDocument) error {
	data, err := jsonfile.EncodeBytes(doc, w.format)
	if err != nil {
		return err
	}
	return PutFile(ctx, w.client, w.bucket, w.key, ContentType(w.format), bytes.NewReader(data))
}
