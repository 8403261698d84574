package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/gistify/core/internal/config"
)

// Client is the object-store adapter. It uploads file streams and text blobs
// to an S3-compatible bucket and hands back a durable URL plus the
// provider-assigned object key.
type Client struct {
	s3           *s3.Client
	uploader     *manager.Uploader
	bucket       string
	endpoint     string
	region       string
	customDomain string
	pathStyle    bool
}

// New builds a storage client from the app config.
func New(ctx context.Context, opts appcfg.S3Config) (*Client, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	region := strings.TrimSpace(opts.Region)
	if bucket == "" || region == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket and region are required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	endpoint := normalizeEndpoint(opts.Endpoint)
	pathStyle := opts.PathStyle
	if endpoint != "" && !pathStyle {
		// Custom endpoints (MinIO and friends) rarely resolve bucket subdomains.
		pathStyle = true
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	return &Client{
		s3:           client,
		uploader:     manager.NewUploader(client),
		bucket:       bucket,
		endpoint:     endpoint,
		region:       region,
		customDomain: strings.TrimRight(strings.TrimSpace(opts.CustomDomain), "/"),
		pathStyle:    pathStyle,
	}, nil
}

// Upload streams an object into the bucket and returns its public URL and key.
// On error the caller must not assume the object was stored, even partially.
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, string, error) {
	key = normalizeObjectKey(key)
	if key == "" {
		return "", "", fmt.Errorf("invalid object key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("storage upload failed: %w", err)
	}
	return c.PublicURL(key), key, nil
}

// UploadText materializes raw text as a transient local artifact, uploads it,
// and removes the artifact regardless of upload outcome. The object key is
// collision-resistant; a reused display name never overwrites a stored blob.
func (c *Client) UploadText(ctx context.Context, name, text string) (string, string, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." {
		name = "text.txt"
	}
	if filepath.Ext(name) == "" {
		name += ".txt"
	}

	tmp, err := os.CreateTemp("", "gistify-text-*")
	if err != nil {
		return "", "", fmt.Errorf("stage text: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("stage text: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("stage text: %w", err)
	}
	defer tmp.Close()

	return c.Upload(ctx, BuildObjectKey("text_uploads", name), tmp, "text/plain; charset=utf-8")
}

// Fetch retrieves an object's bytes by key. The caller owns the ReadCloser.
func (c *Client) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	key = normalizeObjectKey(key)
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("storage fetch failed: %w", err)
	}
	return out.Body, nil
}

// Delete removes an object from the bucket (best effort; a single call).
func (c *Client) Delete(ctx context.Context, key string) error {
	key = normalizeObjectKey(key)
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage delete failed: %w", err)
	}
	return nil
}

// PublicURL returns the durable address for an object key.
func (c *Client) PublicURL(key string) string {
	key = encodeObjectKey(key)
	if c.customDomain != "" {
		return c.customDomain + "/" + key
	}
	if c.endpoint != "" {
		if c.pathStyle {
			return c.endpoint + "/" + c.bucket + "/" + key
		}
		return insertBucketHost(c.endpoint, c.bucket) + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}
