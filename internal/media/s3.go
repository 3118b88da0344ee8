// internal/media/s3.go
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
}

type S3Client struct {
	client    *s3.Client
	presigner *s3.PresignClient
	config    S3Config
}

// Presigned URLs expire after one hour.
const presignExpiry = time.Hour

func NewS3Client(ctx context.Context, cfg S3Config) (*S3Client, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.BucketName == "" {
		return nil, fmt.Errorf("missing required S3 configuration parameters")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	// Verify bucket exists and we have permissions
	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.BucketName),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") {
			return nil, fmt.Errorf("bucket %s not found or you don't have permission to access it", cfg.BucketName)
		}
		return nil, fmt.Errorf("failed to access bucket: %w", err)
	}

	return &S3Client{
		client:    client,
		presigner: s3.NewPresignClient(client),
		config:    cfg,
	}, nil
}

// Upload writes one object with the given metadata.
func (c *S3Client) Upload(ctx context.Context, key string, content []byte, contentType string, metadata map[string]string) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
		Metadata:    metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// UploadMedia stores an uploaded media file under "{mediaType}/{uuid}{ext}"
// and returns the object key.
func (c *S3Client) UploadMedia(ctx context.Context, mediaType, originalFileName, contentType string, file io.Reader, metadata map[string]string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file reader cannot be nil")
	}
	if originalFileName == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	ext := filepath.Ext(originalFileName)
	key := fmt.Sprintf("%s/%s%s", mediaType, uuid.New().String(), ext)

	if contentType == "" {
		contentType = ContentTypeForName(originalFileName)
	}
	if err := c.Upload(ctx, key, content, contentType, metadata); err != nil {
		return "", err
	}
	return key, nil
}

// ObjectInfo describes one stored media object in a listing.
type ObjectInfo struct {
	Key          string            `json:"key"`
	LastModified time.Time         `json:"last_modified"`
	Size         int64             `json:"size"`
	URL          string            `json:"url"`
	Metadata     map[string]string `json:"metadata"`
}

// List returns every object under the prefix, newest first, each with a
// presigned download URL and its object metadata.
func (c *S3Client) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	resp, err := c.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.config.BucketName),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	files := make([]ObjectInfo, 0, len(resp.Contents))
	for _, obj := range resp.Contents {
		info := ObjectInfo{
			Key:      aws.ToString(obj.Key),
			Size:     aws.ToInt64(obj.Size),
			Metadata: map[string]string{},
		}
		if obj.LastModified != nil {
			info.LastModified = *obj.LastModified
		}

		presigned, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(c.config.BucketName),
			Key:    obj.Key,
		}, s3.WithPresignExpires(presignExpiry))
		if err == nil {
			info.URL = presigned.URL
		}

		head, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(c.config.BucketName),
			Key:    obj.Key,
		})
		if err == nil && head.Metadata != nil {
			info.Metadata = head.Metadata
		}

		files = append(files, info)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].LastModified.After(files[j].LastModified)
	})
	return files, nil
}

// ContentTypeForName maps a filename extension to its MIME type.
func ContentTypeForName(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
