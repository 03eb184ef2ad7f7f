package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/xtal-cli/internal/config"
)

const (
	// SceneSidecarSuffix names the precomputed scene object stored next to a structure file
	SceneSidecarSuffix = ".scene.json"

	previewByteLimit = 64 * 1024
)

// S3Backend serves a bucket as the remote file tree. Directories are key
// prefixes; structure scenes are read from precomputed sidecar objects.
type S3Backend struct {
	s3Client   *s3.Client
	bucketName string
	saver      *FileSaver
}

// NewS3Backend creates a new bucket-backed file service from configuration
func NewS3Backend(cfg *config.S3Config, saver *FileSaver) (*S3Backend, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.AccessKeySecret,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" || endpoint == "auto" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &S3Backend{
		s3Client:   s3Client,
		bucketName: cfg.BucketName,
		saver:      saver,
	}, nil
}

// ListDirectory lists the objects and common prefixes under a directory path
func (b *S3Backend) ListDirectory(ctx context.Context, _ string, dirPath string) (*DirectoryListing, error) {
	canonical := strings.Trim(dirPath, "/")
	prefix := ""
	if canonical != "" {
		prefix = canonical + "/"
	}

	listing := &DirectoryListing{Path: canonical}
	if canonical != "" {
		parent := path.Dir(canonical)
		if parent == "." {
			parent = ""
		}
		listing.Parent = &parent
	}

	paginator := s3.NewListObjectsV2Paginator(b.s3Client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.bucketName),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, toRequestError(err)
		}

		for _, cp := range page.CommonPrefixes {
			dir := strings.TrimSuffix(aws.ToString(cp.Prefix), "/")
			listing.Entries = append(listing.Entries, DirectoryEntry{
				Name: path.Base(dir),
				Path: dir,
				Type: EntryDirectory,
			})
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix || strings.HasSuffix(key, SceneSidecarSuffix) {
				continue
			}
			listing.Entries = append(listing.Entries, DirectoryEntry{
				Name: path.Base(key),
				Path: key,
				Type: EntryFile,
				Size: aws.ToInt64(obj.Size),
			})
		}
	}

	logrus.WithFields(logrus.Fields{
		"bucket":  b.bucketName,
		"prefix":  prefix,
		"entries": len(listing.Entries),
	}).Debug("listed bucket prefix")

	return listing, nil
}

// GetFilePreview reads the head of an object as text
func (b *S3Backend) GetFilePreview(ctx context.Context, _ string, filePath string) (*FilePreview, error) {
	result, err := b.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(filePath),
		Range:  aws.String(fmt.Sprintf("bytes=0-%d", previewByteLimit-1)),
	})
	if err != nil {
		return nil, toRequestError(err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(io.LimitReader(result.Body, previewByteLimit))
	if err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("failed to read object: %v", err), Err: err}
	}

	total := totalFromContentRange(aws.ToString(result.ContentRange))
	return &FilePreview{
		Name:      path.Base(filePath),
		Content:   string(data),
		Size:      total,
		Truncated: total > int64(len(data)),
	}, nil
}

// GetStructureScene reads the sidecar scene object of a structure file
func (b *S3Backend) GetStructureScene(ctx context.Context, _ string, filePath string) (*StructureScene, error) {
	result, err := b.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(filePath + SceneSidecarSuffix),
	})
	if err != nil {
		return nil, toRequestError(err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("failed to read scene: %v", err), Err: err}
	}
	return &StructureScene{Scene: data}, nil
}

// DownloadFile saves an object into the download directory
func (b *S3Backend) DownloadFile(ctx context.Context, _ string, filePath string) (string, error) {
	result, err := b.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(filePath),
	})
	if err != nil {
		return "", toRequestError(err)
	}
	defer result.Body.Close()

	return b.saver.Save(path.Base(filePath), result.Body)
}

func toRequestError(err error) *RequestError {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return &RequestError{StatusCode: 404, Detail: "File not found", Err: err}
	}
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return &RequestError{StatusCode: 404, Detail: "Bucket not found", Err: err}
	}
	return &RequestError{Message: err.Error(), Err: err}
}

// totalFromContentRange extracts the total size from "bytes 0-99/1234"
func totalFromContentRange(contentRange string) int64 {
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 {
		return 0
	}
	var total int64
	if _, err := fmt.Sscanf(contentRange[idx+1:], "%d", &total); err != nil {
		return 0
	}
	return total
}
