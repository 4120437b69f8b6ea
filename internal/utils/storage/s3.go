package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"calorie-tracker/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	AllowImage = []string{".jpg", ".jpeg", ".png", ".webp"}

	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrStorageDisabled    = errors.New("object storage is not configured")
)

type (
	AwsS3 interface {
		UploadFile(fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		UpdateFile(objectKey string, file *multipart.FileHeader, allowed ...string) (string, error)
		DeleteFile(objectKey string) error
		PutObject(ctx context.Context, objectKey string, body []byte, contentType string) (string, error)
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

// NewAwsS3 builds the client from AWS_S3_* config. Static keys are used when
// present, the default credential chain otherwise. Without a bucket every
// call fails with ErrStorageDisabled.
func NewAwsS3() AwsS3 {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	region := utils.GetConfig("AWS_S3_REGION")
	if bucket == "" {
		return &awsS3{region: region}
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if key := utils.GetConfig("AWS_ACCESS_KEY"); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, utils.GetConfig("AWS_SECRET_KEY"), ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return &awsS3{region: region}
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}
}

func (a *awsS3) enabled() bool {
	return a.client != nil && a.bucket != ""
}

func checkExtension(name string, allowed []string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if len(allowed) == 0 {
		return ext, nil
	}
	for _, a := range allowed {
		if ext == a {
			return ext, nil
		}
	}
	return "", ErrFileTypeNotAllowed
}

func (a *awsS3) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	ext, err := checkExtension(file.Filename, allowed)
	if err != nil {
		return "", err
	}
	objectKey := fmt.Sprintf("%s/%s-%d%s", folder, fileName, time.Now().UnixNano(), ext)
	return a.putMultipart(objectKey, file)
}

func (a *awsS3) UpdateFile(objectKey string, file *multipart.FileHeader, allowed ...string) (string, error) {
	if _, err := checkExtension(file.Filename, allowed); err != nil {
		return "", err
	}
	return a.putMultipart(objectKey, file)
}

func (a *awsS3) putMultipart(objectKey string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	body, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	return a.PutObject(context.Background(), objectKey, body, file.Header.Get("Content-Type"))
}

func (a *awsS3) PutObject(ctx context.Context, objectKey string, body []byte, contentType string) (string, error) {
	if !a.enabled() {
		return "", ErrStorageDisabled
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := a.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectKey, err)
	}
	return objectKey, nil
}

func (a *awsS3) DeleteFile(objectKey string) error {
	if !a.enabled() {
		return ErrStorageDisabled
	}
	_, err := a.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
	if a.bucket == "" || !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
