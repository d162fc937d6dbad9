package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"niseko/config"
	"niseko/infras/otel"
	"niseko/shared/constant"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
	defaultRegion     = "auto"
)

type S3 interface {
	UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (url string, err error)
	Enabled() bool
}

type s3Impl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

func (svc *s3Impl) Enabled() bool {
	return svc.client != nil && svc.config.External.S3.BucketName != constant.Empty
}

func (svc *s3Impl) UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFileBytes")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if bucketName == constant.Empty {
		bucketName = svc.config.External.S3.BucketName
	}

	objectKey := path.Join(directory, fileName)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    bucketName,
	})

	fileReader := bytes.NewReader(fileData)

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(objectKey),
		Body:          fileReader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(fileReader.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return ObjectURL(svc.config.External.S3.PublicURL, bucketName, objectKey), nil
}

// ObjectURL is the address an object is served from. Without a public URL the
// s3:// form is returned.
func ObjectURL(publicURL, bucketName, objectKey string) string {
	if publicURL == constant.Empty {
		return fmt.Sprintf("s3://%s/%s", bucketName, objectKey)
	}

	return strings.TrimSuffix(publicURL, "/") + "/" + objectKey
}

func New(config *config.Config, otel otel.Otel) S3 {
	svc := &s3Impl{
		config: config,
		otel:   otel,
	}

	if config.External.S3.BucketName == constant.Empty {
		log.Warn().Msg("S3 bucket not configured, archiving is disabled")

		return svc
	}

	region := config.External.S3.Region
	if region == constant.Empty {
		region = defaultRegion
	}

	opts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(region)}

	if config.External.S3.AccessKeyID != constant.Empty {
		opts = append(opts, awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.External.S3.AccessKeyID,
			config.External.S3.SecretAccessKey,
			constant.Empty,
		)))
	}

	cfg, err := awsConfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")

		return svc
	}

	svc.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if config.External.S3.Endpoint != constant.Empty {
			o.BaseEndpoint = aws.String(config.External.S3.Endpoint)
		}

		o.UsePathStyle = config.External.S3.UsePathStyle
	})

	log.Info().Str("bucket", config.External.S3.BucketName).Msg("S3 client initialized")

	return svc
}
