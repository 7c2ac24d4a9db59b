package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/epublit/epublit-api/internal/application/ports"
	"github.com/epublit/epublit-api/pkg/config"
	"github.com/epublit/epublit-api/pkg/logger"
)

var _ ports.FileStore = (*S3Store)(nil)

// S3Store guarda los documentos como objetos <folder>/<name> en un bucket.
// Con Endpoint + UsePathStyle funciona contra MinIO o LocalStack.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	log      *logger.Logger
}

// NewS3Store arma el cliente desde la configuración de archivos.
// Sin credenciales estáticas usa la cadena por defecto de AWS.
func NewS3Store(ctx context.Context, cfg config.FilesConfig, log *logger.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: configuración AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3PathStyle
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.S3Bucket)}); err != nil {
		return nil, fmt.Errorf("storage: bucket %s inaccesible: %w", cfg.S3Bucket, err)
	}

	log.Info().Str("bucket", cfg.S3Bucket).Str("region", cfg.S3Region).Msg("almacenamiento S3 inicializado")
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		log:      log,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, folder, name string, content []byte) error {
	key := objectKey(folder, name)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("storage: subir %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Int("bytes", len(content)).Msg("documento subido")
	return nil
}

func (s *S3Store) Delete(ctx context.Context, folder, name string) error {
	key := objectKey(folder, name)
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("storage: borrar %s: %w", key, err)
	}
	return nil
}

func objectKey(folder, name string) string {
	return path.Join(folder, name)
}
