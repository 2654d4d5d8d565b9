package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/expertzappdev/bizfree-backend/internal/application/ports"
	"github.com/expertzappdev/bizfree-backend/pkg/config"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
)

var _ ports.BlobStore = (*S3BlobStore)(nil)

// ObjectAPI subconjunto de *s3.Client que usa el store.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3BlobStore guarda adjuntos en un bucket S3 (o MinIO).
type S3BlobStore struct {
	api    ObjectAPI
	bucket string
	newID  func() string
	log    *logger.Logger
}

// NewS3BlobStore arma el cliente S3. Con AccessKey/SecretKey usa credenciales
// estáticas; si no, la cadena por defecto (env, IAM role).
func NewS3BlobStore(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*S3BlobStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: cargar config AWS: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewWithAPI(client, cfg.Bucket, log), nil
}

// NewWithAPI permite inyectar el cliente (tests).
func NewWithAPI(api ObjectAPI, bucket string, log *logger.Logger) *S3BlobStore {
	if log == nil {
		log = logger.Nop()
	}
	return &S3BlobStore{api: api, bucket: bucket, newID: uuid.NewString, log: log.Component("storage")}
}

// Save sube el archivo bajo folder/<uuid>-<nombre> y devuelve esa clave.
func (s *S3BlobStore) Save(ctx context.Context, folder, fileName, contentType string, r io.Reader) (string, error) {
	key := objectKey(folder, s.newID(), fileName)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: subir %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Msg("adjunto guardado")
	return key, nil
}

// Delete borra el objeto. Borrar una clave inexistente no es error en S3.
func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: borrar %s: %w", key, err)
	}
	return nil
}

// objectKey arma la clave; el nombre se reduce a su base y los espacios se
// reemplazan para que la clave sea legible en URLs.
func objectKey(folder, id, fileName string) string {
	name := strings.ReplaceAll(path.Base(fileName), " ", "_")
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return id + "-" + name
	}
	return folder + "/" + id + "-" + name
}
