package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ObjectStore 对象存储接口，按键存取二进制对象
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// MinioStore 基于S3协议访问MinIO的对象存储实现
type MinioStore struct {
	client *s3.Client
	bucket string
}

func NewMinioStore(client *s3.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

func (m *MinioStore) Put(ctx context.Context, key string, contentType string, data []byte) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("上传对象失败: %w", err)
	}
	return nil
}

func (m *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("下载对象失败: %w", err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (m *MinioStore) Delete(ctx context.Context, key string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	return err
}

// GenerateObjectKey 生成全局唯一的存储键，避免冲突并隐藏原始文件名
func GenerateObjectKey(originalFilename string) string {
	timestamp := time.Now().UnixMilli()
	ext := filepath.Ext(originalFilename)
	if ext != "" {
		return fmt.Sprintf("%d_%s%s", timestamp, uuid.New().String(), ext)
	}
	return fmt.Sprintf("%d_%s", timestamp, uuid.New().String())
}
