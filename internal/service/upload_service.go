package service

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harvestmart/harvestmart-api/internal/config"
	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// UploadResult 上传结果
type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

// UploadService 图片上传服务，支持本地目录与 S3 兼容存储
type UploadService struct {
	cfg      *config.Config
	s3Client *s3.S3
}

// NewUploadService 创建上传服务；storage.provider 为 s3 且凭证齐全时启用 S3
func NewUploadService(cfg *config.Config) (*UploadService, error) {
	svc := &UploadService{cfg: cfg}
	if cfg.Storage.Provider != constants.StorageProviderS3 {
		return svc, nil
	}
	if cfg.Storage.S3.AccessKey == "" || cfg.Storage.S3.Bucket == "" {
		logger.Warnw("upload_s3_config_incomplete", "provider", cfg.Storage.Provider)
		return svc, nil
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Storage.S3.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.Storage.S3.AccessKey,
			cfg.Storage.S3.SecretKey,
			"",
		),
	}
	if endpoint := strings.TrimSpace(cfg.Storage.S3.Endpoint); endpoint != "" {
		awsConfig.Endpoint = aws.String(endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("创建 AWS 会话失败: %w", err)
	}
	svc.s3Client = s3.New(sess)
	return svc, nil
}

// SaveImage 保存上传的商品图片，返回可访问的 URL
func (s *UploadService) SaveImage(file *multipart.FileHeader) (*UploadResult, error) {
	if s.cfg.Upload.MaxSize > 0 && file.Size > s.cfg.Upload.MaxSize {
		return nil, ErrUploadTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
			return nil, ErrUploadInvalidType
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	payload, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	// 按文件头识别 MIME 类型，不信任客户端声明
	contentType := http.DetectContentType(payload)
	if len(s.cfg.Upload.AllowedTypes) > 0 {
		allowed := false
		for _, t := range s.cfg.Upload.AllowedTypes {
			if strings.EqualFold(contentType, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrUploadInvalidType
		}
	}

	now := time.Now()
	key := filepath.ToSlash(filepath.Join("products", now.Format("2006"), now.Format("01"), uuid.New().String()+ext))

	if s.s3Client != nil {
		return s.saveToS3(payload, key, contentType)
	}
	return s.saveToLocal(payload, key, contentType)
}

func (s *UploadService) saveToS3(payload []byte, key, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Storage.S3.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(payload))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return nil, fmt.Errorf("上传到 S3 失败: %w", err)
	}

	url := s.s3URL(key)
	return &UploadResult{
		URL:      url,
		Key:      key,
		Size:     int64(len(payload)),
		MimeType: contentType,
	}, nil
}

func (s *UploadService) saveToLocal(payload []byte, key, contentType string) (*UploadResult, error) {
	dir := strings.TrimSpace(s.cfg.Upload.LocalDir)
	if dir == "" {
		dir = "./uploads"
	}
	savePath := filepath.Join(dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(savePath, payload, 0644); err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(s.cfg.Upload.BaseURL, "/")
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &UploadResult{
		URL:      fmt.Sprintf("%s/%s", baseURL, key),
		Key:      key,
		Size:     int64(len(payload)),
		MimeType: contentType,
	}, nil
}

func (s *UploadService) s3URL(key string) string {
	if base := strings.TrimRight(s.cfg.Storage.S3.BaseURL, "/"); base != "" {
		return fmt.Sprintf("%s/%s", base, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Storage.S3.Bucket, s.cfg.Storage.S3.Region, key)
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}
