package service

import (
	"context"
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/storage"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// uploadSceneBuckets 上传场景到存储桶的映射
var uploadSceneBuckets = map[string]string{
	constants.UploadSceneProduct:       constants.BucketProductImages,
	constants.UploadSceneAdvertisement: constants.BucketAdvertisementImages,
}

// UploadResult 上传结果
type UploadResult struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

// StorageProbeResult 存储桶连通性检查结果
type StorageProbeResult struct {
	Bucket  string `json:"bucket"`
	OK      bool   `json:"ok"`
	Objects int    `json:"objects"`
	Error   string `json:"error,omitempty"`
}

// UploadService 后台图片上传服务
type UploadService struct {
	cfg     config.UploadConfig
	storage storage.Storage
	now     func() time.Time
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg config.UploadConfig, store storage.Storage) *UploadService {
	return &UploadService{cfg: cfg, storage: store, now: time.Now}
}

// SaveFile 校验并上传图片，返回公开地址
func (s *UploadService) SaveFile(ctx context.Context, file *multipart.FileHeader, scene string) (*UploadResult, error) {
	scene = strings.ToLower(strings.TrimSpace(scene))
	bucket, ok := uploadSceneBuckets[scene]
	if !ok {
		return nil, ErrUploadSceneInvalid
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return nil, fmt.Errorf("%w: max %d MB", ErrFileTooLarge, s.cfg.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
			return nil, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	contentType, err := sniffContentType(src)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "image/") || !isAllowedContentType(contentType, s.cfg.AllowedTypes) {
		return nil, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, contentType)
	}
	if contentType != "image/webp" {
		if _, _, err := image.DecodeConfig(src); err != nil {
			return nil, fmt.Errorf("%w: unreadable image", ErrFileTypeNotAllowed)
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}

	name := s.objectName(scene, ext)
	path, err := s.storage.Upload(ctx, bucket, name, src, contentType)
	if err != nil {
		return nil, err
	}
	return &UploadResult{
		Bucket: bucket,
		Path:   path,
		URL:    s.storage.PublicURL(bucket, path),
	}, nil
}

// ProbeStorage 逐个存储桶列举一个对象，检查存储连通性
func (s *UploadService) ProbeStorage(ctx context.Context) []StorageProbeResult {
	buckets := []string{
		constants.BucketProductImages,
		constants.BucketAdvertisementImages,
		constants.BucketPaymentProofs,
	}
	results := make([]StorageProbeResult, 0, len(buckets))
	for _, bucket := range buckets {
		objects, err := s.storage.List(ctx, bucket, "", 1)
		result := StorageProbeResult{Bucket: bucket, OK: err == nil, Objects: len(objects)}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// objectName <scene>-<毫秒时间戳>-<随机串>.<ext>
func (s *UploadService) objectName(scene, ext string) string {
	return fmt.Sprintf("%s-%d-%s%s", scene, s.now().UnixMilli(), randomToken(8), ext)
}

func sniffContentType(src multipart.File) (string, error) {
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}

func isAllowedContentType(contentType string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if strings.EqualFold(contentType, strings.TrimSpace(t)) {
			return true
		}
	}
	return false
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

const randomTokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomToken(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = randomTokenAlphabet[rand.IntN(len(randomTokenAlphabet))]
	}
	return string(buf)
}
