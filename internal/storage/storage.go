// Package storage 对象存储：上传、公开地址、探测与删除
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/saya-shop/internal/config"
)

var (
	// ErrInvalidObjectName 对象名非法
	ErrInvalidObjectName = errors.New("invalid object name")
	// ErrObjectNotFound 对象不存在
	ErrObjectNotFound = errors.New("object not found")
)

// Object 存储对象描述
type Object struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

// Storage 对象存储接口
type Storage interface {
	// Upload 上传对象，返回 bucket 内路径
	Upload(ctx context.Context, bucket, name string, body io.Reader, contentType string) (string, error)
	// PublicURL 返回对象公开访问地址
	PublicURL(bucket, path string) string
	// List 列出对象，仅用于连通性探测
	List(ctx context.Context, bucket, prefix string, limit int) ([]Object, error)
	// Delete 删除对象
	Delete(ctx context.Context, bucket, path string) error
}

// New 根据配置创建存储实现
func New(cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "local":
		return NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL), nil
	case "cloudinary":
		return NewCloudinaryStorage(cfg.CloudinaryURL, cfg.Folder)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func validateObjectName(bucket, name string) error {
	if !isSafeSegment(bucket) {
		return fmt.Errorf("%w: bucket %q", ErrInvalidObjectName, bucket)
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidObjectName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if !isSafeSegment(seg) {
			return fmt.Errorf("%w: %q", ErrInvalidObjectName, name)
		}
	}
	return nil
}

func isSafeSegment(seg string) bool {
	if seg == "" || seg == "." || seg == ".." {
		return false
	}
	return !strings.ContainsAny(seg, "\\\x00")
}

// splitExt 拆分文件名与扩展名（不含点）
func splitExt(name string) (string, string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || idx == len(name)-1 || strings.Contains(name[idx:], "/") {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}
