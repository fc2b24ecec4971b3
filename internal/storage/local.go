package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStorage 本地文件系统存储，bucket 对应子目录
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage 创建本地存储
func NewLocalStorage(root, baseURL string) *LocalStorage {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "uploads"
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalStorage{root: root, baseURL: baseURL}
}

// Root 返回存储根目录（用于静态文件路由）
func (s *LocalStorage) Root() string {
	return s.root
}

// Upload 写入文件，先写临时文件再重命名
func (s *LocalStorage) Upload(ctx context.Context, bucket, name string, body io.Reader, contentType string) (string, error) {
	if err := validateObjectName(bucket, name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target := s.objectPath(bucket, name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	return name, nil
}

// PublicURL 返回 /uploads/<bucket>/<path>
func (s *LocalStorage) PublicURL(bucket, objectPath string) string {
	if strings.TrimSpace(objectPath) == "" {
		return ""
	}
	return s.baseURL + "/" + path.Join(bucket, objectPath)
}

// List 按名称顺序列出 bucket 下的对象
func (s *LocalStorage) List(ctx context.Context, bucket, prefix string, limit int) ([]Object, error) {
	if !isSafeSegment(bucket) {
		return nil, ErrInvalidObjectName
	}
	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var names []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, prefix) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	objects := make([]Object, 0, len(names))
	for _, name := range names {
		objects = append(objects, Object{Bucket: bucket, Path: name, URL: s.PublicURL(bucket, name)})
	}
	return objects, nil
}

// Delete 删除文件，不存在时返回 ErrObjectNotFound
func (s *LocalStorage) Delete(ctx context.Context, bucket, objectPath string) error {
	if err := validateObjectName(bucket, objectPath); err != nil {
		return err
	}
	if err := os.Remove(s.objectPath(bucket, objectPath)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}

func (s *LocalStorage) objectPath(bucket, name string) string {
	return filepath.Join(s.root, bucket, filepath.FromSlash(name))
}
