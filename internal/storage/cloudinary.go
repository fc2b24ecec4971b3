package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage Cloudinary 存储，bucket 映射为 <folder>/<bucket> 目录
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage 通过 cloudinary:// URL 创建存储
func NewCloudinaryStorage(rawURL, folder string) (*CloudinaryStorage, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("cloudinary url is required")
	}
	cld, err := cloudinary.NewFromURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStorage{cld: cld, folder: strings.Trim(strings.TrimSpace(folder), "/")}, nil
}

// Upload 上传对象，返回 Cloudinary public id
func (s *CloudinaryStorage) Upload(ctx context.Context, bucket, name string, body io.Reader, contentType string) (string, error) {
	if err := validateObjectName(bucket, name); err != nil {
		return "", err
	}
	publicID, _ := splitExt(name)
	res, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID: publicID,
		Folder:   s.bucketFolder(bucket),
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.PublicID, nil
}

// PublicURL 生成 https 交付地址
func (s *CloudinaryStorage) PublicURL(bucket, objectPath string) string {
	objectPath = strings.TrimSpace(objectPath)
	if objectPath == "" {
		return ""
	}
	if strings.HasPrefix(objectPath, "http://") || strings.HasPrefix(objectPath, "https://") {
		return objectPath
	}
	asset, err := s.cld.Image(s.qualify(bucket, objectPath))
	if err != nil {
		return ""
	}
	asset.Config.URL.Secure = true
	url, err := asset.String()
	if err != nil {
		return ""
	}
	return url
}

// List 按前缀列出资源
func (s *CloudinaryStorage) List(ctx context.Context, bucket, prefix string, limit int) ([]Object, error) {
	if !isSafeSegment(bucket) {
		return nil, ErrInvalidObjectName
	}
	res, err := s.cld.Admin.Assets(ctx, admin.AssetsParams{
		Prefix:     path.Join(s.bucketFolder(bucket), prefix),
		MaxResults: limit,
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}
	objects := make([]Object, 0, len(res.Assets))
	for _, asset := range res.Assets {
		objects = append(objects, Object{Bucket: bucket, Path: asset.PublicID, URL: asset.SecureURL})
	}
	return objects, nil
}

// Delete 删除资源
func (s *CloudinaryStorage) Delete(ctx context.Context, bucket, objectPath string) error {
	objectPath = strings.TrimSpace(objectPath)
	if objectPath == "" {
		return ErrInvalidObjectName
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: s.qualify(bucket, objectPath)})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	if res.Result == "not found" {
		return ErrObjectNotFound
	}
	return nil
}

func (s *CloudinaryStorage) bucketFolder(bucket string) string {
	if s.folder == "" {
		return bucket
	}
	return s.folder + "/" + bucket
}

// qualify 补全 public id 的目录前缀
func (s *CloudinaryStorage) qualify(bucket, objectPath string) string {
	folder := s.bucketFolder(bucket)
	if strings.HasPrefix(objectPath, folder+"/") {
		return objectPath
	}
	id, _ := splitExt(objectPath)
	return folder + "/" + id
}
