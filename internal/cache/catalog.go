package cache

import (
	"context"
	"fmt"
)

const catalogVersionKey = "catalog:version"

// CatalogVersion 当前商品目录缓存版本
func CatalogVersion(ctx context.Context) int64 {
	version, err := GetInt64(ctx, catalogVersionKey)
	if err != nil {
		return 0
	}
	return version
}

// BumpCatalogVersion 商品或分类变更后使旧缓存失效
func BumpCatalogVersion(ctx context.Context) error {
	_, err := Incr(ctx, catalogVersionKey)
	return err
}

// CatalogPageKey 商品列表缓存 key
func CatalogPageKey(version int64, fingerprint string) string {
	return fmt.Sprintf("catalog:v%d:%s", version, fingerprint)
}
