package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/saya-shop/internal/cache"
	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/repository"
)

// CatalogQuery 商品目录查询条件
type CatalogQuery struct {
	Category string // 分类名称（标签），可部分匹配
	Search   string
	Featured bool
	Sort     string
	Page     int
}

// CatalogPage 商品目录分页结果
type CatalogPage struct {
	Items     []models.Product `json:"items"`
	Total     int64            `json:"total"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	TotalPage int              `json:"total_page"`
	Category  *models.Category `json:"category,omitempty"`
}

// CatalogService 商品目录查询
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cacheTTL     time.Duration
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{productRepo: productRepo, categoryRepo: categoryRepo, cacheTTL: cacheTTL}
}

// Search 按分类、关键词、推荐与排序查询一页商品，页大小固定
func (s *CatalogService) Search(ctx context.Context, query CatalogQuery) (*CatalogPage, error) {
	query = normalizeCatalogQuery(query)

	cacheKey := ""
	if s.cacheTTL > 0 && cache.Enabled() {
		cacheKey = cache.CatalogPageKey(cache.CatalogVersion(ctx), catalogFingerprint(query))
		var cached CatalogPage
		hit, err := cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			logger.Debugw("catalog_cache_read_failed", "key", cacheKey, "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	filter := repository.ProductListFilter{
		Page:         query.Page,
		PageSize:     constants.CatalogPageSize,
		Search:       query.Search,
		FeaturedOnly: query.Featured,
		Sort:         query.Sort,
		WithCategory: true,
	}

	var category *models.Category
	if query.Category != "" {
		resolved, err := s.categoryRepo.ResolveByLabel(query.Category)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			category = resolved
			filter.CategoryID = &resolved.ID
		}
	}

	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	page := &CatalogPage{
		Items:     products,
		Total:     total,
		Page:      query.Page,
		PageSize:  constants.CatalogPageSize,
		TotalPage: totalPages(total, constants.CatalogPageSize),
		Category:  category,
	}

	if cacheKey != "" {
		if err := cache.SetJSON(ctx, cacheKey, page, s.cacheTTL); err != nil {
			logger.Debugw("catalog_cache_write_failed", "key", cacheKey, "error", err)
		}
	}
	return page, nil
}

// Featured 首页推荐商品（最新在前）
func (s *CatalogService) Featured() ([]models.Product, error) {
	products, err := s.productRepo.ListFeatured(constants.FeaturedProductLimit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Product 商品详情
func (s *CatalogService) Product(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// Categories 分类列表（按名称排序）
func (s *CatalogService) Categories() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// InvalidateCatalog 商品或分类写入后使目录缓存失效
func InvalidateCatalog(ctx context.Context) {
	if err := cache.BumpCatalogVersion(ctx); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}

func normalizeCatalogQuery(query CatalogQuery) CatalogQuery {
	query.Category = strings.TrimSpace(query.Category)
	if strings.EqualFold(query.Category, "all") {
		query.Category = ""
	}
	query.Search = strings.TrimSpace(query.Search)
	query.Sort = normalizeCatalogSort(query.Sort)
	if query.Page < 1 {
		query.Page = 1
	}
	return query
}

func normalizeCatalogSort(sort string) string {
	sort = strings.ToLower(strings.TrimSpace(sort))
	switch sort {
	case constants.CatalogSortPriceAsc,
		constants.CatalogSortPriceDesc,
		constants.CatalogSortNameAsc,
		constants.CatalogSortNameDesc,
		constants.CatalogSortNewest:
		return sort
	default:
		return constants.CatalogSortDefault
	}
}

func catalogFingerprint(query CatalogQuery) string {
	raw := fmt.Sprintf("%s\x00%s\x00%t\x00%s\x00%d", strings.ToLower(query.Category), query.Search, query.Featured, query.Sort, query.Page)
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
