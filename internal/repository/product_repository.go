package repository

import (
	"errors"
	"strings"

	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	ListFeatured(limit int) ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountBySKU(sku string, excludeID uint) (int64, error)
	CountByCategory(categoryID uint) (int64, error)
	Count() (int64, error)
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// List 商品列表：过滤、计数、排序、分页
// 总数在分页前按同一过滤条件统计
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.FeaturedOnly {
		query = query.Where("products.featured = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := buildSearchCondition(
			dbDialectName(r.db),
			[]string{"products.name", "products.description"},
			"products.tags",
			search,
		)
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithCategory {
		query = query.Preload("Category")
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var products []models.Product
	if err := query.Order(catalogOrderClause(filter.Sort)).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// catalogOrderClause 排序键到 ORDER BY 的映射，未知键按默认排序
// 默认：推荐优先，其次最新；同值按 id 保证稳定分页
func catalogOrderClause(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case constants.CatalogSortPriceAsc:
		return "products.price ASC, products.id ASC"
	case constants.CatalogSortPriceDesc:
		return "products.price DESC, products.id ASC"
	case constants.CatalogSortNameAsc:
		return "products.name ASC, products.id ASC"
	case constants.CatalogSortNameDesc:
		return "products.name DESC, products.id ASC"
	case constants.CatalogSortNewest:
		return "products.created_at DESC, products.id DESC"
	default:
		return "products.featured DESC, products.created_at DESC, products.id DESC"
	}
}

// ListFeatured 推荐商品
func (r *GormProductRepository) ListFeatured(limit int) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Where("featured = ?", true).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID 根据 ID 获取商品（含分类）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Omit("Category").Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// CountBySKU 统计 SKU 占用数量
func (r *GormProductRepository) CountBySKU(sku string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Unscoped().Model(&models.Product{}).Where("sku = ?", sku)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCategory 统计分类下商品数量
func (r *GormProductRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count 商品总数
func (r *GormProductRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
