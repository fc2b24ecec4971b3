package repository

import (
	"errors"
	"strings"

	"github.com/saya-shop/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	List() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	ResolveByLabel(label string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id uint) error
	CountByName(name string, excludeID uint) (int64, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List 分类列表（按名称排序）
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// ResolveByLabel 按名称模糊匹配分类
// 优先完全匹配（忽略大小写），否则取 id 最小的部分匹配；无匹配返回 nil
func (r *GormCategoryRepository) ResolveByLabel(label string) (*models.Category, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, nil
	}

	var exact []models.Category
	if err := r.db.Where("LOWER(name) = LOWER(?)", label).Order("id ASC").Limit(1).Find(&exact).Error; err != nil {
		return nil, err
	}
	if len(exact) > 0 {
		return &exact[0], nil
	}

	condition := caseInsensitiveLikeByDialect(dbDialectName(r.db), "name")
	var partial []models.Category
	if err := r.db.Where(condition, "%"+escapeLike(label)+"%").Order("id ASC").Limit(1).Find(&partial).Error; err != nil {
		return nil, err
	}
	if len(partial) == 0 {
		return nil, nil
	}
	return &partial[0], nil
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update 更新分类
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete 删除分类
func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}

// CountByName 统计同名分类数量
func (r *GormCategoryRepository) CountByName(name string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Category{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
