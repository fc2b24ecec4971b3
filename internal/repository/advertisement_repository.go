package repository

import (
	"errors"

	"github.com/saya-shop/internal/models"

	"gorm.io/gorm"
)

// AdvertisementRepository 广告数据访问接口
type AdvertisementRepository interface {
	List(filter AdvertisementListFilter) ([]models.Advertisement, error)
	GetByID(id uint) (*models.Advertisement, error)
	Create(ad *models.Advertisement) error
	Update(ad *models.Advertisement) error
	Delete(id uint) error
}

// GormAdvertisementRepository GORM 实现
type GormAdvertisementRepository struct {
	db *gorm.DB
}

// NewAdvertisementRepository 创建广告仓库
func NewAdvertisementRepository(db *gorm.DB) *GormAdvertisementRepository {
	return &GormAdvertisementRepository{db: db}
}

// List 广告列表（按 sort_order 升序）
func (r *GormAdvertisementRepository) List(filter AdvertisementListFilter) ([]models.Advertisement, error) {
	query := r.db.Model(&models.Advertisement{})
	if filter.OnlyActive {
		query = query.Where("active = ?", true)
	}
	var ads []models.Advertisement
	if err := query.Order("sort_order ASC, id ASC").Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// GetByID 根据 ID 获取广告
func (r *GormAdvertisementRepository) GetByID(id uint) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := r.db.First(&ad, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ad, nil
}

// Create 创建广告
func (r *GormAdvertisementRepository) Create(ad *models.Advertisement) error {
	return r.db.Create(ad).Error
}

// Update 更新广告
func (r *GormAdvertisementRepository) Update(ad *models.Advertisement) error {
	return r.db.Save(ad).Error
}

// Delete 删除广告
func (r *GormAdvertisementRepository) Delete(id uint) error {
	return r.db.Delete(&models.Advertisement{}, id).Error
}
