package service

import (
	"context"
	"strings"

	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository, productRepo repository.ProductRepository) *CategoryService {
	return &CategoryService{repo: repo, productRepo: productRepo}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name        string
	Description string
}

// List 获取分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	count, err := s.repo.CountByName(name, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryNameExists
	}

	category := models.Category{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	InvalidateCatalog(ctx)
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	count, err := s.repo.CountByName(name, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryNameExists
	}

	category.Name = name
	category.Description = strings.TrimSpace(input.Description)
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	InvalidateCatalog(ctx)
	return category, nil
}

// Delete 删除分类，仍有商品时拒绝
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}
	count, err := s.productRepo.CountByCategory(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	InvalidateCatalog(ctx)
	return nil
}
