package service

import (
	"context"
	"strings"

	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品管理服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categoryRepo: categoryRepo}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID     *uint
	Name           string
	Description    string
	SKU            string
	Price          models.Money
	Weight         decimal.NullDecimal
	InventoryCount int
	Images         []string
	Tags           []string
	Featured       bool
}

// ProductAdminQuery 后台商品列表查询
type ProductAdminQuery struct {
	Page       int
	PageSize   int
	Search     string
	CategoryID *uint
}

// ListAdmin 后台商品列表（最新在前）
func (s *ProductService) ListAdmin(query ProductAdminQuery) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:         query.Page,
		PageSize:     query.PageSize,
		Search:       query.Search,
		CategoryID:   query.CategoryID,
		Sort:         "newest",
		WithCategory: true,
	})
}

// Get 获取商品
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	input, err := s.normalizeInput(input, 0)
	if err != nil {
		return nil, err
	}
	product := &models.Product{}
	applyProductInput(product, input)
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	InvalidateCatalog(ctx)
	return s.Get(product.ID)
}

// Update 更新商品
func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	input, err = s.normalizeInput(input, id)
	if err != nil {
		return nil, err
	}
	applyProductInput(product, input)
	product.Category = nil
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	InvalidateCatalog(ctx)
	return s.Get(product.ID)
}

// Delete 删除商品（软删除，历史订单项仍可关联）
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	InvalidateCatalog(ctx)
	return nil
}

func (s *ProductService) normalizeInput(input ProductInput, excludeID uint) (ProductInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)
	input.Description = strings.TrimSpace(input.Description)
	if input.Name == "" || input.SKU == "" {
		return input, ErrInvalidInput
	}
	if input.Price.IsNegative() {
		return input, ErrProductPriceInvalid
	}
	if input.InventoryCount < 0 {
		return input, ErrInventoryInvalid
	}
	if input.Weight.Valid && input.Weight.Decimal.IsNegative() {
		return input, ErrInvalidInput
	}

	count, err := s.repo.CountBySKU(input.SKU, excludeID)
	if err != nil {
		return input, err
	}
	if count > 0 {
		return input, ErrSKUExists
	}

	if input.CategoryID != nil {
		if *input.CategoryID == 0 {
			input.CategoryID = nil
		} else {
			category, err := s.categoryRepo.GetByID(*input.CategoryID)
			if err != nil {
				return input, err
			}
			if category == nil {
				return input, ErrCategoryNotFound
			}
		}
	}
	input.Images = cleanStrings(input.Images, false)
	input.Tags = cleanStrings(input.Tags, true)
	return input, nil
}

func applyProductInput(product *models.Product, input ProductInput) {
	product.CategoryID = input.CategoryID
	product.Name = input.Name
	product.Description = input.Description
	product.SKU = input.SKU
	product.Price = input.Price
	product.Weight = input.Weight
	product.InventoryCount = input.InventoryCount
	product.Images = models.StringArray(input.Images)
	product.Tags = models.StringArray(input.Tags)
	product.Featured = input.Featured
}

// cleanStrings 去空白与空值；dedupe 时忽略大小写去重
func cleanStrings(values []string, dedupe bool) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if dedupe {
			key := strings.ToLower(v)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		result = append(result, v)
	}
	return result
}
