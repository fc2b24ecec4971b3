package service

import (
	"strings"

	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/repository"
)

// AdvertisementService 首页轮播广告服务
type AdvertisementService struct {
	repo repository.AdvertisementRepository
}

// NewAdvertisementService 创建广告服务
func NewAdvertisementService(repo repository.AdvertisementRepository) *AdvertisementService {
	return &AdvertisementService{repo: repo}
}

// AdvertisementInput 创建/更新广告输入
type AdvertisementInput struct {
	Title       string
	ImageURL    string
	LinkURL     string
	OverlayText string
	Active      bool
	SortOrder   int
}

// ListActive 前台展示的广告
func (s *AdvertisementService) ListActive() ([]models.Advertisement, error) {
	return s.repo.List(repository.AdvertisementListFilter{OnlyActive: true})
}

// ListAll 后台广告列表
func (s *AdvertisementService) ListAll() ([]models.Advertisement, error) {
	return s.repo.List(repository.AdvertisementListFilter{})
}

// Create 创建广告
func (s *AdvertisementService) Create(input AdvertisementInput) (*models.Advertisement, error) {
	if err := validateAdvertisementInput(&input); err != nil {
		return nil, err
	}
	ad := &models.Advertisement{}
	applyAdvertisementInput(ad, input)
	if err := s.repo.Create(ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// Update 更新广告
func (s *AdvertisementService) Update(id uint, input AdvertisementInput) (*models.Advertisement, error) {
	ad, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := validateAdvertisementInput(&input); err != nil {
		return nil, err
	}
	applyAdvertisementInput(ad, input)
	if err := s.repo.Update(ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// Toggle 切换启用状态
func (s *AdvertisementService) Toggle(id uint) (*models.Advertisement, error) {
	ad, err := s.get(id)
	if err != nil {
		return nil, err
	}
	ad.Active = !ad.Active
	if err := s.repo.Update(ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// Delete 删除广告
func (s *AdvertisementService) Delete(id uint) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *AdvertisementService) get(id uint) (*models.Advertisement, error) {
	ad, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, ErrNotFound
	}
	return ad, nil
}

func validateAdvertisementInput(input *AdvertisementInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	input.LinkURL = strings.TrimSpace(input.LinkURL)
	input.OverlayText = strings.TrimSpace(input.OverlayText)
	if input.Title == "" || input.ImageURL == "" {
		return ErrInvalidInput
	}
	return nil
}

func applyAdvertisementInput(ad *models.Advertisement, input AdvertisementInput) {
	ad.Title = input.Title
	ad.ImageURL = input.ImageURL
	ad.LinkURL = input.LinkURL
	ad.OverlayText = input.OverlayText
	ad.Active = input.Active
	ad.SortOrder = input.SortOrder
}
