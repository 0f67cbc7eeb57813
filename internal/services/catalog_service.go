package services

import (
	"spiritbeads/internal/models"
	"spiritbeads/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CatalogService handles read access to products and categories.
type CatalogService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// GetProducts retrieves all active products, optionally filtered by
// category slug.
func (s *CatalogService) GetProducts(categorySlug string) ([]models.Product, error) {
	return s.productRepo.GetAll(categorySlug)
}

// GetProductByID retrieves a single product by its ID.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// GetCategories retrieves all categories.
func (s *CatalogService) GetCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// SeedIfEmpty populates an empty catalog with the stock categories and a
// few lighters of each type so a fresh install has something to show.
func (s *CatalogService) SeedIfEmpty() error {
	count, err := s.productRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Tribal Patterns", Slug: "tribal-patterns", Description: "Traditional tribal and indigenous designs"},
		{Name: "Nature Inspired", Slug: "nature-inspired", Description: "Designs inspired by natural elements"},
		{Name: "Geometric Shapes", Slug: "geometric-shapes", Description: "Modern geometric patterns and shapes"},
		{Name: "Spiritual Symbols", Slug: "spiritual-symbols", Description: "Sacred and spiritual symbolism"},
		{Name: "Abstract Art", Slug: "abstract-art", Description: "Contemporary abstract designs"},
	}
	for i := range categories {
		if err := s.categoryRepo.Create(&categories[i]); err != nil {
			logrus.Warnf("failed to seed category %s: %v", categories[i].Name, err)
		}
	}

	tribal := categories[0].ID
	nature := categories[1].ID
	products := []models.Product{
		{Name: "Thunderbird Classic", Slug: "thunderbird-classic", LighterType: models.LighterTypeClassic,
			Price: decimal.NewFromFloat(24.99), InventoryCount: 5, WeightOunces: 2.1, CategoryID: &tribal},
		{Name: "River Stone Classic", Slug: "river-stone-classic", LighterType: models.LighterTypeClassic,
			Price: decimal.NewFromFloat(19.99), InventoryCount: 8, WeightOunces: 2.1, CategoryID: &nature},
		{Name: "Sunrise Mini", Slug: "sunrise-mini", LighterType: models.LighterTypeMini,
			Price: decimal.NewFromFloat(14.99), InventoryCount: 12, WeightOunces: 1.2, CategoryID: &nature},
	}
	for i := range products {
		products[i].IsActive = true
		if err := s.productRepo.Create(&products[i]); err != nil {
			logrus.Warnf("failed to seed product %s: %v", products[i].Name, err)
		} else {
			logrus.Infof("seeded product %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
	return nil
}
