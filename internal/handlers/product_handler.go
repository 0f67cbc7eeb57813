package handlers

import (
	"errors"

	"spiritbeads/internal/repositories"
	"spiritbeads/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ProductHandler handles HTTP requests for the catalog read API.
type ProductHandler struct {
	service *services.CatalogService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleGetProducts)
	router.Get("/products/:id", h.HandleGetProductByID)
	router.Get("/categories", h.HandleGetCategories)
}

// HandleGetProducts retrieves all active products, optionally filtered by
// the ?category= slug.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetProducts(c.Query("category"))
	if err != nil {
		logrus.Errorf("error getting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve products",
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		logrus.Errorf("error getting product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve product",
		})
	}
	return c.JSON(product)
}

// HandleGetCategories retrieves all categories.
func (h *ProductHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories()
	if err != nil {
		logrus.Errorf("error getting categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve categories",
		})
	}
	return c.JSON(categories)
}
