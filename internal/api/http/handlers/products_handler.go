package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// ProductsHandler manages catalog endpoints.
type ProductsHandler struct {
	catalog *service.CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalogService *service.CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalogService}
}

// List GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	page, err := parsePageParam(c.Query("page"), 1)
	if err != nil {
		return err
	}
	limit, err := parsePageParam(c.Query("limit"), h.catalog.DefaultPageSize())
	if err != nil {
		return err
	}

	result, err := h.catalog.ListProducts(c.Context(), service.ProductListInput{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	items := make([]dto.ProductResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, productResponse(&result.Items[i]))
	}
	return c.JSON(dto.ProductListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	})
}

// Get GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(productResponse(product))
}

// Create POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	input, err := parseProductBody(c)
	if err != nil {
		return err
	}
	product, err := h.catalog.CreateProduct(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(productResponse(product))
}

// Update PUT /api/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	input, err := parseProductBody(c)
	if err != nil {
		return err
	}
	product, err := h.catalog.UpdateProduct(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(productResponse(product))
}

// Delete DELETE /api/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseProductBody(c *fiber.Ctx) (service.ProductInput, error) {
	var req dto.ProductUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ProductInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.ProductInput{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
	}, nil
}

// parsePageParam applies the default when the param is absent; an explicit
// value must be a positive integer.
func parsePageParam(val string, def int) (int, error) {
	if val == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 1 {
		return 0, apperrors.NewValidationError("page and limit must be positive integers", nil)
	}
	return parsed, nil
}

func productResponse(product *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          product.ID,
		Title:       product.Title,
		Price:       product.Price,
		Description: product.Description,
		Image:       product.Image,
		Category:    product.Category,
		CreatedAt:   product.CreatedAt,
	}
}
