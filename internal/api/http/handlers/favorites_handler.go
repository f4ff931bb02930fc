package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// FavoritesHandler manages the authenticated user's favorite list.
type FavoritesHandler struct {
	favorites *service.FavoritesService
}

// NewFavoritesHandler constructs handler.
func NewFavoritesHandler(favoritesService *service.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favoritesService}
}

// List GET /api/favorites.
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	products, err := h.favorites.ListFavorites(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(favoriteListResponse(products))
}

// Add POST /api/favorites/:productId.
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	products, err := h.favorites.AddFavorite(c.Context(), principal.User.ID, utils.CopyString(c.Params("productId")))
	if err != nil {
		return err
	}
	return c.JSON(favoriteListResponse(products))
}

// Remove DELETE /api/favorites/:productId.
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	products, err := h.favorites.RemoveFavorite(c.Context(), principal.User.ID, c.Params("productId"))
	if err != nil {
		return err
	}
	return c.JSON(favoriteListResponse(products))
}

// Check GET /api/favorites/check/:productId.
func (h *FavoritesHandler) Check(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	isFavorite, err := h.favorites.IsFavorite(c.Context(), principal.User.ID, c.Params("productId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FavoriteCheckResponse{IsFavorite: isFavorite})
}

func favoriteListResponse(products []domain.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, productResponse(&products[i]))
	}
	return items
}
