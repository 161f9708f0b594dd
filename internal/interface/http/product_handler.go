package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ecomstack/storefront-api/internal/application"
	"github.com/ecomstack/storefront-api/pkg/helpers"
	"github.com/ecomstack/storefront-api/pkg/response"
)

type ProductHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.CatalogService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

// GetBySlug GET /api/products/single/:slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	p, err := h.Svc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			response.Fail(c, http.StatusNotFound, "Product not found", nil)
			return
		}
		helpers.LogError(h.Logger, "get product failed", err, logrus.Fields{"slug": slug})
		response.Fail(c, http.StatusInternalServerError, "Error while getting product", nil)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Related GET /api/products/related/:productId/:categoryId
// Up to three products from the same category, excluding the product itself.
func (h *ProductHandler) Related(c *gin.Context) {
	productID := c.Param("productId")
	categoryID := c.Param("categoryId")
	out, err := h.Svc.Related(c.Request.Context(), productID, categoryID)
	if err != nil {
		helpers.LogError(h.Logger, "related products failed", err, logrus.Fields{
			"product_id":  productID,
			"category_id": categoryID,
		})
		response.Fail(c, http.StatusInternalServerError, "Error while getting related products", nil)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Search GET /api/products/search?q=...&size=...
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusOK, []any{})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	out, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		helpers.LogError(h.Logger, "product search failed", err, logrus.Fields{"q": q})
		response.Fail(c, http.StatusInternalServerError, "Error while searching products", nil)
		return
	}
	c.JSON(http.StatusOK, out)
}
