package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/service"
)

// ProductHandler exposes product endpoints.
type ProductHandler struct {
	crud[models.Product, models.Product, service.CreateProductRequest, service.UpdateProductRequest]
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{crud: newCRUD[models.Product, models.Product, service.CreateProductRequest, service.UpdateProductRequest](svc, "Product")}
}

// List godoc
// @Summary List products
// @Tags Products
// @Produce json
// @Param name query string false "Filter by name (substring)"
// @Param price query number false "Filter by price"
// @Param page query int false "Page number"
// @Param itemsPerPage query int false "Items per page (default 10)"
// @Success 200 {object} response.Envelope
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) { h.list(c) }

// Get godoc
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) { h.get(c) }

// Create godoc
// @Summary Create a product
// @Tags Products
// @Accept json
// @Produce json
// @Param payload body service.CreateProductRequest true "Product payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} errors.Error
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) { h.create(c) }

// Update godoc
// @Summary Update a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param payload body service.UpdateProductRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} errors.Error
// @Failure 422 {object} errors.Error
// @Router /products/{id} [put]
// @Router /products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) { h.update(c) }

// Delete godoc
// @Summary Delete a product
// @Tags Products
// @Param id path int true "Product ID"
// @Success 204
// @Failure 404 {object} errors.Error
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) { h.delete(c) }
