package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/request"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing active products, optionally for one category
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	products, err := h.productService.ListProducts(c.Request.Context(), filter.CategoryID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products retrieved successfully", products)
}

// Upsert handles creating or replacing a product
func (h *ProductHandler) Upsert(c *gin.Context) {
	var req request.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	product, err := h.productService.UpsertProduct(c.Request.Context(), &service.UpsertProductInput{
		ID:         req.ID,
		Name:       req.Name,
		PriceCents: req.PriceCents,
		CategoryID: req.CategoryID,
		Active:     req.Active,
		SortIndex:  req.SortIndex,
		GroupID:    req.GroupID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product saved successfully", product)
}

// SetGroup handles routing a product to a pickup station
func (h *ProductHandler) SetGroup(c *gin.Context) {
	var req request.SetProductGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	product, err := h.productService.SetProductGroup(c.Request.Context(), c.Param("id"), req.GroupID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product group updated successfully", product)
}

// Delete handles removing a product from sale
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}
