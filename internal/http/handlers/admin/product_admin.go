package admin

import (
	"strings"

	handlershared "github.com/fulfillcore/internal/http/handlers/shared"
	"github.com/fulfillcore/internal/http/response"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/repository"
	"github.com/fulfillcore/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	ID      string       `json:"id"`
	BrandID string       `json:"brand_id"`
	Name    string       `json:"name" binding:"required"`
	Price   models.Money `json:"price"`
	Stock   int          `json:"stock"`
}

// StockIncreaseRequest 库存回补请求
type StockIncreaseRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (r ProductRequest) toInput() service.CreateProductInput {
	return service.CreateProductInput{
		ID:      r.ID,
		BrandID: r.BrandID,
		Name:    r.Name,
		Price:   r.Price,
		Stock:   r.Stock,
	}
}

// GetAdminProducts 商品列表
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		BrandID:  strings.TrimSpace(c.Query("brand_id")),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetAdminProduct 商品详情
func (h *Handler) GetAdminProduct(c *gin.Context) {
	product, err := h.ProductService.GetByID(c.Param("id"))
	if err != nil {
		respondProductError(c, err, "error.product_fetch_failed")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondProductError(c, err, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品，库存只能通过库存接口调整
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(c.Param("id"), req.toInput())
	if err != nil {
		respondProductError(c, err, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.ProductService.Delete(c.Param("id")); err != nil {
		respondProductError(c, err, "error.product_save_failed")
		return
	}
	response.Success(c, nil)
}

// IncreaseProductStock 回补商品库存
func (h *Handler) IncreaseProductStock(c *gin.Context) {
	var req StockIncreaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	productID := c.Param("id")
	if err := h.StockService.IncreaseStock(productID, req.Quantity); err != nil {
		respondProductError(c, err, "error.stock_update_failed")
		return
	}
	product, err := h.ProductService.GetByID(productID)
	if err != nil {
		respondProductError(c, err, "error.product_fetch_failed")
		return
	}
	requestLog(c).Infow("admin_stock_increased", "product_id", productID, "quantity", req.Quantity, "stock", product.Stock)
	response.Success(c, product)
}
