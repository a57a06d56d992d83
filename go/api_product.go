package shopserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/ports"
)

// ProductAPI exposes catalog administration over HTTP.
type ProductAPI struct {
	service catalogports.Service
}

// NewProductAPI wires dependencies.
func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

func toTransportProduct(model Product) producthttpmapper.Product {
	return producthttpmapper.Product{
		ID:          model.Id,
		Code:        model.Code,
		Description: model.Description,
		Price:       model.Price,
		Currency:    model.Currency,
		Valid:       model.Valid,
		Stock:       model.Stock,
	}
}

func fromTransportProduct(product producthttpmapper.Product) Product {
	return Product{
		Id:          product.ID,
		Code:        product.Code,
		Description: product.Description,
		Price:       product.Price,
		Currency:    product.Currency,
		Valid:       product.Valid,
		Stock:       product.Stock,
	}
}

func fromTransportProducts(products []producthttpmapper.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, product := range products {
		result = append(result, fromTransportProduct(product))
	}
	return result
}

// Post /product/:customerId
// Add a product to the catalog
func (api *ProductAPI) AddProduct(c *gin.Context) {
	userID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	var payload Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := producthttpmapper.ToDomainProduct(toTransportProduct(payload))
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	saved, err := api.service.AddProduct(c.Request.Context(), userID, product)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportProduct(producthttpmapper.FromDomainProduct(saved)))
}

// Put /product/:customerId
// Update the editable attributes of the product named by code
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	userID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	var payload Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	update, err := producthttpmapper.ToDomainUpdate(toTransportProduct(payload))
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	saved, err := api.service.UpdateProduct(c.Request.Context(), userID, payload.Code, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportProduct(producthttpmapper.FromDomainProduct(saved)))
}

// Get /product/:productCode
// Find product by code
func (api *ProductAPI) GetProduct(c *gin.Context) {
	product, err := api.service.GetProduct(c.Request.Context(), c.Param("productCode"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportProduct(producthttpmapper.FromDomainProduct(product)))
}

// Get /product
// List the catalog
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportProducts(producthttpmapper.FromDomainProducts(products)))
}

// Delete /product/:productCode/:customerId
// Remove a product from the catalog
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	userID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), userID, c.Param("productCode")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Patch /product/:productCode/:quantity/:customerId
// Add stock to a product
func (api *ProductAPI) AddStock(c *gin.Context) {
	userID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	quantity, err := strconv.Atoi(c.Param("quantity"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.AddStock(c.Request.Context(), userID, c.Param("productCode"), quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportProduct(producthttpmapper.FromDomainProduct(product)))
}
