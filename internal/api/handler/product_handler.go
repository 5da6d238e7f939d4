package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/api/middleware"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
	"github.com/storefront/catalog-api/internal/core/validation"
)

// ProductHandler handles HTTP requests for catalog products.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /products.
//
// @Summary      List products
// @Description  Case-insensitive search on title and description, newest first.
// @Tags         products
// @Produce      json
// @Param        search  query     string  false  "Search term"
// @Success      200     {array}   domain.Product
// @Failure      429     {object}  messageResponse
// @Failure      500     {object}  messageResponse
// @Failure      503     {object}  messageResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      503  {object}  messageResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	in, err := productInput(c)
	if err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /products/:id. The body replaces all editable fields.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Product"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	in, err := productInput(c)
	if err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      429  {object}  messageResponse
// @Failure      503  {object}  messageResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// productInput prefers the payload validated by the pipeline and validates
// the body itself when the route has no validation stage.
func productInput(c echo.Context) (domain.ProductInput, error) {
	if in, ok := middleware.PayloadFrom[domain.ProductInput](c); ok {
		return in, nil
	}
	var body validation.ProductPayload
	if err := c.Bind(&body); err != nil {
		return domain.ProductInput{}, domain.NewValidationError("Request body must be a valid JSON object")
	}
	return validation.ValidateProduct(body)
}
