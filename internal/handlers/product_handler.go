package handlers

import (
	"errors"
	"fmt"

	"perkakas/internal/filters"
	"perkakas/internal/models"
	"perkakas/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the product and seed routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	router.Post("/seed", h.HandleSeed)
}

// HandleListProducts searches products by free text and category.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	req := filters.Request{Limit: filters.DefaultLimit}
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Invalid query parameters",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	products, err := h.service.SearchProducts(c.UserContext(), req)
	if err != nil {
		return h.fail(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleCreateProduct creates a product and responds with its id as a JSON string.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return validationFailed(c, err)
	}

	id, err := h.service.CreateProduct(c.UserContext(), input)
	if err != nil {
		return h.fail(c, "Could not create product", err)
	}
	return c.JSON(id)
}

// HandleGetProductByID retrieves a single product by its id.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleSeed inserts the built-in catalog entries that are missing.
func (h *ProductHandler) HandleSeed(c *fiber.Ctx) error {
	inserted, err := h.service.Seed(c.UserContext(), services.DefaultCatalog())
	if err != nil {
		return h.fail(c, "Could not seed catalog", err)
	}
	return c.JSON(fiber.Map{"inserted": inserted})
}

// fail maps a service error to its status code.
func (h *ProductHandler) fail(c *fiber.Ctx, message string, err error) error {
	status := statusFor(err)
	switch status {
	case fiber.StatusBadRequest:
		message = "Invalid ID"
	case fiber.StatusNotFound:
		message = "Not found"
	case fiber.StatusUnprocessableEntity:
		message = "Invalid limit"
	default:
		h.logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidIdentifier):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrInvalidLimit):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
