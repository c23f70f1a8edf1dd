package handlers

import (
	"log"
	"strings"
	"time"

	"catalogo/internal/listview"
	"catalogo/internal/models"
	"catalogo/internal/services"
	"catalogo/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service         *services.ProductService
	debounce        time.Duration
	defaultPageSize int
}

// NewProductHandler creates a new ProductHandler. The debounce interval
// is handed to each form validation engine; a non-positive value uses
// the engine default.
func NewProductHandler(service *services.ProductService, debounce time.Duration, defaultPageSize int) *ProductHandler {
	if defaultPageSize < 1 {
		defaultPageSize = listview.DefaultPageSize
	}
	return &ProductHandler{
		service:         service,
		debounce:        debounce,
		defaultPageSize: defaultPageSize,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// The verification route must be registered before the ":id" route so
// it is not captured as a product ID.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/verification/:id", h.HandleVerifyID)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts returns one page of the catalog, filtered by the
// optional free-text search term. Query parameters: search, page,
// page_size.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}

	// A fresh load always starts from page 1; the requested page is
	// then applied (clamped) on top of it.
	store := listview.New(h.defaultPageSize)
	store.SetItems(products)
	store.SetPage(1)
	if size := c.QueryInt("page_size"); size > 0 {
		store.SetPageSize(size)
	}
	store.SetSearchTerm(c.Query("search"))
	store.SetPage(c.QueryInt("page", 1))

	pageItems := store.PageItems()
	if pageItems == nil {
		pageItems = []models.Product{}
	}

	return c.JSON(fiber.Map{
		"data":          pageItems,
		"page":          store.Page(),
		"page_size":     store.PageSize(),
		"total_pages":   store.TotalPages(),
		"total_results": len(store.FilteredItems()),
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleVerifyID reports whether a product ID is already taken. The
// response body is a bare boolean, matching the upstream API.
func (h *ProductHandler) HandleVerifyID(c *fiber.Ctx) error {
	exists, err := h.service.VerifyID(c.Params("id"))
	if err != nil {
		log.Printf("Error verifying product ID: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not verify product ID",
			"error":   err.Error(),
		})
	}
	return c.JSON(exists)
}

// HandleCreateProduct validates and creates a new product. The request
// body is run through a create-mode validation engine, including the
// debounced ID uniqueness check, before it reaches the repository.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.Product
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	engine := validation.NewEngine(h.service.VerifyID, h.debounce)
	defer engine.Close()
	applyFields(engine, &req)

	if err := engine.Settle(c.Context()); err != nil {
		return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{
			"message": "Request cancelled before validation settled",
		})
	}

	product, err := engine.Submit()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationErrorBody(engine))
	}

	result, err := h.service.CreateProduct(product)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		if strings.Contains(err.Error(), "already exists") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Could not create product",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleUpdateProduct validates and updates an existing product. The
// stored record seeds an edit-mode engine, so the ID is locked and is
// reattached from the record's identity rather than the payload.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	seed, err := h.service.GetProductByID(productID)
	if err != nil {
		log.Printf("Error loading product %s for update: %v", productID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}

	var req models.Product
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	engine := validation.NewEngine(h.service.VerifyID, h.debounce)
	defer engine.Close()
	engine.Reset(seed)
	applyFields(engine, &req)

	if err := engine.Settle(c.Context()); err != nil {
		return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{
			"message": "Request cancelled before validation settled",
		})
	}

	product, err := engine.Submit()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationErrorBody(engine))
	}

	result, err := h.service.UpdateProduct(productID, product)
	if err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}

	return c.JSON(result)
}

// HandleDeleteProduct removes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	result, err := h.service.DeleteProduct(productID)
	if err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// applyFields feeds a request payload into the engine field by field.
// date_revision is applied after date_release so an explicit revision
// value wins over the derived one and is then checked by the
// cross-field rule.
func applyFields(engine *validation.Engine, req *models.Product) {
	engine.SetField(validation.FieldID, req.ID)
	engine.SetField(validation.FieldName, req.Name)
	engine.SetField(validation.FieldDescription, req.Description)
	engine.SetField(validation.FieldLogo, req.Logo)
	engine.SetField(validation.FieldDateRelease, req.DateRelease)
	if req.DateRevision != "" || engine.Value(validation.FieldDateRevision) == "" {
		engine.SetField(validation.FieldDateRevision, req.DateRevision)
	}
}

// validationErrorBody collects the visible per-field messages (after a
// refused submit every field is visible) plus the form-level message.
func validationErrorBody(engine *validation.Engine) fiber.Map {
	fieldErrors := make(map[string]string)
	for _, field := range validation.Fields {
		if engine.ShowFieldError(field) {
			fieldErrors[field] = engine.ErrorMessage(field)
		}
	}

	body := fiber.Map{
		"message": "Validation failed",
		"errors":  fieldErrors,
	}
	if engine.ShowFormError() {
		body["form_error"] = engine.FormErrorMessage()
	}
	return body
}
