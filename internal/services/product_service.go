package services

import (
	"log"
	"time"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/google/uuid"
)

// Product event actions published on catalog mutations.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher publishes catalog mutation events. Publishing is best
// effort: the service logs failures but never fails a mutation over
// them.
type EventPublisher interface {
	PublishProductEvent(eventData map[string]interface{}) error
}

// ProductService is the application facade over the product
// repository. Every page-level caller goes through it rather than
// touching the repository directly.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher // optional, may be nil
}

// NewProductService creates a new ProductService. The publisher may be
// nil when no message broker is configured.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// GetAllProducts retrieves the full catalog.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// VerifyID reports whether a product ID is already taken. Its
// signature matches validation.CheckIDFunc, so it plugs straight into
// the form validation engine as the injected uniqueness check.
func (s *ProductService) VerifyID(id string) (bool, error) {
	return s.repo.VerifyID(id)
}

// CreateProduct submits a new product and publishes a created event.
func (s *ProductService) CreateProduct(product *models.Product) (*models.MutationResult, error) {
	result, err := s.repo.Create(product)
	if err != nil {
		return nil, err
	}
	s.publishEvent(EventProductCreated, product.ID, product)
	return result, nil
}

// UpdateProduct submits changes to an existing product and publishes
// an updated event.
func (s *ProductService) UpdateProduct(id string, product *models.Product) (*models.MutationResult, error) {
	result, err := s.repo.Update(id, product)
	if err != nil {
		return nil, err
	}
	s.publishEvent(EventProductUpdated, id, product)
	return result, nil
}

// DeleteProduct removes a product and publishes a deleted event.
func (s *ProductService) DeleteProduct(id string) (*models.MutationResult, error) {
	result, err := s.repo.Delete(id)
	if err != nil {
		return nil, err
	}
	s.publishEvent(EventProductDeleted, id, nil)
	return result, nil
}

// publishEvent sends a mutation event to the broker, if one is
// configured. Failures are logged and otherwise ignored.
func (s *ProductService) publishEvent(action, productID string, product *models.Product) {
	if s.publisher == nil {
		return
	}

	eventData := map[string]interface{}{
		"event_id":    uuid.New().String(),
		"action":      action,
		"product_id":  productID,
		"occurred_at": time.Now().Format(time.RFC3339),
	}
	if product != nil {
		eventData["product"] = product
	}

	if err := s.publisher.PublishProductEvent(eventData); err != nil {
		log.Printf("Failed to publish %s event for product %s: %v", action, productID, err)
	}
}
