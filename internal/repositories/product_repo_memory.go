package repositories

import (
	"fmt"
	"sort"
	"sync"

	"catalogo/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of
// ProductRepository. It backs local development (no upstream API
// configured) and the handler tests.
type InMemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewInMemoryProductRepository creates an empty in-memory repository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products, ordered by ID so listings are stable.
func (r *InMemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].ID < productList[j].ID
	})
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *InMemoryProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	return &product, nil
}

// VerifyID reports whether a product with the given ID already exists.
func (r *InMemoryProductRepository) VerifyID(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

// Create adds a new product.
func (r *InMemoryProductRepository) Create(product *models.Product) (*models.MutationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		return nil, fmt.Errorf("product with ID %s already exists", product.ID)
	}
	r.products[product.ID] = *product

	stored := *product
	return &models.MutationResult{
		Message: "Product added successfully",
		Data:    &stored,
	}, nil
}

// Update modifies an existing product. The stored ID is kept: the
// record's identity is immutable once created.
func (r *InMemoryProductRepository) Update(id string, product *models.Product) (*models.MutationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return nil, fmt.Errorf("product with ID %s not found for update", id)
	}
	updated := *product
	updated.ID = id
	r.products[id] = updated

	stored := updated
	return &models.MutationResult{
		Message: "Product updated successfully",
		Data:    &stored,
	}, nil
}

// Delete removes a product by its ID.
func (r *InMemoryProductRepository) Delete(id string) (*models.MutationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return nil, fmt.Errorf("product with ID %s not found for deletion", id)
	}
	delete(r.products, id)

	return &models.MutationResult{
		Message: "Product removed successfully",
	}, nil
}
