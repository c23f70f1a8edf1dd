package repositories

import (
	"catalogo/internal/models"
)

// ProductRepository defines the interface for product data access. The
// authoritative store lives behind the upstream products API; mutations
// return the upstream MutationResult rather than the bare record.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	VerifyID(id string) (bool, error)
	Create(product *models.Product) (*models.MutationResult, error)
	Update(id string, product *models.Product) (*models.MutationResult, error)
	Delete(id string) (*models.MutationResult, error)
}
