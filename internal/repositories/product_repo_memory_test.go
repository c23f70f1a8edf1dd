package repositories_test

import (
	"testing"

	"catalogo/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryProductRepository_CRUD(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	product := testProduct()

	result, err := repo.Create(&product)
	assert.NoError(t, err)
	assert.Equal(t, "Product added successfully", result.Message)

	exists, err := repo.VerifyID(product.ID)
	assert.NoError(t, err)
	assert.True(t, exists)

	// Duplicate IDs are rejected.
	_, err = repo.Create(&product)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	got, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, product, *got)

	// The stored identity survives an update that carries another ID.
	changed := product
	changed.ID = "other-id"
	changed.Name = "Tarjeta de crédito oro"
	_, err = repo.Update(product.ID, &changed)
	assert.NoError(t, err)

	got, err = repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	assert.Equal(t, "Tarjeta de crédito oro", got.Name)

	_, err = repo.Delete(product.ID)
	assert.NoError(t, err)
	_, err = repo.GetByID(product.ID)
	assert.Error(t, err)
}

func TestInMemoryProductRepository_GetAllOrdered(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()

	first := testProduct()
	second := testProduct()
	second.ID = "cta-aho"

	_, err := repo.Create(&first)
	assert.NoError(t, err)
	_, err = repo.Create(&second)
	assert.NoError(t, err)

	products, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "cta-aho", products[0].ID)
	assert.Equal(t, "trj-crd", products[1].ID)
}
