package repositories_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func testProduct() models.Product {
	return models.Product{
		ID:           "trj-crd",
		Name:         "Tarjeta de crédito",
		Description:  "Tarjeta de consumo bajo la modalidad de crédito",
		Logo:         "https://images.example.com/logos/visa.png",
		DateRelease:  "2030-01-15",
		DateRevision: "2031-01-15",
	}
}

func TestHTTPProductRepository_GetAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		json.NewEncoder(w).Encode(models.ProductListResult{Data: []models.Product{testProduct()}})
	}))
	defer server.Close()

	repo := repositories.NewHTTPProductRepository(server.URL, server.Client())
	products, err := repo.GetAll()

	assert.NoError(t, err)
	assert.Equal(t, []models.Product{testProduct()}, products)
}

func TestHTTPProductRepository_GetByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/trj-crd", r.URL.Path)
		json.NewEncoder(w).Encode(testProduct())
	}))
	defer server.Close()

	repo := repositories.NewHTTPProductRepository(server.URL, server.Client())
	product, err := repo.GetByID("trj-crd")

	assert.NoError(t, err)
	assert.Equal(t, testProduct(), *product)
}

func TestHTTPProductRepository_VerifyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/verification/trj-crd", r.URL.Path)
		json.NewEncoder(w).Encode(true)
	}))
	defer server.Close()

	repo := repositories.NewHTTPProductRepository(server.URL, server.Client())
	exists, err := repo.VerifyID("trj-crd")

	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestHTTPProductRepository_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var received models.Product
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Equal(t, testProduct(), received)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.MutationResult{Message: "Product added successfully", Data: &received})
	}))
	defer server.Close()

	repo := repositories.NewHTTPProductRepository(server.URL, server.Client())
	product := testProduct()
	result, err := repo.Create(&product)

	assert.NoError(t, err)
	assert.Equal(t, "Product added successfully", result.Message)
	assert.Equal(t, testProduct(), *result.Data)
}

func TestHTTPProductRepository_UpdateAndDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/trj-crd", r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			json.NewEncoder(w).Encode(models.MutationResult{Message: "Product updated successfully"})
		case http.MethodDelete:
			json.NewEncoder(w).Encode(models.MutationResult{Message: "Product removed successfully"})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	repo := repositories.NewHTTPProductRepository(server.URL, server.Client())
	product := testProduct()

	result, err := repo.Update("trj-crd", &product)
	assert.NoError(t, err)
	assert.Equal(t, "Product updated successfully", result.Message)

	result, err = repo.Delete("trj-crd")
	assert.NoError(t, err)
	assert.Equal(t, "Product removed successfully", result.Message)
}

func TestHTTPProductRepository_APIErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid product identifier"})
	}))
	defer server.Close()

	repo := repositories.NewHTTPProductRepository(server.URL, server.Client())
	_, err := repo.GetByID("bad id")

	// The API's own message becomes the error text.
	assert.EqualError(t, err, "Invalid product identifier")
}

func TestHTTPProductRepository_APIErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := repositories.NewHTTPProductRepository(server.URL, server.Client())
	_, err := repo.GetAll()

	assert.EqualError(t, err, "Unexpected API error")
}
