package services_test

import (
	"fmt"
	"testing"

	"catalogo/internal/models"
	"catalogo/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) VerifyID(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) (*models.MutationResult, error) {
	args := m.Called(product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MutationResult), args.Error(1)
}

func (m *MockProductRepository) Update(id string, product *models.Product) (*models.MutationResult, error) {
	args := m.Called(id, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MutationResult), args.Error(1)
}

func (m *MockProductRepository) Delete(id string) (*models.MutationResult, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MutationResult), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProductEvent(eventData map[string]interface{}) error {
	args := m.Called(eventData)
	return args.Error(0)
}

func sampleProduct() *models.Product {
	return &models.Product{
		ID:           "cta-aho",
		Name:         "Cuenta de ahorro",
		Description:  "Producto financiero para ahorro personal",
		Logo:         "https://images.example.com/logos/ahorro.png",
		DateRelease:  "2030-03-10",
		DateRevision: "2031-03-10",
	}
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProducts := []models.Product{*sampleProduct()}

	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProduct := sampleProduct()

	// Test successful retrieval
	mockRepo.On("GetByID", "cta-aho").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID("cta-aho")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	// Test product not found
	mockRepo.On("GetByID", "missing").Return(nil, fmt.Errorf("product with ID missing not found")).Once()
	product, err = service.GetProductByID("missing")
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertExpectations(t)
}

func TestProductService_VerifyID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("VerifyID", "cta-aho").Return(true, nil).Once()
	mockRepo.On("VerifyID", "new-id").Return(false, nil).Once()

	exists, err := service.VerifyID("cta-aho")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.VerifyID("new-id")
	assert.NoError(t, err)
	assert.False(t, exists)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProductPublishesEvent(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher)

	newProduct := sampleProduct()
	result := &models.MutationResult{Message: "Product added successfully", Data: newProduct}

	mockRepo.On("Create", newProduct).Return(result, nil).Once()
	mockPublisher.On("PublishProductEvent", mock.MatchedBy(func(eventData map[string]interface{}) bool {
		return eventData["action"] == services.EventProductCreated &&
			eventData["product_id"] == newProduct.ID &&
			eventData["event_id"] != ""
	})).Return(nil).Once()

	got, err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	assert.Equal(t, result, got)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_CreateProductRepoError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher)

	newProduct := sampleProduct()
	mockRepo.On("Create", newProduct).Return(nil, fmt.Errorf("upstream error")).Once()

	got, err := service.CreateProduct(newProduct)
	assert.Error(t, err)
	assert.Nil(t, got)

	// No event is published for a failed mutation.
	mockPublisher.AssertNotCalled(t, "PublishProductEvent", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_PublishFailureDoesNotFailMutation(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher)

	newProduct := sampleProduct()
	result := &models.MutationResult{Message: "Product added successfully"}

	mockRepo.On("Create", newProduct).Return(result, nil).Once()
	mockPublisher.On("PublishProductEvent", mock.Anything).Return(fmt.Errorf("broker unreachable")).Once()

	got, err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	assert.Equal(t, result, got)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_UpdateProductPublishesEvent(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher)

	updated := sampleProduct()
	updated.Name = "Cuenta de ahorro plus"
	result := &models.MutationResult{Message: "Product updated successfully", Data: updated}

	mockRepo.On("Update", updated.ID, updated).Return(result, nil).Once()
	mockPublisher.On("PublishProductEvent", mock.MatchedBy(func(eventData map[string]interface{}) bool {
		return eventData["action"] == services.EventProductUpdated
	})).Return(nil).Once()

	got, err := service.UpdateProduct(updated.ID, updated)
	assert.NoError(t, err)
	assert.Equal(t, result, got)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_DeleteProductPublishesEvent(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher)

	result := &models.MutationResult{Message: "Product removed successfully"}

	mockRepo.On("Delete", "cta-aho").Return(result, nil).Once()
	mockPublisher.On("PublishProductEvent", mock.MatchedBy(func(eventData map[string]interface{}) bool {
		_, hasProduct := eventData["product"]
		return eventData["action"] == services.EventProductDeleted && !hasProduct
	})).Return(nil).Once()

	got, err := service.DeleteProduct("cta-aho")
	assert.NoError(t, err)
	assert.Equal(t, result, got)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}
