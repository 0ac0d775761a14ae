// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"context"

	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
	"gorm.io/gorm"
)

// DefaultListingLimit caps the public browse page.
const DefaultListingLimit = 50

// CatalogFlow handles service and product listings: the owner-facing CRUD
// and the public browse surface.
type CatalogFlow interface {
	CreateService(ctx context.Context, providerID uint, request *dto.CreateServiceRequest) (*dto.ServiceDTO, error)
	UpdateService(ctx context.Context, providerID, serviceID uint, request *dto.UpdateServiceRequest) (*dto.ServiceDTO, error)
	DeleteService(ctx context.Context, providerID, serviceID uint) error
	ListProviderServices(ctx context.Context, providerID uint) ([]dto.ServiceDTO, error)

	CreateProduct(ctx context.Context, providerID uint, request *dto.CreateProductRequest) (*dto.ProductDTO, error)
	UpdateProduct(ctx context.Context, providerID, productID uint, request *dto.UpdateProductRequest) (*dto.ProductDTO, error)
	DeleteProduct(ctx context.Context, providerID, productID uint) error
	ListProviderProducts(ctx context.Context, providerID uint) ([]dto.ProductDTO, error)

	PublicListings(ctx context.Context, limit int) (*dto.ListingsResponse, error)
	GetService(ctx context.Context, serviceID uint) (*dto.ServiceDTO, error)
	ProviderDirectory(ctx context.Context) (*dto.ProviderDirectoryResponse, error)
	ProviderProfile(ctx context.Context, providerID uint) (*dto.ProviderProfileResponse, error)
}

// CatalogFlowImpl implements the catalog business flow
type CatalogFlowImpl struct {
	serviceRepo  repository.ServiceRepository
	productRepo  repository.ProductRepository
	providerRepo repository.ProviderRepository
	profileRepo  repository.ProfileRepository
	db           *gorm.DB
}

// NewCatalogFlow creates a new catalog flow instance
func NewCatalogFlow(
	serviceRepo repository.ServiceRepository,
	productRepo repository.ProductRepository,
	providerRepo repository.ProviderRepository,
	profileRepo repository.ProfileRepository,
	db *gorm.DB,
) CatalogFlow {
	return &CatalogFlowImpl{
		serviceRepo:  serviceRepo,
		productRepo:  productRepo,
		providerRepo: providerRepo,
		profileRepo:  profileRepo,
		db:           db,
	}
}

// CreateService adds a listing owned by providerID. The house provider posts
// under the operator profile's display name.
func (cf *CatalogFlowImpl) CreateService(ctx context.Context, providerID uint, request *dto.CreateServiceRequest) (*dto.ServiceDTO, error) {
	postedBy, err := cf.displayName(ctx, providerID)
	if err != nil {
		return nil, err
	}

	service := &models.Service{
		ProviderID:  providerID,
		PostedBy:    postedBy,
		Title:       request.Title,
		Description: request.Description,
		Price:       request.Price,
		IsActive:    utils.ToPtr(true),
		IsCertified: utils.ToPtr(false),
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	if err := cf.serviceRepo.Save(ctx, service); err != nil {
		return nil, NewBusinessError("SERVICE_CREATE_FAILED", "Failed to create service", err)
	}

	result := ToServiceDTO(*service)
	return &result, nil
}

func (cf *CatalogFlowImpl) UpdateService(ctx context.Context, providerID, serviceID uint, request *dto.UpdateServiceRequest) (*dto.ServiceDTO, error) {
	service, err := cf.loadOwnedService(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}

	if request.Title != nil {
		service.Title = *request.Title
	}
	if request.Description != nil {
		service.Description = *request.Description
	}
	if request.Price != nil {
		service.Price = *request.Price
	}
	if request.IsActive != nil {
		service.IsActive = request.IsActive
	}
	service.UpdatedAt = utils.UTCNow()

	if err := cf.serviceRepo.Update(ctx, service); err != nil {
		return nil, NewBusinessError("SERVICE_UPDATE_FAILED", "Failed to update service", err)
	}

	result := ToServiceDTO(*service)
	return &result, nil
}

func (cf *CatalogFlowImpl) DeleteService(ctx context.Context, providerID, serviceID uint) error {
	deleted, err := cf.serviceRepo.DeleteByIDAndProvider(ctx, serviceID, providerID)
	if err != nil {
		return NewBusinessError("SERVICE_DELETE_FAILED", "Failed to delete service", err)
	}
	if !deleted {
		return NewBusinessError("SERVICE_NOT_FOUND", "Service not found", ErrServiceNotFound)
	}
	return nil
}

func (cf *CatalogFlowImpl) ListProviderServices(ctx context.Context, providerID uint) ([]dto.ServiceDTO, error) {
	services, err := cf.serviceRepo.ByFilter(ctx, models.ServiceFilter{ProviderID: &providerID}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("SERVICE_LIST_FAILED", "Failed to list services", err)
	}

	out := make([]dto.ServiceDTO, 0, len(services))
	for _, service := range services {
		out = append(out, ToServiceDTO(*service))
	}
	return out, nil
}

func (cf *CatalogFlowImpl) CreateProduct(ctx context.Context, providerID uint, request *dto.CreateProductRequest) (*dto.ProductDTO, error) {
	postedBy, err := cf.displayName(ctx, providerID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ProviderID:  providerID,
		PostedBy:    postedBy,
		Title:       request.Title,
		Description: request.Description,
		Price:       request.Price,
		IsActive:    utils.ToPtr(true),
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	if err := cf.productRepo.Save(ctx, product); err != nil {
		return nil, NewBusinessError("PRODUCT_CREATE_FAILED", "Failed to create product", err)
	}

	result := ToProductDTO(*product)
	return &result, nil
}

func (cf *CatalogFlowImpl) UpdateProduct(ctx context.Context, providerID, productID uint, request *dto.UpdateProductRequest) (*dto.ProductDTO, error) {
	product, err := cf.loadOwnedProduct(ctx, providerID, productID)
	if err != nil {
		return nil, err
	}

	if request.Title != nil {
		product.Title = *request.Title
	}
	if request.Description != nil {
		product.Description = *request.Description
	}
	if request.Price != nil {
		product.Price = *request.Price
	}
	if request.IsActive != nil {
		product.IsActive = request.IsActive
	}
	product.UpdatedAt = utils.UTCNow()

	if err := cf.productRepo.Update(ctx, product); err != nil {
		return nil, NewBusinessError("PRODUCT_UPDATE_FAILED", "Failed to update product", err)
	}

	result := ToProductDTO(*product)
	return &result, nil
}

func (cf *CatalogFlowImpl) DeleteProduct(ctx context.Context, providerID, productID uint) error {
	deleted, err := cf.productRepo.DeleteByIDAndProvider(ctx, productID, providerID)
	if err != nil {
		return NewBusinessError("PRODUCT_DELETE_FAILED", "Failed to delete product", err)
	}
	if !deleted {
		return NewBusinessError("PRODUCT_NOT_FOUND", "Product not found", ErrProductNotFound)
	}
	return nil
}

func (cf *CatalogFlowImpl) ListProviderProducts(ctx context.Context, providerID uint) ([]dto.ProductDTO, error) {
	products, err := cf.productRepo.ByFilter(ctx, models.ProductFilter{ProviderID: &providerID}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "Failed to list products", err)
	}

	out := make([]dto.ProductDTO, 0, len(products))
	for _, product := range products {
		out = append(out, ToProductDTO(*product))
	}
	return out, nil
}

// PublicListings returns the active services and products for the browse page.
func (cf *CatalogFlowImpl) PublicListings(ctx context.Context, limit int) (*dto.ListingsResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = DefaultListingLimit
	}

	active := utils.ToPtr(true)
	services, err := cf.serviceRepo.ByFilter(ctx, models.ServiceFilter{IsActive: active}, "created_at DESC", limit, 0)
	if err != nil {
		return nil, NewBusinessError("LISTINGS_FAILED", "Failed to list services", err)
	}
	products, err := cf.productRepo.ByFilter(ctx, models.ProductFilter{IsActive: active}, "created_at DESC", limit, 0)
	if err != nil {
		return nil, NewBusinessError("LISTINGS_FAILED", "Failed to list products", err)
	}

	response := &dto.ListingsResponse{
		Services: make([]dto.ServiceDTO, 0, len(services)),
		Products: make([]dto.ProductDTO, 0, len(products)),
	}
	for _, service := range services {
		response.Services = append(response.Services, ToServiceDTO(*service))
	}
	for _, product := range products {
		response.Products = append(response.Products, ToProductDTO(*product))
	}
	return response, nil
}

// GetService returns one active service for the public detail page.
func (cf *CatalogFlowImpl) GetService(ctx context.Context, serviceID uint) (*dto.ServiceDTO, error) {
	service, err := cf.serviceRepo.ByID(ctx, serviceID)
	if err != nil {
		return nil, NewBusinessError("SERVICE_LOOKUP_FAILED", "Failed to load service", err)
	}
	if service == nil || !utils.IsTrue(service.IsActive) {
		return nil, NewBusinessError("SERVICE_NOT_FOUND", "Service not found", ErrServiceNotFound)
	}

	result := ToServiceDTO(*service)
	return &result, nil
}

// ProviderDirectory lists active providers for the public site, ordered by
// business name.
func (cf *CatalogFlowImpl) ProviderDirectory(ctx context.Context) (*dto.ProviderDirectoryResponse, error) {
	providers, err := cf.providerRepo.ListActiveProviders(ctx, 0, 0)
	if err != nil {
		return nil, NewBusinessError("PROVIDER_LIST_FAILED", "Failed to list providers", err)
	}

	response := &dto.ProviderDirectoryResponse{
		Providers: make([]dto.PublicProviderDTO, 0, len(providers)),
		Total:     len(providers),
	}
	for _, provider := range providers {
		response.Providers = append(response.Providers, ToPublicProviderDTO(*provider))
	}
	return response, nil
}

// ProviderProfile returns a provider's public page. Deactivated providers
// are hidden, same as their listings.
func (cf *CatalogFlowImpl) ProviderProfile(ctx context.Context, providerID uint) (*dto.ProviderProfileResponse, error) {
	provider, err := cf.providerRepo.ByID(ctx, providerID)
	if err != nil {
		return nil, NewBusinessError("PROVIDER_LOOKUP_FAILED", "Failed to load provider", err)
	}
	if provider == nil || !utils.IsTrue(provider.IsActive) {
		return nil, NewBusinessError("PROVIDER_NOT_FOUND", "Provider not found", ErrProviderNotFound)
	}

	services, err := cf.serviceRepo.ListActiveByProvider(ctx, providerID, 0)
	if err != nil {
		return nil, NewBusinessError("SERVICE_LIST_FAILED", "Failed to list services", err)
	}
	products, err := cf.productRepo.ListActiveByProvider(ctx, providerID, 0)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "Failed to list products", err)
	}

	response := &dto.ProviderProfileResponse{
		Provider: ToPublicProviderDTO(*provider),
		Services: make([]dto.ServiceDTO, 0, len(services)),
		Products: make([]dto.ProductDTO, 0, len(products)),
	}
	for _, service := range services {
		response.Services = append(response.Services, ToServiceDTO(*service))
	}
	for _, product := range products {
		response.Products = append(response.Products, ToProductDTO(*product))
	}
	return response, nil
}

// displayName resolves the PostedBy string for new listings.
func (cf *CatalogFlowImpl) displayName(ctx context.Context, providerID uint) (string, error) {
	if providerID == models.HouseProviderID {
		profile, err := cf.profileRepo.Get(ctx)
		if err != nil {
			return "", NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to load operator profile", err)
		}
		if profile == nil {
			return "Provider", nil
		}
		return profile.PostedByName(), nil
	}

	provider, err := cf.providerRepo.ByID(ctx, providerID)
	if err != nil {
		return "", NewBusinessError("PROVIDER_LOOKUP_FAILED", "Failed to load provider", err)
	}
	if provider == nil {
		return "", NewBusinessError("PROVIDER_NOT_FOUND", "Provider not found", ErrProviderNotFound)
	}
	return provider.DisplayName(), nil
}

func (cf *CatalogFlowImpl) loadOwnedService(ctx context.Context, providerID, serviceID uint) (*models.Service, error) {
	service, err := cf.serviceRepo.ByID(ctx, serviceID)
	if err != nil {
		return nil, NewBusinessError("SERVICE_LOOKUP_FAILED", "Failed to load service", err)
	}
	if service == nil {
		return nil, NewBusinessError("SERVICE_NOT_FOUND", "Service not found", ErrServiceNotFound)
	}
	if service.ProviderID != providerID {
		return nil, NewBusinessError("LISTING_ACCESS_DENIED", "Listing access denied", ErrListingAccessDenied)
	}
	return service, nil
}

func (cf *CatalogFlowImpl) loadOwnedProduct(ctx context.Context, providerID, productID uint) (*models.Product, error) {
	product, err := cf.productRepo.ByID(ctx, productID)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LOOKUP_FAILED", "Failed to load product", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "Product not found", ErrProductNotFound)
	}
	if product.ProviderID != providerID {
		return nil, NewBusinessError("LISTING_ACCESS_DENIED", "Listing access denied", ErrListingAccessDenied)
	}
	return product, nil
}
