package catalog

import (
	"context"
	"fmt"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/merchant"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PlanResolver returns the effective subscription plan of a user
type PlanResolver interface {
	GetSubscriptionPlan(ctx context.Context, userID string) (*billing.SubscriptionPlan, error)
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	storeRepo   merchant.StoreRepository
	plans       PlanResolver
	metrics     *telemetry.BusinessMetrics
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. metrics may be nil.
func NewProductService(
	productRepo catalog.ProductRepository,
	storeRepo merchant.StoreRepository,
	plans PlanResolver,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		plans:       plans,
		metrics:     metrics,
		logger:      logger,
	}
}

// ListStorefront returns the products page with the category catalogue and
// the stores sidebar
func (s *ProductService) ListStorefront(ctx context.Context, params ProductListParams) (*StorefrontResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "list_storefront")
	defer span.End()

	products, err := s.queryProducts(ctx, params.toQuery(), params.pageRequest(DefaultProductsPerPage))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	stores, err := s.sidebarStores(ctx, params.storePageRequest(StorefrontSidebarLimit))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &StorefrontResponse{
		Products:   products,
		Categories: catalog.Categories(),
		Stores:     stores,
	}, nil
}

// ListSubcategory returns the page of one category/subcategory pair.
// Unknown pairs are not found.
func (s *ProductService) ListSubcategory(ctx context.Context, rawCategory, subcategory string, params ProductListParams) (*SubcategoryPageResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "list_subcategory",
		attribute.String("category", rawCategory),
		attribute.String("subcategory", subcategory))
	defer span.End()

	category, ok := catalog.ParseCategory(rawCategory)
	if !ok || !category.HasSubcategory(subcategory) {
		return nil, shared.ErrNotFound
	}

	q := params.toQuery()
	q.Categories = []string{string(category)}
	q.Subcategories = []string{subcategory}

	products, err := s.queryProducts(ctx, q, params.pageRequest(SubcategoryProductsPerPage))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	stores, err := s.sidebarStores(ctx, params.storePageRequest(SubcategorySidebarLimit))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	name := catalog.Unslugify(subcategory)
	return &SubcategoryPageResponse{
		Title:       catalog.TitleCase(name),
		Description: "Buy the best " + name,
		Category:    string(category),
		Subcategory: subcategory,
		Products:    products,
		Stores:      stores,
	}, nil
}

// ListStoreProducts returns the public product listing of one store
func (s *ProductService) ListStoreProducts(ctx context.Context, storeID int64, params ProductListParams) (shared.Page[ProductListItemResponse], error) {
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return shared.Page[ProductListItemResponse]{}, err
	}
	q := params.toQuery()
	q.StoreIDs = []int64{storeID}
	q.ActiveOnly = false
	return s.queryProducts(ctx, q, params.pageRequest(DefaultProductsPerPage))
}

// ListForStore returns the dashboard product listing of an owned store
func (s *ProductService) ListForStore(ctx context.Context, userID string, storeID int64, params ProductListParams) (shared.Page[ProductListItemResponse], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "list_for_store", attribute.Int64("store_id", storeID))
	defer span.End()

	if _, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID); err != nil {
		return shared.Page[ProductListItemResponse]{}, err
	}
	q := params.toQuery()
	q.StoreIDs = []int64{storeID}
	q.ActiveOnly = false
	return s.queryProducts(ctx, q, params.pageRequest(DefaultProductsPerPage))
}

func (s *ProductService) queryProducts(ctx context.Context, q catalog.ProductQuery, page shared.PageRequest) (shared.Page[ProductListItemResponse], error) {
	result, err := s.productRepo.Query(ctx, q, page)
	if err != nil {
		return shared.Page[ProductListItemResponse]{}, err
	}
	return shared.MapPage(result, ToProductListItemResponse), nil
}

func (s *ProductService) sidebarStores(ctx context.Context, page shared.PageRequest) (shared.Page[StoreSummaryResponse], error) {
	result, err := s.storeRepo.Query(ctx, merchant.StoreQuery{
		Sort: shared.SortParam{Column: "productCount", Direction: shared.SortDesc},
	}, page)
	if err != nil {
		return shared.Page[StoreSummaryResponse]{}, err
	}
	return shared.MapPage(result, toStoreSummary), nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id int64) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	if store, err := s.storeRepo.FindByID(ctx, product.StoreID); err == nil {
		resp.StoreName = store.Name
	}
	return &resp, nil
}

// GetForStore returns a product of an owned store
func (s *ProductService) GetForStore(ctx context.Context, userID string, storeID, productID int64) (*ProductResponse, error) {
	store, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	resp.StoreName = store.Name
	return &resp, nil
}

// Create adds a product to an owned store while the plan allows more products
func (s *ProductService) Create(ctx context.Context, userID string, storeID int64, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create", attribute.Int64("store_id", storeID))
	defer span.End()

	store, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.productRepo.CountByStore(ctx, storeID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	plan, err := s.plans.GetSubscriptionPlan(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if limit := plan.Limits.MaxProductCount; count >= int64(limit) {
		return nil, shared.NewDomainError(shared.ErrPlanLimitExceeded.Code,
			fmt.Sprintf("The %s plan allows up to %d products per store", plan.Title, limit))
	}

	product, err := buildProduct(storeID, req)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordProductCreated(ctx, string(product.Category))
	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("store_id", storeID))
	telemetry.SetOK(span)

	resp := ToProductResponse(product)
	resp.StoreName = store.Name
	return &resp, nil
}

func buildProduct(storeID int64, req CreateProductRequest) (*catalog.Product, error) {
	if req.Price == nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price is required")
	}
	category, _ := catalog.ParseCategory(req.Category)
	product, err := catalog.NewProduct(storeID, req.Name, category, *req.Price)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if err := product.SetSubcategory(req.Subcategory); err != nil {
		return nil, err
	}
	if err := product.SetInventory(req.Inventory); err != nil {
		return nil, err
	}
	if err := product.SetRating(req.Rating); err != nil {
		return nil, err
	}
	return product, nil
}

// Update changes a product of an owned store
func (s *ProductService) Update(ctx context.Context, userID string, storeID, productID int64, req UpdateProductRequest) (*ProductResponse, error) {
	store, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if req.Price == nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price is required")
	}

	category, _ := catalog.ParseCategory(req.Category)
	if err := product.Update(req.Name, req.Description, category, *req.Price); err != nil {
		return nil, err
	}
	if err := product.SetSubcategory(req.Subcategory); err != nil {
		return nil, err
	}
	if req.Inventory != nil {
		if err := product.SetInventory(*req.Inventory); err != nil {
			return nil, err
		}
	}
	if req.Rating != nil {
		if err := product.SetRating(*req.Rating); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	resp.StoreName = store.Name
	return &resp, nil
}

// Delete removes a product from an owned store
func (s *ProductService) Delete(ctx context.Context, userID string, storeID, productID int64) error {
	if _, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID); err != nil {
		return err
	}
	if _, err := s.productRepo.FindByIDForStore(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.Int64("product_id", productID), zap.Int64("store_id", storeID))
	return nil
}

// Categories returns the category catalogue
func (s *ProductService) Categories() []catalog.CategoryInfo {
	return catalog.Categories()
}
