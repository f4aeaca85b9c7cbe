package usecase

import "context"

type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductInfo, error)
	GetProduct(ctx context.Context, id int64) (*ProductInfo, error)
	ListProducts(ctx context.Context, req *ListProductsReq) ([]ProductInfo, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) (*ProductInfo, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type StatisticsUC interface {
	Overview(ctx context.Context) (*OverviewStats, error)
	ProductStats(ctx context.Context) (*ProductStats, error)
	StockStats(ctx context.Context) (*StockStats, error)
	PricingStats(ctx context.Context) (*PricingStats, error)
}
