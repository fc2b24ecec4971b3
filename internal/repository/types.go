package repository

// ProductListFilter 商品列表过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   *uint
	Search       string
	FeaturedOnly bool
	Sort         string
	WithCategory bool
}

// OrderListFilter 订单列表过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
	Search   string
}

// AdvertisementListFilter 广告列表过滤条件
type AdvertisementListFilter struct {
	OnlyActive bool
}

// UserListFilter 用户列表过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Role     string
	Search   string
}
