package cart

import (
	"github.com/saya-shop/internal/models"

	"github.com/google/uuid"
)

// Store 单个会话持有的购物车，非并发安全（同一会话串行访问）
type Store struct {
	state State
}

// NewStore 创建购物车
func NewStore(initial State) *Store {
	if initial.Items == nil {
		initial.Items = []Item{}
	}
	return &Store{state: initial}
}

// Dispatch 执行动作
func (s *Store) Dispatch(action Action) {
	s.state = Reduce(s.state, action)
}

// AddItem 加入商品
func (s *Store) AddItem(product ProductSnapshot) {
	s.Dispatch(AddItem{Product: product})
}

// RemoveItem 移除商品
func (s *Store) RemoveItem(productID uint) {
	s.Dispatch(RemoveItem{ProductID: productID})
}

// UpdateQuantity 设置数量
func (s *Store) UpdateQuantity(productID uint, quantity int) {
	s.Dispatch(UpdateQuantity{ProductID: productID, Quantity: quantity})
}

// Clear 清空
func (s *Store) Clear() {
	s.Dispatch(Clear{})
}

// SetOpen 设置展示状态
func (s *Store) SetOpen(open bool) {
	s.Dispatch(SetOpen{Open: open})
}

// TotalItems 商品件数
func (s *Store) TotalItems() int {
	return TotalItems(s.state)
}

// TotalPrice 总价
func (s *Store) TotalPrice() models.Money {
	return TotalPrice(s.state)
}

// QuantityOf 指定商品数量
func (s *Store) QuantityOf(productID uint) int {
	return QuantityOf(s.state, productID)
}

// Items 条目副本
func (s *Store) Items() []Item {
	return cloneItems(s.state.Items)
}

// IsEmpty 是否为空
func (s *Store) IsEmpty() bool {
	return len(s.state.Items) == 0
}

// State 状态副本
func (s *Store) State() State {
	return State{
		Items:       cloneItems(s.state.Items),
		IsOpen:      s.state.IsOpen,
		CheckoutKey: s.state.CheckoutKey,
	}
}

// EnsureCheckoutKey 返回当前购物车内容对应的幂等键，不存在时生成
func (s *Store) EnsureCheckoutKey() string {
	if s.state.CheckoutKey == "" {
		s.state.CheckoutKey = uuid.NewString()
	}
	return s.state.CheckoutKey
}
