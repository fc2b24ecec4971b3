// Package cart 购物车状态：纯函数 reducer + 单会话持有的 Store。
package cart

import (
	"github.com/saya-shop/internal/models"
)

// ProductSnapshot 加入购物车时的商品快照
type ProductSnapshot struct {
	ID             uint         `json:"id"`
	Name           string       `json:"name"`
	SKU            string       `json:"sku"`
	Price          models.Money `json:"price"`
	InventoryCount int          `json:"inventory_count"`
	Images         []string     `json:"images,omitempty"`
	CategoryID     *uint        `json:"category_id,omitempty"`
}

// SnapshotOf 从商品模型生成快照
func SnapshotOf(product *models.Product) ProductSnapshot {
	if product == nil {
		return ProductSnapshot{}
	}
	images := make([]string, len(product.Images))
	copy(images, product.Images)
	return ProductSnapshot{
		ID:             product.ID,
		Name:           product.Name,
		SKU:            product.SKU,
		Price:          product.Price,
		InventoryCount: product.InventoryCount,
		Images:         images,
		CategoryID:     product.CategoryID,
	}
}

// Item 购物车条目，Quantity 始终 >= 1
type Item struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal 条目小计
func (i Item) Subtotal() models.Money {
	return i.Product.Price.Times(i.Quantity)
}

// State 购物车状态，每个商品最多一个条目，保持加入顺序
type State struct {
	Items       []Item `json:"items"`
	IsOpen      bool   `json:"is_open"`
	CheckoutKey string `json:"checkout_key,omitempty"`
}

// Action 购物车动作
type Action interface {
	isAction()
}

// AddItem 加入商品，已存在则数量加一
type AddItem struct {
	Product ProductSnapshot
}

// RemoveItem 移除商品
type RemoveItem struct {
	ProductID uint
}

// UpdateQuantity 设置数量（绝对值），<= 0 等同移除
type UpdateQuantity struct {
	ProductID uint
	Quantity  int
}

// Clear 清空购物车
type Clear struct{}

// SetOpen 切换购物车展示状态
type SetOpen struct {
	Open bool
}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (Clear) isAction()          {}
func (SetOpen) isAction()        {}

// Reduce 纯函数：(state, action) -> 新 state，不修改入参
// 条目变化时清空结算幂等键
func Reduce(state State, action Action) State {
	next := State{
		Items:       cloneItems(state.Items),
		IsOpen:      state.IsOpen,
		CheckoutKey: state.CheckoutKey,
	}

	switch a := action.(type) {
	case AddItem:
		if idx := indexOf(next.Items, a.Product.ID); idx >= 0 {
			next.Items[idx].Quantity++
		} else {
			next.Items = append(next.Items, Item{Product: a.Product, Quantity: 1})
		}
		next.IsOpen = true
		next.CheckoutKey = ""
	case RemoveItem:
		idx := indexOf(next.Items, a.ProductID)
		if idx < 0 {
			return next
		}
		next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
		next.CheckoutKey = ""
	case UpdateQuantity:
		if a.Quantity <= 0 {
			return Reduce(state, RemoveItem{ProductID: a.ProductID})
		}
		idx := indexOf(next.Items, a.ProductID)
		if idx < 0 {
			return next
		}
		if next.Items[idx].Quantity != a.Quantity {
			next.Items[idx].Quantity = a.Quantity
			next.CheckoutKey = ""
		}
	case Clear:
		next.Items = []Item{}
		next.CheckoutKey = ""
	case SetOpen:
		next.IsOpen = a.Open
	}
	return next
}

// TotalItems 所有条目数量之和
func TotalItems(state State) int {
	total := 0
	for _, item := range state.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice 按条目内快照单价计算总价，不回查商品最新价格
func TotalPrice(state State) models.Money {
	total := models.Money{}
	for _, item := range state.Items {
		total = total.Plus(item.Subtotal())
	}
	return total
}

// QuantityOf 指定商品当前数量
func QuantityOf(state State, productID uint) int {
	if idx := indexOf(state.Items, productID); idx >= 0 {
		return state.Items[idx].Quantity
	}
	return 0
}

func indexOf(items []Item, productID uint) int {
	for i := range items {
		if items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
