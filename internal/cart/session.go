package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/saya-shop/internal/constants"

	"github.com/alexedwards/scs/v2"
)

// SessionStore 将购物车保存在 scs 会话中（按浏览器会话隔离）
type SessionStore struct {
	manager *scs.SessionManager
	key     string
}

// NewSessionStore 创建会话存储
func NewSessionStore(manager *scs.SessionManager) *SessionStore {
	return &SessionStore{manager: manager, key: constants.SessionKeyCart}
}

// Load 读取当前会话的购物车，不存在时返回空购物车
func (s *SessionStore) Load(ctx context.Context) (*Store, error) {
	raw := s.manager.GetBytes(ctx, s.key)
	if len(raw) == 0 {
		return NewStore(State{}), nil
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode cart session: %w", err)
	}
	return NewStore(state), nil
}

// Save 写回会话
func (s *SessionStore) Save(ctx context.Context, store *Store) error {
	raw, err := json.Marshal(store.state)
	if err != nil {
		return fmt.Errorf("encode cart session: %w", err)
	}
	s.manager.Put(ctx, s.key, raw)
	return nil
}

// Reset 删除会话中的购物车
func (s *SessionStore) Reset(ctx context.Context) {
	s.manager.Remove(ctx, s.key)
}
