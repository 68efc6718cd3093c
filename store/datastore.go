package store

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/logging"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// MemoryDataStore 是内存实现的 core.DataStore，用于测试与演示数据。
type MemoryDataStore struct {
	Products     []core.Product
	Interactions []core.Interaction
}

// NewMemoryDataStore 创建内存数据源，读取时返回副本。
func NewMemoryDataStore(products []core.Product, interactions []core.Interaction) *MemoryDataStore {
	return &MemoryDataStore{Products: products, Interactions: interactions}
}

var _ core.DataStore = (*MemoryDataStore)(nil)

func (m *MemoryDataStore) Name() string { return "memory" }

func (m *MemoryDataStore) ReadProducts(ctx context.Context) ([]core.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return validRows(m.Name(), m.Products), nil
}

func (m *MemoryDataStore) ReadInteractions(ctx context.Context) ([]core.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return validRows(m.Name(), m.Interactions), nil
}

// validRows 丢弃不满足 validate tag 的记录（缺字段、越界等），保持原顺序。
func validRows[T any](source string, rows []T) []T {
	out := make([]T, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		if err := validate.Struct(r); err != nil {
			dropped++
			continue
		}
		out = append(out, r)
	}
	if dropped > 0 {
		logging.Warn().Str("store", source).Int("dropped", dropped).Msg("invalid rows skipped")
	}
	return out
}
