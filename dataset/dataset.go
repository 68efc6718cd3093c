// Package dataset 持有一次加载得到的商品目录与行为日志快照，加载后只读。
package dataset

import "github.com/rushteam/shoprec/core"

// Catalog 是商品目录的只读视图（保持加载顺序）。
// id → 下标的映射在构建时一次性生成，不依赖商品 ID 连续。
type Catalog struct {
	products []core.Product
	index    map[int64]int
}

// NewCatalog 构建商品目录。重复 ID 只保留第一次出现的记录。
func NewCatalog(products []core.Product) *Catalog {
	c := &Catalog{
		products: make([]core.Product, 0, len(products)),
		index:    make(map[int64]int, len(products)),
	}
	for _, p := range products {
		if _, dup := c.index[p.ID]; dup {
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Len 返回商品数量。
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// At 返回第 i 个商品（目录顺序）。
func (c *Catalog) At(i int) core.Product {
	return c.products[i]
}

// Products 返回目录顺序的商品副本。
func (c *Catalog) Products() []core.Product {
	if c == nil {
		return nil
	}
	out := make([]core.Product, len(c.products))
	copy(out, c.products)
	return out
}

// IndexOf 返回商品在目录中的下标。
func (c *Catalog) IndexOf(id int64) (int, bool) {
	if c == nil {
		return 0, false
	}
	i, ok := c.index[id]
	return i, ok
}

// Has 判断商品是否存在。
func (c *Catalog) Has(id int64) bool {
	_, ok := c.IndexOf(id)
	return ok
}

// Get 按 ID 查商品。
func (c *Catalog) Get(id int64) (core.Product, bool) {
	i, ok := c.IndexOf(id)
	if !ok {
		return core.Product{}, false
	}
	return c.products[i], true
}

// InteractionLog 是用户行为的只读视图（保持加载顺序，不去重）。
type InteractionLog struct {
	rows   []core.Interaction
	byUser map[int64][]int
}

// NewInteractionLog 构建行为日志。
func NewInteractionLog(rows []core.Interaction) *InteractionLog {
	l := &InteractionLog{
		rows:   make([]core.Interaction, len(rows)),
		byUser: make(map[int64][]int),
	}
	copy(l.rows, rows)
	for i, r := range l.rows {
		l.byUser[r.UserID] = append(l.byUser[r.UserID], i)
	}
	return l
}

// Len 返回行为条数。
func (l *InteractionLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.rows)
}

// At 返回第 i 条行为。
func (l *InteractionLog) At(i int) core.Interaction {
	return l.rows[i]
}

// User 返回某个用户的全部行为（日志顺序）。
func (l *InteractionLog) User(userID int64) []core.Interaction {
	if l == nil {
		return nil
	}
	idx := l.byUser[userID]
	out := make([]core.Interaction, 0, len(idx))
	for _, i := range idx {
		out = append(out, l.rows[i])
	}
	return out
}

// Users 返回去重后的用户 ID（按首次出现的日志顺序）。
func (l *InteractionLog) Users() []int64 {
	if l == nil {
		return nil
	}
	seen := make(map[int64]struct{}, len(l.byUser))
	out := make([]int64, 0, len(l.byUser))
	for _, r := range l.rows {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		out = append(out, r.UserID)
	}
	return out
}

// Snapshot 是一次加载的完整数据代。Generation 每次加载递增，派生索引以它为缓存键。
type Snapshot struct {
	Catalog    *Catalog
	Log        *InteractionLog
	Generation uint64
}

// NewSnapshot 由原始记录构建快照。
func NewSnapshot(products []core.Product, interactions []core.Interaction, generation uint64) *Snapshot {
	return &Snapshot{
		Catalog:    NewCatalog(products),
		Log:        NewInteractionLog(interactions),
		Generation: generation,
	}
}

// Empty 判断目录或行为日志是否为空。
func (s *Snapshot) Empty() bool {
	return s == nil || s.Catalog.Len() == 0 || s.Log.Len() == 0
}

// PurchasedIDs 返回用户购买过的商品 ID（去重，日志顺序），仅保留目录中存在的商品。
func (s *Snapshot) PurchasedIDs(userID int64) []int64 {
	return s.distinct(userID, core.InteractionPurchase, 0)
}

// ViewedIDs 返回用户浏览过的商品 ID（去重，日志顺序），limit > 0 时截断。
func (s *Snapshot) ViewedIDs(userID int64, limit int) []int64 {
	return s.distinct(userID, core.InteractionView, limit)
}

func (s *Snapshot) distinct(userID int64, typ core.InteractionType, limit int) []int64 {
	if s == nil {
		return nil
	}
	var out []int64
	seen := make(map[int64]struct{})
	for _, r := range s.Log.User(userID) {
		if r.Type != typ || !s.Catalog.Has(r.ProductID) {
			continue
		}
		if _, ok := seen[r.ProductID]; ok {
			continue
		}
		seen[r.ProductID] = struct{}{}
		out = append(out, r.ProductID)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// PurchasedProducts 返回用户购买过的商品（目录顺序，去重）。
func (s *Snapshot) PurchasedProducts(userID int64) []core.Product {
	ids := s.PurchasedIDs(userID)
	if len(ids) == 0 {
		return nil
	}
	return s.ProductsByID(ids)
}

// ProductsByID 返回 ids 中存在于目录的商品，按目录顺序。
func (s *Snapshot) ProductsByID(ids []int64) []core.Product {
	if s == nil || len(ids) == 0 {
		return nil
	}
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []core.Product
	for i := 0; i < s.Catalog.Len(); i++ {
		p := s.Catalog.At(i)
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}
