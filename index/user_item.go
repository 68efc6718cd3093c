package index

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/dataset"
)

// UserItem 是用户×商品评分矩阵（User-Item Matrix）及其用户相似度矩阵。
//
//   - 行：购买记录中出现的用户（升序）
//   - 列：被任何人购买过的商品（升序）
//   - 单元格：该用户对该商品的购买评分，缺失为 0；同一 (user, product) 多条购买时以最后一条为准
//
// 引用目录中不存在商品的购买记录不参与构建。
type UserItem struct {
	users    []int64
	products []int64
	userIdx  map[int64]int
	ratings  [][]float64
	bought   []map[int64]struct{}
	sim      [][]float64
}

// Neighbor 是一个相似用户。
type Neighbor struct {
	UserID     int64
	Similarity float64
}

// BuildUserItem 从快照构建评分矩阵并计算用户两两余弦相似度（自身为 1）。
func BuildUserItem(ctx context.Context, snap *dataset.Snapshot, workers int) (*UserItem, error) {
	ui := &UserItem{userIdx: make(map[int64]int)}
	if snap == nil || snap.Log.Len() == 0 {
		return ui, nil
	}

	type cell struct {
		user, product int64
		rating        float64
	}
	var cells []cell
	userSet := make(map[int64]struct{})
	productSet := make(map[int64]struct{})
	for i := 0; i < snap.Log.Len(); i++ {
		r := snap.Log.At(i)
		if !r.IsPurchase() || !snap.Catalog.Has(r.ProductID) {
			continue
		}
		cells = append(cells, cell{user: r.UserID, product: r.ProductID, rating: r.Rating})
		userSet[r.UserID] = struct{}{}
		productSet[r.ProductID] = struct{}{}
	}
	if len(cells) == 0 {
		return ui, nil
	}

	ui.users = sortedKeys(userSet)
	ui.products = sortedKeys(productSet)
	productIdx := make(map[int64]int, len(ui.products))
	for i, id := range ui.products {
		productIdx[id] = i
	}
	for i, id := range ui.users {
		ui.userIdx[id] = i
	}

	ui.ratings = make([][]float64, len(ui.users))
	ui.bought = make([]map[int64]struct{}, len(ui.users))
	for i := range ui.ratings {
		ui.ratings[i] = make([]float64, len(ui.products))
		ui.bought[i] = make(map[int64]struct{})
	}
	// 日志顺序写入，后写覆盖先写
	for _, c := range cells {
		u := ui.userIdx[c.user]
		ui.ratings[u][productIdx[c.product]] = c.rating
		ui.bought[u][c.product] = struct{}{}
	}

	sim, err := squareMatrix(ctx, len(ui.users), workers, func(i, j int) float64 {
		if i == j {
			return 1
		}
		return cosineSimilarity(ui.ratings[i], ui.ratings[j])
	})
	if err != nil {
		return nil, err
	}
	ui.sim = sim
	return ui, nil
}

// Users 返回矩阵的行（用户 ID 升序）。
func (ui *UserItem) Users() []int64 { return ui.users }

// Products 返回矩阵的列（商品 ID 升序）。
func (ui *UserItem) Products() []int64 { return ui.products }

// Has 判断用户是否有购买行。
func (ui *UserItem) Has(userID int64) bool {
	_, ok := ui.userIdx[userID]
	return ok
}

// Rating 返回单元格评分。
func (ui *UserItem) Rating(userID, productID int64) float64 {
	u, ok := ui.userIdx[userID]
	if !ok {
		return 0
	}
	i := sort.Search(len(ui.products), func(k int) bool { return ui.products[k] >= productID })
	if i == len(ui.products) || ui.products[i] != productID {
		return 0
	}
	return ui.ratings[u][i]
}

// Similarity 返回两个用户的余弦相似度，任一不存在时为 0。
func (ui *UserItem) Similarity(a, b int64) float64 {
	i, ok := ui.userIdx[a]
	if !ok {
		return 0
	}
	j, ok := ui.userIdx[b]
	if !ok {
		return 0
	}
	return ui.sim[i][j]
}

// Purchased 判断用户是否有该商品的购买行（不论评分）。
func (ui *UserItem) Purchased(userID, productID int64) bool {
	u, ok := ui.userIdx[userID]
	if !ok {
		return false
	}
	_, ok = ui.bought[u][productID]
	return ok
}

// RatedProducts 返回用户评分 > 0 的商品（升序）。
func (ui *UserItem) RatedProducts(userID int64) []int64 {
	u, ok := ui.userIdx[userID]
	if !ok {
		return nil
	}
	var out []int64
	for j, r := range ui.ratings[u] {
		if r > 0 {
			out = append(out, ui.products[j])
		}
	}
	return out
}

// Neighbors 返回与 userID 最相似的 k 个其他用户。
// 只保留相似度 > 0 的用户；按相似度降序，相同时用户 ID 升序。
func (ui *UserItem) Neighbors(userID int64, k int) []Neighbor {
	u, ok := ui.userIdx[userID]
	if !ok || k <= 0 {
		return nil
	}
	var out []Neighbor
	for j, other := range ui.users {
		if j == u {
			continue
		}
		if s := ui.sim[u][j]; s > 0 {
			out = append(out, Neighbor{UserID: other, Similarity: s})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Similarity != out[b].Similarity {
			return out[a].Similarity > out[b].Similarity
		}
		return out[a].UserID < out[b].UserID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func sortedKeys(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
