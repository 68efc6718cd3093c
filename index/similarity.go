// Package index 构建推荐所需的派生索引：用户-商品评分矩阵、TF-IDF 内容相似度矩阵，
// 以及按数据代（generation）缓存这些索引的 Cache。
//
// 索引构建完成后只读，可被并发请求共享。
package index

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// cosineSimilarity 计算两个稠密向量的余弦相似度，任一为零向量时返回 0。
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// squareMatrix 并发计算 n×n 对称矩阵的上三角并镜像到下三角。
// 每个 worker 只写自己负责的行 i 的 [i, n) 区间及对应列，互不重叠。
func squareMatrix(ctx context.Context, n, workers int, cell func(i, j int) float64) ([][]float64, error) {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < n; i++ {
		row := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			for j := row; j < n; j++ {
				m[row][j] = cell(row, j)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			m[i][j] = m[j][i]
		}
	}
	return m, nil
}
