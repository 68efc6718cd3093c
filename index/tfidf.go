package index

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern 匹配至少两个字符的单词。字母与数字按 Unicode 判断，
// Go 的 \w / \b 只认 ASCII，"café" 会被切成 "caf"。
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize 小写化文本并切分为词项，去除英文停用词。
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// term 是稀疏向量的一个分量，向量内按 index 升序。
type term struct {
	index  int
	weight float64
}

type sparseVector []term

// dot 计算两个 L2 归一化稀疏向量的点积，即余弦相似度。
func (v sparseVector) dot(o sparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v) && j < len(o) {
		switch {
		case v[i].index == o[j].index:
			sum += v[i].weight * o[j].weight
			i++
			j++
		case v[i].index < o[j].index:
			i++
		default:
			j++
		}
	}
	return sum
}

// TFIDF 是拟合后的词表与文档向量。
//
//   - tf：原始词频
//   - idf：平滑 idf = ln((1+n)/(1+df)) + 1
//   - 每个文档向量做 L2 归一化
type TFIDF struct {
	vocabulary map[string]int
	idf        []float64
	vectors    []sparseVector
}

// FitTFIDF 对文档集合拟合 TF-IDF。词表按字典序编号，保证结果可复现。
func FitTFIDF(docs []string) *TFIDF {
	tokens := make([][]string, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		tokens[i] = Tokenize(d)
		seen := make(map[string]struct{}, len(tokens[i]))
		for _, t := range tokens[i] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	words := make([]string, 0, len(df))
	for w := range df {
		words = append(words, w)
	}
	sort.Strings(words)

	m := &TFIDF{
		vocabulary: make(map[string]int, len(words)),
		idf:        make([]float64, len(words)),
		vectors:    make([]sparseVector, len(docs)),
	}
	n := float64(len(docs))
	for i, w := range words {
		m.vocabulary[w] = i
		m.idf[i] = math.Log((1+n)/(1+float64(df[w]))) + 1
	}

	for i, toks := range tokens {
		counts := make(map[int]float64, len(toks))
		for _, t := range toks {
			counts[m.vocabulary[t]]++
		}
		vec := make(sparseVector, 0, len(counts))
		var norm float64
		for idx, tf := range counts {
			w := tf * m.idf[idx]
			vec = append(vec, term{index: idx, weight: w})
			norm += w * w
		}
		sort.Slice(vec, func(a, b int) bool { return vec[a].index < vec[b].index })
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range vec {
				vec[k].weight /= norm
			}
		}
		m.vectors[i] = vec
	}
	return m
}

// VocabularySize 返回词表大小。
func (m *TFIDF) VocabularySize() int { return len(m.vocabulary) }

// Weight 返回第 doc 个文档中词项 word 的归一化权重。
func (m *TFIDF) Weight(doc int, word string) float64 {
	idx, ok := m.vocabulary[word]
	if !ok {
		return 0
	}
	for _, t := range m.vectors[doc] {
		if t.index == idx {
			return t.weight
		}
	}
	return 0
}

// Cosine 返回两个文档的余弦相似度。
func (m *TFIDF) Cosine(a, b int) float64 {
	return m.vectors[a].dot(m.vectors[b])
}
