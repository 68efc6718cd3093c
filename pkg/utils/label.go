// Package utils 提供推荐链路中跨包共享的小工具。
package utils

import "strings"

// LabelSeparator 分隔同名 Label 累积的多个取值。
const LabelSeparator = "|"

// Label 是挂在 Item / RecommendContext 上的可解释标记，例如召回来源、种子来源、推荐理由。
// Source 记录写入它的阶段（recall / rank / rerank / postprocess / catalog）。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Values 拆分累积的取值，空 Label 返回 nil。
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, LabelSeparator)
}

// Has 判断累积的取值中是否包含 v。
func (l Label) Has(v string) bool {
	for _, x := range l.Values() {
		if x == v {
			return true
		}
	}
	return false
}

// MergeLabel 合并同名 Label：取值以 "|" 累积且不重复，Source 以 "," 累积且不重复。
// 任一方为空时返回另一方。
func MergeLabel(existing, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}
	merged := existing
	if !existing.Has(incoming.Value) {
		merged.Value = existing.Value + LabelSeparator + incoming.Value
	}
	merged.Source = appendUnique(existing.Source, incoming.Source, ",")
	return merged
}

func appendUnique(list, v, sep string) string {
	switch {
	case v == "":
		return list
	case list == "":
		return v
	}
	for _, x := range strings.Split(list, sep) {
		if x == v {
			return list
		}
	}
	return list + sep + v
}
