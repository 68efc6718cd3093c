package core

// RecommendContext 承载一次推荐请求的用户信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64

	// N 是本次请求需要返回的数量
	N int

	// PurchasedNames 是用户已购商品名称（目录顺序），用于生成推荐理由
	PurchasedNames []string
}
