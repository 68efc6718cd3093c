package core

// Product 是商品目录中的一条记录，加载后不可变。
type Product struct {
	ID          int64   `json:"id" validate:"gt=0"`
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
}

// Content 返回用于文本相似度计算的内容：category + " " + description。
func (p Product) Content() string {
	return p.Category + " " + p.Description
}

// InteractionType 是用户行为类型。
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionPurchase InteractionType = "purchase"
)

// Valid 判断行为类型是否合法。
func (t InteractionType) Valid() bool {
	return t == InteractionView || t == InteractionPurchase
}

// Interaction 是一条用户-商品行为记录。
// 同一 (user, product) 允许出现多条，不做去重。
// Rating 仅对 purchase 有意义。
type Interaction struct {
	UserID    int64           `json:"user_id" validate:"gt=0"`
	ProductID int64           `json:"product_id" validate:"gt=0"`
	Type      InteractionType `json:"interaction_type" validate:"oneof=view purchase"`
	Rating    float64         `json:"rating" validate:"gte=0,lte=5"`
}

// IsPurchase 是否为购买行为。
func (i Interaction) IsPurchase() bool {
	return i.Type == InteractionPurchase
}
