package store

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/shoprec/core"
)

//go:embed demo.yaml
var demoYAML []byte

type demoData struct {
	Products     []demoProduct     `yaml:"products"`
	Interactions []demoInteraction `yaml:"interactions"`
}

type demoProduct struct {
	ID          int64   `yaml:"id"`
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Rating      float64 `yaml:"rating"`
}

type demoInteraction struct {
	UserID    int64   `yaml:"user_id"`
	ProductID int64   `yaml:"product_id"`
	Type      string  `yaml:"interaction_type"`
	Rating    float64 `yaml:"rating"`
}

// DemoData 返回内置的演示商品与行为数据。
func DemoData() ([]core.Product, []core.Interaction, error) {
	var d demoData
	if err := yaml.Unmarshal(demoYAML, &d); err != nil {
		return nil, nil, fmt.Errorf("parse demo data: %w", err)
	}
	products := make([]core.Product, 0, len(d.Products))
	for _, p := range d.Products {
		products = append(products, core.Product{
			ID: p.ID, Name: p.Name, Category: p.Category, Description: p.Description,
			Price: p.Price, Rating: p.Rating,
		})
	}
	interactions := make([]core.Interaction, 0, len(d.Interactions))
	for _, i := range d.Interactions {
		interactions = append(interactions, core.Interaction{
			UserID: i.UserID, ProductID: i.ProductID, Type: core.InteractionType(i.Type), Rating: i.Rating,
		})
	}
	return products, interactions, nil
}

// NewDemoDataStore 返回装载演示数据的内存数据源。
func NewDemoDataStore() (*MemoryDataStore, error) {
	products, interactions, err := DemoData()
	if err != nil {
		return nil, err
	}
	return NewMemoryDataStore(products, interactions), nil
}
