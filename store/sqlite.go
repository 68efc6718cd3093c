package store

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rushteam/shoprec/core"
)

// productRow 对应 products 表。
type productRow struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	Name        string  `gorm:"column:name"`
	Category    string  `gorm:"column:category"`
	Description string  `gorm:"column:description"`
	Price       float64 `gorm:"column:price"`
	Rating      float64 `gorm:"column:rating"`
}

func (productRow) TableName() string { return "products" }

// interactionRow 对应 interactions 表。
type interactionRow struct {
	ID              int64   `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int64   `gorm:"column:user_id;index"`
	ProductID       int64   `gorm:"column:product_id"`
	InteractionType string  `gorm:"column:interaction_type"`
	Rating          float64 `gorm:"column:rating"`
}

func (interactionRow) TableName() string { return "interactions" }

// SQLiteDataStore 从 SQLite 数据库读取商品与行为（products / interactions 两张表）。
type SQLiteDataStore struct {
	db *gorm.DB
}

// OpenSQLite 打开 SQLite 数据库。
func OpenSQLite(dsn string) (*SQLiteDataStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	return &SQLiteDataStore{db: db}, nil
}

var _ core.DataStore = (*SQLiteDataStore)(nil)

func (s *SQLiteDataStore) Name() string { return "sqlite" }

// Migrate 创建表结构（已存在时补齐缺失列）。
func (s *SQLiteDataStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&productRow{}, &interactionRow{})
}

// Seed 写入商品与行为记录，用于初始化演示库与测试。
func (s *SQLiteDataStore) Seed(ctx context.Context, products []core.Product, interactions []core.Interaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(products) > 0 {
			rows := make([]productRow, 0, len(products))
			for _, p := range products {
				rows = append(rows, productRow(p))
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("insert products: %w", err)
			}
		}
		if len(interactions) > 0 {
			rows := make([]interactionRow, 0, len(interactions))
			for _, it := range interactions {
				rows = append(rows, interactionRow{
					UserID:          it.UserID,
					ProductID:       it.ProductID,
					InteractionType: string(it.Type),
					Rating:          it.Rating,
				})
			}
			if err := tx.CreateInBatches(rows, 500).Error; err != nil {
				return fmt.Errorf("insert interactions: %w", err)
			}
		}
		return nil
	})
}

// CountProducts 返回商品表行数，用于判断是否需要写入演示数据。
func (s *SQLiteDataStore) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&productRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (s *SQLiteDataStore) ReadProducts(ctx context.Context) ([]core.Product, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	out := make([]core.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.Product(r))
	}
	return validRows(s.Name(), out), nil
}

func (s *SQLiteDataStore) ReadInteractions(ctx context.Context) ([]core.Interaction, error) {
	var rows []interactionRow
	if err := s.db.WithContext(ctx).Order("rowid").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read interactions: %w", err)
	}
	out := make([]core.Interaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.Interaction{
			UserID:    r.UserID,
			ProductID: r.ProductID,
			Type:      core.InteractionType(r.InteractionType),
			Rating:    r.Rating,
		})
	}
	return validRows(s.Name(), out), nil
}

// Close 关闭底层连接。
func (s *SQLiteDataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
