package dao

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

type Item struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	Quantity    int     `gorm:"not null"`
}

func (Item) TableName() string {
	return "items"
}

// ItemSearch mirrors domain.ItemFilter at the storage level.
type ItemSearch struct {
	Name        string
	Description string
	MinPrice    *float64
	MaxPrice    *float64
	Quantity    *int
}

type ItemDAO struct {
	db *gorm.DB
}

func NewItemDAO(db *gorm.DB) *ItemDAO {
	return &ItemDAO{
		db: db,
	}
}

func (d *ItemDAO) Insert(ctx context.Context, item Item) (Item, error) {
	result := d.db.WithContext(ctx).Create(&item)
	if result.Error != nil {
		return Item{}, result.Error
	}

	return item, nil
}

func (d *ItemDAO) FindAll(ctx context.Context, offset, limit int) ([]Item, error) {
	items := []Item{}

	result := d.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

func (d *ItemDAO) FindByID(ctx context.Context, id uint) (Item, error) {
	var item Item

	result := d.db.WithContext(ctx).First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Item{}, ErrItemNotFound
		}

		return Item{}, result.Error
	}

	return item, nil
}

// Update writes only the given columns. A map is used rather than a struct so
// zero values (quantity 0, empty description) are written too.
func (d *ItemDAO) Update(ctx context.Context, id uint, columns map[string]interface{}) (Item, error) {
	var item Item

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}

			return err
		}

		if len(columns) == 0 {
			return nil
		}

		if err := tx.Model(&Item{ID: id}).Updates(columns).Error; err != nil {
			return err
		}

		return tx.First(&item, id).Error
	})
	if err != nil {
		return Item{}, err
	}

	return item, nil
}

func (d *ItemDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Item{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (d *ItemDAO) Search(ctx context.Context, search ItemSearch) ([]Item, error) {
	items := []Item{}

	query := d.db.WithContext(ctx).Model(&Item{})
	if search.Name != "" {
		query = query.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(search.Name))
	}
	if search.Description != "" {
		query = query.Where(`LOWER(description) LIKE LOWER(?) ESCAPE '\'`, containsPattern(search.Description))
	}
	if search.MinPrice != nil {
		query = query.Where("price >= ?", *search.MinPrice)
	}
	if search.MaxPrice != nil {
		query = query.Where("price <= ?", *search.MaxPrice)
	}
	if search.Quantity != nil {
		query = query.Where("quantity = ?", *search.Quantity)
	}

	result := query.Order("id").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere. Case folding is left to the
// database's LOWER on both sides so column and pattern fold the same way.
// Wildcards typed by the user are matched literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
