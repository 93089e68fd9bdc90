package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/inventory-api/internal/domain"
	"github.com/vietanh2810/inventory-api/internal/repository/dao"
)

var (
	ErrItemNotFound = dao.ErrItemNotFound
)

type ItemDAO interface {
	Insert(ctx context.Context, item dao.Item) (dao.Item, error)
	FindAll(ctx context.Context, offset, limit int) ([]dao.Item, error)
	FindByID(ctx context.Context, id uint) (dao.Item, error)
	Update(ctx context.Context, id uint, columns map[string]interface{}) (dao.Item, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, search dao.ItemSearch) ([]dao.Item, error)
}

type ItemRepository struct {
	dao ItemDAO
}

func NewItemRepository(dao ItemDAO) *ItemRepository {
	return &ItemRepository{
		dao: dao,
	}
}

func (r *ItemRepository) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	created, err := r.dao.Insert(ctx, dao.Item{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Quantity:    item.Quantity,
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ItemRepository) FindAll(ctx context.Context, page domain.Page) ([]domain.Item, error) {
	found, err := r.dao.FindAll(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id uint) (domain.Item, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ItemRepository) Update(ctx context.Context, id uint, update domain.ItemUpdate) (domain.Item, error) {
	updated, err := r.dao.Update(ctx, id, r.updateToColumns(update))
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ItemRepository) Search(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	search := dao.ItemSearch{
		MinPrice: filter.MinPrice,
		MaxPrice: filter.MaxPrice,
		Quantity: filter.Quantity,
	}
	if filter.Name != nil {
		search.Name = *filter.Name
	}
	if filter.Description != nil {
		search.Description = *filter.Description
	}

	found, err := r.dao.Search(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Search -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ItemRepository) updateToColumns(u domain.ItemUpdate) map[string]interface{} {
	columns := make(map[string]interface{}, 4)
	if u.Name != nil {
		columns["name"] = *u.Name
	}
	if u.Description != nil {
		columns["description"] = *u.Description
	}
	if u.Price != nil {
		columns["price"] = *u.Price
	}
	if u.Quantity != nil {
		columns["quantity"] = *u.Quantity
	}

	return columns
}

func (r *ItemRepository) daoToDomain(i dao.Item) domain.Item {
	return domain.Item{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Price:       i.Price,
		Quantity:    i.Quantity,
	}
}

func (r *ItemRepository) daosToDomain(items []dao.Item) []domain.Item {
	out := make([]domain.Item, len(items))
	for i, item := range items {
		out[i] = r.daoToDomain(item)
	}

	return out
}
