package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vietanh2810/inventory-api/internal/domain"
	"github.com/vietanh2810/inventory-api/internal/repository"
)

var (
	ErrItemNotFound = repository.ErrItemNotFound
)

var tracer = otel.Tracer("internal/service")

type ItemRepository interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	FindAll(ctx context.Context, page domain.Page) ([]domain.Item, error)
	FindByID(ctx context.Context, id uint) (domain.Item, error)
	Update(ctx context.Context, id uint, update domain.ItemUpdate) (domain.Item, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
}

type ItemService struct {
	repo ItemRepository
}

func NewItemService(repo ItemRepository) *ItemService {
	return &ItemService{
		repo: repo,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	ctx, span := tracer.Start(ctx, "ItemService.CreateItem")
	defer span.End()

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return domain.Item{}, recordErr(span, fmt.Errorf("s.repo.Create -> %w", err))
	}
	span.SetAttributes(attribute.Int64("item.id", int64(created.ID)))

	return created, nil
}

func (s *ItemService) ListItems(ctx context.Context, page domain.Page) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "ItemService.ListItems", trace.WithAttributes(
		attribute.Int("page.skip", page.Skip),
		attribute.Int("page.limit", page.Limit),
	))
	defer span.End()

	items, err := s.repo.FindAll(ctx, page)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("s.repo.FindAll -> %w", err))
	}

	return items, nil
}

func (s *ItemService) GetItem(ctx context.Context, id uint) (domain.Item, error) {
	ctx, span := tracer.Start(ctx, "ItemService.GetItem", trace.WithAttributes(
		attribute.Int64("item.id", int64(id)),
	))
	defer span.End()

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, recordErr(span, fmt.Errorf("s.repo.FindByID -> %w", err))
	}

	return item, nil
}

// UpdateItem applies a partial update. Fields left nil in update keep their stored value.
func (s *ItemService) UpdateItem(ctx context.Context, id uint, update domain.ItemUpdate) (domain.Item, error) {
	ctx, span := tracer.Start(ctx, "ItemService.UpdateItem", trace.WithAttributes(
		attribute.Int64("item.id", int64(id)),
	))
	defer span.End()

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return domain.Item{}, recordErr(span, fmt.Errorf("s.repo.Update -> %w", err))
	}

	return updated, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "ItemService.DeleteItem", trace.WithAttributes(
		attribute.Int64("item.id", int64(id)),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		return recordErr(span, fmt.Errorf("s.repo.Delete -> %w", err))
	}

	return nil
}

func (s *ItemService) SearchItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "ItemService.SearchItems")
	defer span.End()

	items, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("s.repo.Search -> %w", err))
	}
	span.SetAttributes(attribute.Int("items.count", len(items)))

	return items, nil
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
