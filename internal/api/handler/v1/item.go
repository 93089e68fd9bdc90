package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/vietanh2810/inventory-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/inventory-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/inventory-api/internal/domain"
	"github.com/vietanh2810/inventory-api/internal/service"
)

const itemDeletedMessage = "Item deleted successfully"

type ItemService interface {
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	ListItems(ctx context.Context, page domain.Page) ([]domain.Item, error)
	GetItem(ctx context.Context, id uint) (domain.Item, error)
	UpdateItem(ctx context.Context, id uint, update domain.ItemUpdate) (domain.Item, error)
	DeleteItem(ctx context.Context, id uint) error
	SearchItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
}

type ItemHandler struct {
	svc ItemService
}

func NewItemHandler(svc ItemService) *ItemHandler {
	return &ItemHandler{
		svc: svc,
	}
}

// HandleCreateItem godoc
// @Summary      Create an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateItemRequest  true  "Item fields"
// @Success      200      {object}  domain.Item
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /items/ [post]
func (h *ItemHandler) HandleCreateItem(ctx *gin.Context) {
	var req request.CreateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	created, err := h.svc.CreateItem(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("HandleCreateItem -> h.svc.CreateItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, created)
}

// HandleListItems godoc
// @Summary      List items
// @Description  Returns up to limit items after skipping skip items, ordered by id.
// @Tags         items
// @Produce      json
// @Param        skip   query     int  false  "Items to skip"  default(0)  minimum(0)
// @Param        limit  query     int  false  "Page size"      default(10) minimum(0)
// @Success      200    {array}   domain.Item
// @Failure      422    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /items/ [get]
func (h *ItemHandler) HandleListItems(ctx *gin.Context) {
	var req request.ListItemsRequest
	if err := bindQuery(ctx, &req); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	items, err := h.svc.ListItems(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("HandleListItems -> h.svc.ListItems -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleGetItem godoc
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        item_id  path      int  true  "Item ID"
// @Success      200      {object}  domain.Item
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /items/{item_id} [get]
func (h *ItemHandler) HandleGetItem(ctx *gin.Context) {
	itemID, respErr := parseItemID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	item, err := h.svc.GetItem(ctx.Request.Context(), itemID)
	if err != nil {
		response.RenderErr(ctx, itemErr("HandleGetItem -> h.svc.GetItem", err))
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleUpdateItem godoc
// @Summary      Update an item
// @Description  Overwrites only the fields present in the body; omitted fields keep their value.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        item_id  path      int                        true  "Item ID"
// @Param        request  body      request.UpdateItemRequest  true  "Fields to change"
// @Success      200      {object}  domain.Item
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /items/{item_id} [put]
func (h *ItemHandler) HandleUpdateItem(ctx *gin.Context) {
	itemID, respErr := parseItemID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	updated, err := h.svc.UpdateItem(ctx.Request.Context(), itemID, req.ToDomain())
	if err != nil {
		response.RenderErr(ctx, itemErr("HandleUpdateItem -> h.svc.UpdateItem", err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteItem godoc
// @Summary      Delete an item
// @Tags         items
// @Produce      json
// @Param        item_id  path      int  true  "Item ID"
// @Success      200      {object}  response.Message
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /items/{item_id} [delete]
func (h *ItemHandler) HandleDeleteItem(ctx *gin.Context) {
	itemID, respErr := parseItemID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteItem(ctx.Request.Context(), itemID); err != nil {
		response.RenderErr(ctx, itemErr("HandleDeleteItem -> h.svc.DeleteItem", err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: itemDeletedMessage})
}

// HandleSearchItems godoc
// @Summary      Search items
// @Description  All supplied filters must match. name and description are case-insensitive substrings, the price bounds are inclusive.
// @Tags         items
// @Produce      json
// @Param        name         query     string  false  "Name contains"
// @Param        description  query     string  false  "Description contains"
// @Param        min_price    query     number  false  "Minimum price"
// @Param        max_price    query     number  false  "Maximum price"
// @Param        quantity     query     int     false  "Exact quantity"
// @Success      200          {array}   domain.Item
// @Failure      422          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /items/search/ [get]
func (h *ItemHandler) HandleSearchItems(ctx *gin.Context) {
	var req request.SearchItemsRequest
	if err := bindQuery(ctx, &req); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	items, err := h.svc.SearchItems(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("HandleSearchItems -> h.svc.SearchItems -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// bindQuery maps query parameters like ShouldBindQuery, except that "?key=" counts as
// absent so form defaults apply instead of a zero value.
func bindQuery(ctx *gin.Context, obj any) error {
	query := ctx.Request.URL.Query()
	for key, values := range query {
		if len(values) == 1 && values[0] == "" {
			delete(query, key)
		}
	}

	return binding.MapFormWithTag(obj, query, "form")
}

func parseItemID(ctx *gin.Context) (uint, *response.Err) {
	itemID, err := strconv.ParseUint(ctx.Param("item_id"), 10, strconv.IntSize)
	if err != nil {
		return 0, response.ErrValidation(fmt.Errorf("invalid item ID: %w", err))
	}

	return uint(itemID), nil
}

func itemErr(op string, err error) *response.Err {
	if errors.Is(err, service.ErrItemNotFound) {
		return response.ErrNotFound("Item")
	}

	return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
}
