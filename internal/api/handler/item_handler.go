package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/itemhub/item-service/internal/api/middleware"
	"github.com/itemhub/item-service/internal/domain"
	"github.com/itemhub/item-service/internal/service"
)

// ItemHandler handles the item CRUD endpoints and the bulk process trigger.
type ItemHandler struct {
	svc    *service.ItemService
	logger *zap.Logger
}

func NewItemHandler(svc *service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/items
//
// @Summary  List all items
// @Tags     items
// @Produce  json
// @Success  200  {array}  domain.Item
// @Router   /api/v1/items [get]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		apimw.Logger(r.Context(), h.logger).Error("list items failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GetByID handles GET /api/v1/items/{id}
//
// @Summary  Get an item by ID
// @Tags     items
// @Produce  json
// @Param    id   path      int  true  "Item ID"
// @Success  200  {object}  domain.Item
// @Failure  400  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/items/{id} [get]
func (h *ItemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Create handles POST /api/v1/items
//
// @Summary  Create an item
// @Tags     items
// @Accept   json
// @Produce  json
// @Param    body  body      domain.ItemRequest  true  "Item payload"
// @Success  201   {object}  domain.Item
// @Failure  400   {object}  map[string]string
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := h.svc.Create(r.Context(), req)
	if err != nil {
		apimw.Logger(r.Context(), h.logger).Warn("create item failed", zap.Error(err))
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/v1/items/{id}
//
// @Summary  Replace an item
// @Tags     items
// @Accept   json
// @Produce  json
// @Param    id    path      int                 true  "Item ID"
// @Param    body  body      domain.ItemRequest  true  "Item payload"
// @Success  200   {object}  domain.Item
// @Failure  400   {object}  map[string]string
// @Failure  404   {object}  map[string]string
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/items/{id} [put]
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/v1/items/{id}
//
// @Summary  Delete an item
// @Tags     items
// @Param    id   path  int  true  "Item ID"
// @Success  204
// @Failure  400  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/items/{id} [delete]
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Process handles GET and POST /api/v1/items/process
//
// @Summary  Mark every item as processed
// @Tags     items
// @Produce  json
// @Success  200  {array}   domain.Item
// @Failure  500  {object}  map[string]any
// @Failure  503  {object}  map[string]string
// @Router   /api/v1/items/process [post]
func (h *ItemHandler) Process(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ProcessAll(r.Context())
	if err != nil {
		apimw.Logger(r.Context(), h.logger).Error("process items failed", zap.Error(err))
		mapProcessError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, domain.ErrInvalidID.Error())
		return 0, false
	}
	return id, true
}
