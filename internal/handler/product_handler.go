package handler

import (
	"net/http"
	"strconv"
	"strings"

	"kartalog/internal/asset"
	"kartalog/internal/model"
	"kartalog/internal/service"

	"github.com/rs/zerolog"
)

// maxUploadBytes bounds the in-memory portion of a multipart photo upload.
const maxUploadBytes = 32 << 20

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.CatalogService
	assets  asset.Manager
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc service.CatalogService, assets asset.Manager, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		assets:  assets,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Create handles POST /api/products/new with a multipart body carrying the
// photo file plus name/category/price/stock fields. The photo is stored
// first; the service cleans it up if validation then rejects the request.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid multipart body", h.logger)
		return
	}

	req := model.NewProductRequest{
		Name:     r.FormValue("name"),
		Category: r.FormValue("category"),
		Price:    parseFloatField(r.FormValue("price")),
		Stock:    parseIntField(r.FormValue("stock")),
	}

	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()

		ref, storeErr := h.assets.Store(r.Context(), asset.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
		if storeErr != nil {
			writeServiceError(w, storeErr, h.logger)
			return
		}
		req.Photo = ref
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Product created successfully",
		"id":      id,
	})
}

// Latest handles GET /api/products/latest.
func (h *ProductHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
		return
	}

	products, err := h.service.Latest(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// Categories handles GET /api/products/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
		return
	}

	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// AdminListing handles GET /api/products/admin.
func (h *ProductHandler) AdminListing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
		return
	}

	products, err := h.service.AdminListing(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// Search handles GET /api/products/search with optional search, price,
// category, sort and page query parameters.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidRequest, "method not allowed", h.logger)
		return
	}

	params := r.URL.Query()

	query := model.SearchQuery{
		Search:   params.Get("search"),
		Category: params.Get("category"),
	}

	if priceStr := params.Get("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid price parameter", h.logger)
			return
		}
		query.MaxPrice = &price
	}

	switch sort := params.Get("sort"); sort {
	case "", model.SortAsc, model.SortDesc:
		query.Sort = sort
	default:
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid sort parameter", h.logger)
		return
	}

	if pageStr := params.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid page parameter", h.logger)
			return
		}
		query.Page = page
	}

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "product ID is required", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// Update handles PUT /api/products/{id} with a multipart body where every
// field is optional. Only fields present in the form are applied, so a
// zero value is distinguishable from an omitted one.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "product ID is required", h.logger)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid multipart body", h.logger)
		return
	}

	var update model.ProductUpdate
	if name, ok := formField(r, "name"); ok {
		update.Name = &name
	}
	if category, ok := formField(r, "category"); ok {
		update.Category = &category
	}
	if priceStr, ok := formField(r, "price"); ok {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid price field", h.logger)
			return
		}
		update.Price = &price
	}
	if stockStr, ok := formField(r, "stock"); ok {
		stock, err := strconv.Atoi(stockStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid stock field", h.logger)
			return
		}
		update.Stock = &stock
	}

	var upload *asset.Upload
	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		upload = &asset.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	}

	if err := h.service.Update(r.Context(), id, update, upload); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product updated successfully"})
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "product ID is required", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// productID extracts the id path element from /api/products/{id}.
func productID(r *http.Request) string {
	return strings.TrimPrefix(r.URL.Path, "/api/products/")
}

// formField reports a form value along with whether the field was present
// at all, so callers can tell an omitted field from an empty one.
func formField(r *http.Request, name string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// parseFloatField converts an optional form value; absent or malformed
// values map to nil so the service can treat them as missing.
func parseFloatField(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseIntField converts an optional form value; absent or malformed
// values map to nil so the service can treat them as missing.
func parseIntField(value string) *int {
	if value == "" {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &i
}
