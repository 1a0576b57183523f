package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/RemoteState/secondlife-server/media"
	"github.com/RemoteState/secondlife-server/models"
	"github.com/RemoteState/secondlife-server/utils"
	"github.com/go-chi/chi"
	"github.com/pkg/errors"
	"github.com/volatiletech/null"
)

const (
	// maxCreateBodySize leaves room for the text fields next to five full size images.
	maxCreateBodySize = models.MaxItemImages*models.MaxImageSize + 1<<20
	multipartMemory   = 8 << 20
)

// parseItemFilter reads listing query params; malformed numbers are rejected instead of ignored.
func parseItemFilter(r *http.Request) (models.ItemFilter, error) {
	query := r.URL.Query()

	page, err := utils.ParsePositiveInt(query.Get("page"), models.DefaultPage, "page")
	if err != nil {
		return models.ItemFilter{}, err
	}
	limit, err := utils.ParsePositiveInt(query.Get("limit"), models.DefaultLimit, "limit")
	if err != nil {
		return models.ItemFilter{}, err
	}
	if limit > models.MaxLimit {
		limit = models.MaxLimit
	}
	if page-1 > math.MaxInt/limit {
		return models.ItemFilter{}, models.NewValidationError("page is out of range", "page")
	}

	minPrice, err := utils.ParsePrice(query.Get("minPrice"), "minPrice")
	if err != nil {
		return models.ItemFilter{}, err
	}
	maxPrice, err := utils.ParsePrice(query.Get("maxPrice"), "maxPrice")
	if err != nil {
		return models.ItemFilter{}, err
	}
	if minPrice.Valid && maxPrice.Valid && minPrice.Float64 > maxPrice.Float64 {
		return models.ItemFilter{}, models.NewValidationError("minPrice cannot be greater than maxPrice", "minPrice", "maxPrice")
	}

	return models.ItemFilter{
		Search:    strings.TrimSpace(query.Get("search")),
		Condition: strings.TrimSpace(query.Get("condition")),
		Category:  strings.TrimSpace(query.Get("category")),
		Location:  strings.TrimSpace(query.Get("location")),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		Sort:      models.ParseSortOrder(query.Get("sortBy")),
		Page:      page,
		Limit:     limit,
	}, nil
}

// GetAllItems lists active items with filters, sorting and pagination.
func (h *Handler) GetAllItems(w http.ResponseWriter, r *http.Request) {
	filter, err := parseItemFilter(r)
	if err != nil {
		respondFailure(w, err, "Invalid query parameters")
		return
	}

	items, total, err := h.Store.ListItems(r.Context(), filter)
	if err != nil {
		respondFailure(w, err, "Failed to fetch items")
		return
	}

	views, err := h.toItemViews(r.Context(), items, h.Now())
	if err != nil {
		respondFailure(w, err, "Failed to fetch items")
		return
	}

	utils.RespondJSON(w, http.StatusOK, models.ListResponse{
		Success:    true,
		Data:       views,
		Pagination: models.NewPagination(filter.Page, filter.Limit, total),
	})
}

func (h *Handler) GetItemByID(w http.ResponseWriter, r *http.Request) {
	item, err := h.Store.GetItemByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondFailure(w, err, "Failed to fetch item")
		return
	}

	view, err := h.toItemView(r.Context(), item, h.Now())
	if err != nil {
		respondFailure(w, err, "Failed to fetch item")
		return
	}

	utils.RespondJSON(w, http.StatusOK, models.DataResponse{Success: true, Data: view})
}

func readCreateItemRequest(r *http.Request) models.CreateItemRequest {
	field := func(name string) string {
		return strings.TrimSpace(r.FormValue(name))
	}
	return models.CreateItemRequest{
		Name:          field("name"),
		Description:   field("description"),
		Price:         field("price"),
		Condition:     field("condition"),
		Location:      field("location"),
		Category:      field("category"),
		SellerName:    field("sellerName"),
		SellerPhone:   field("sellerPhone"),
		OriginalPrice: field("originalPrice"),
	}
}

// itemFromForm validates the posted fields and builds a new, not yet stored item.
func itemFromForm(r *http.Request) (*models.Item, error) {
	req := readCreateItemRequest(r)
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	price, _ := parseAmount(req.Price)
	condition, _ := models.ParseCondition(req.Condition)

	item := models.NewItem(req.Name, req.Description, price, condition, req.Location, req.Category,
		models.Seller{Name: req.SellerName, Phone: req.SellerPhone})

	if req.OriginalPrice != "" {
		originalPrice, _ := parseAmount(req.OriginalPrice)
		item.OriginalPrice = null.Float64From(originalPrice)
	}
	return item, nil
}

// parseCreateForm accepts multipart bodies with images as well as plain url encoded forms.
func parseCreateForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBodySize)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return models.NewValidationError("Invalid form data", err.Error())
	}
	return nil
}

// CreateItem validates a posted listing, uploads its images and stores it.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if err := parseCreateForm(w, r); err != nil {
		respondFailure(w, err, "Invalid form data")
		return
	}
	if r.MultipartForm != nil {
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()
	}

	item, err := itemFromForm(r)
	if err != nil {
		respondFailure(w, err, "Failed to create item")
		return
	}

	uploads, err := media.ReadUploads(r.MultipartForm)
	if err != nil {
		respondFailure(w, err, "Failed in reading image files")
		return
	}

	item.Images, err = media.StoreAll(r.Context(), h.Media, uploads)
	if err != nil {
		respondFailure(w, err, "Failed in uploading images")
		return
	}

	if err := h.Store.InsertItem(r.Context(), item); err != nil {
		respondFailure(w, err, "Failed to create item")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, models.DataResponse{
		Success: true,
		Message: "Item posted successfully!",
		Data: models.CreatedItem{
			ID:     item.ID,
			Name:   item.Name,
			Price:  utils.FormatPrice(item.Price),
			Images: item.Images,
		},
	})
}

// ToggleLike flips the shared liked flag of an item.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	liked, err := h.Store.ToggleLike(r.Context(), id)
	if err != nil {
		respondFailure(w, err, "Failed to update item")
		return
	}

	message := "Item unliked"
	if liked {
		message = "Item liked"
	}
	utils.RespondJSON(w, http.StatusOK, models.DataResponse{
		Success: true,
		Message: message,
		Data:    models.LikeState{ID: id, Liked: liked},
	})
}

// DeleteItem archives an item; it stays reachable by id.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.ArchiveItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondFailure(w, err, "Failed to delete item")
		return
	}

	utils.RespondJSON(w, http.StatusOK, models.Response{Success: true, Message: "Item deleted successfully"})
}
