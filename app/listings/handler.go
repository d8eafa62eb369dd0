package listings

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/weavelink/weavelink/app/api"
	"github.com/weavelink/weavelink/app/auth"
	"github.com/weavelink/weavelink/app/catalog"
	"github.com/weavelink/weavelink/logging"
	"github.com/weavelink/weavelink/models"
)

const formOverhead = 1 << 20

type Response struct {
	Message  string              `json:"message,omitempty"`
	Product  *catalog.Product    `json:"product,omitempty"`
	Total    int                 `json:"total"`
	Products []catalog.Product   `json:"products"`
	Empty    *catalog.EmptyState `json:"empty,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type Handler struct {
	service       *Service
	fetcher       *catalog.Fetcher
	maxImageBytes int64
	logger        *zap.Logger
}

func NewHandler(service *Service, fetcher *catalog.Fetcher, maxImageBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		service:       service,
		fetcher:       fetcher,
		maxImageBytes: maxImageBytes,
		logger:        logging.OrNop(logger),
	}
}

// HandleList serves the weaver's own products.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	products, err := h.fetcher.FetchOwned(r.Context(), sess)
	if err != nil {
		api.OKResponse(w, api.StatusFor(err), Response{
			Products: catalog.NewProducts(products),
			Error:    catalog.FetchFailedMessage,
		})
		return
	}
	api.OKResponse(w, http.StatusOK, h.ownedResponse("", nil, products))
}

// HandleCreate lists a new product from a multipart form.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())

	fields, image, cleanup, err := h.parseForm(w, r)
	if err != nil {
		api.RespondError(w, err, "Failed to read product form")
		return
	}
	defer cleanup()

	product, err := h.service.Create(r.Context(), sess, fields, image)
	if err != nil {
		api.RespondError(w, err, "Failed to add product")
		return
	}
	h.respondMutation(w, r, http.StatusCreated, "Product added successfully!", product)
}

// HandleUpdate rewrites one of the weaver's products.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	id := r.PathValue("id")

	fields, image, cleanup, err := h.parseForm(w, r)
	if err != nil {
		api.RespondError(w, err, "Failed to read product form")
		return
	}
	defer cleanup()

	product, err := h.service.Update(r.Context(), sess, id, fields, image)
	if err != nil {
		api.RespondError(w, err, "Failed to update product")
		return
	}
	h.respondMutation(w, r, http.StatusOK, "Product updated successfully!", product)
}

// HandleDelete removes one of the weaver's products.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	id := r.PathValue("id")

	if err := h.service.Delete(r.Context(), sess, id); err != nil {
		api.RespondError(w, err, "Failed to delete product")
		return
	}
	h.respondMutation(w, r, http.StatusOK, "Product deleted successfully!", nil)
}

// respondMutation re-reads the weaver's products so the response reflects
// the stored state.
func (h *Handler) respondMutation(w http.ResponseWriter, r *http.Request, status int, message string, product *models.Product) {
	sess := auth.SessionFromContext(r.Context())
	products, err := h.fetcher.FetchOwned(r.Context(), sess)

	resp := h.ownedResponse(message, product, products)
	if err != nil {
		resp.Error = catalog.FetchFailedMessage
	}
	api.OKResponse(w, status, resp)
}

func (h *Handler) ownedResponse(message string, product *models.Product, products []models.Product) Response {
	resp := Response{
		Message:  message,
		Total:    len(products),
		Products: catalog.NewProducts(products),
	}
	if product != nil {
		card := catalog.NewProduct(*product)
		resp.Product = &card
	}
	if len(products) == 0 {
		resp.Empty = &catalog.EmptyState{
			Title:       "No products yet",
			Description: "Start by adding your first handloom product to showcase your craft",
		}
	}
	return resp
}

// parseForm reads the product fields and the optional "image" file. The
// returned cleanup releases the uploaded file.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (models.ProductFields, *ImageUpload, func(), error) {
	noop := func() {}
	if h.maxImageBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+formOverhead)
	}

	err := r.ParseMultipartForm(formOverhead)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.ProductFields{}, nil, noop, models.NewValidationError("image", "is too large")
		}
		return models.ProductFields{}, nil, noop, models.NewValidationError("form", "could not be parsed")
	}

	fields := models.ProductFields{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    models.Category(r.FormValue("category")),
		Price:       decimal.Zero,
	}
	if raw := strings.TrimSpace(r.FormValue("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return models.ProductFields{}, nil, noop, models.NewValidationError("price", "must be a number")
		}
		fields.Price = price
	}

	if r.MultipartForm == nil {
		return fields, nil, noop, nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return fields, nil, noop, nil
	}
	if err != nil {
		return models.ProductFields{}, nil, noop, models.NewValidationError("image", "could not be read")
	}

	image := &ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	cleanup := func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}
	return fields, image, cleanup, nil
}
