package catalog

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/weavelink/weavelink/app/api"
	"github.com/weavelink/weavelink/app/auth"
	"github.com/weavelink/weavelink/logging"
	"github.com/weavelink/weavelink/models"
)

// AnonymousWeaver is shown when a product's owner profile is unavailable.
const AnonymousWeaver = "Anonymous Weaver"

type Response struct {
	Total    int         `json:"total"`
	Products []Product   `json:"products"`
	Empty    *EmptyState `json:"empty,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// EmptyState explains why no product is shown.
type EmptyState struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	Price       float64   `json:"price"`
	Weaver      string    `json:"weaver,omitempty"`
	Location    string    `json:"location,omitempty"`
	ListedAt    time.Time `json:"listed_at"`
}

// NewProduct maps a stored product to its JSON card. Owner fields are only
// filled when the owner was joined.
func NewProduct(p models.Product) Product {
	out := Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		ImageURL:    p.ImageURL,
		Price:       p.Price.InexactFloat64(),
		ListedAt:    p.CreatedAt,
	}
	if p.Owner != nil {
		out.Weaver = p.Owner.Name
		out.Location = p.Owner.Location
	}
	return out
}

// NewProducts maps a product list, always returning a non-nil slice.
func NewProducts(products []models.Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = NewProduct(p)
	}
	return out
}

// FetchFailedMessage is reported alongside an empty list when the catalog
// cannot be loaded.
const FetchFailedMessage = "Failed to fetch products"

type CatalogHandler struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

func NewCatalogHandler(f *Fetcher, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		fetcher: f,
		logger:  logging.OrNop(logger),
	}
}

// HandleGet serves the marketplace: every product, narrowed by the optional
// "q" and "category" query parameters.
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		api.RespondError(w, err, "Invalid filter")
		return
	}

	sess := auth.SessionFromContext(r.Context())
	products, err := h.fetcher.FetchAll(r.Context(), sess)
	if err != nil {
		api.OKResponse(w, api.StatusFor(err), Response{
			Products: NewProducts(products),
			Error:    FetchFailedMessage,
		})
		return
	}

	matched := filter.Apply(products)
	cards := NewProducts(matched)
	for i := range cards {
		if cards[i].Weaver == "" {
			cards[i].Weaver = AnonymousWeaver
		}
	}

	response := Response{
		Total:    len(cards),
		Products: cards,
	}
	if len(cards) == 0 {
		response.Empty = marketplaceEmptyState(filter)
	}
	api.OKResponse(w, http.StatusOK, response)
}

// HandleGetProduct serves a single product.
func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.fetcher.FetchOne(r.Context(), auth.SessionFromContext(r.Context()), id)
	if err != nil {
		api.RespondError(w, err, FetchFailedMessage)
		return
	}

	card := NewProduct(*product)
	if card.Weaver == "" {
		card.Weaver = AnonymousWeaver
	}
	api.OKResponse(w, http.StatusOK, card)
}

func marketplaceEmptyState(f Filter) *EmptyState {
	if f.Active() {
		return &EmptyState{
			Title:       "No products found",
			Description: "Try adjusting your search or filter criteria",
		}
	}
	return &EmptyState{
		Title:       "No products found",
		Description: "No products have been listed yet",
	}
}
