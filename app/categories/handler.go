package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/weavelink/weavelink/models"
)

type CategoryResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Products int64  `json:"products"`
}

type CategoryProvider interface {
	CountByCategory(ctx context.Context) (map[models.Category]int64, error)
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

// HandleGetAll lists the product categories in display order with their
// product counts. With include_all=true the list starts with the "All"
// selector.
func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	counts, err := h.repo.CountByCategory(r.Context())
	if err != nil {
		http.Error(w, "failed to fetch categories", http.StatusInternalServerError)
		return
	}

	categories := models.Categories()
	response := make([]CategoryResponse, 0, len(categories)+1)

	includeAll, _ := strconv.ParseBool(r.URL.Query().Get("include_all"))
	if includeAll {
		var total int64
		for _, c := range categories {
			total += counts[c]
		}
		response = append(response, CategoryResponse{
			Code:     models.CategoryAll.Code(),
			Name:     string(models.CategoryAll),
			Products: total,
		})
	}

	for _, c := range categories {
		response = append(response, CategoryResponse{
			Code:     c.Code(),
			Name:     string(c),
			Products: counts[c],
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
