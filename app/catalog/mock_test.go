package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/weavelink/weavelink/models"
)

// --- Mock Repo ---

type MockProductRepo struct {
	SourceProducts []models.Product
	Err            error

	// Fields to capture call arguments
	lastQuery models.ProductQuery
	lastID    string
	calls     int
}

func (m *MockProductRepo) ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	m.calls++
	m.lastQuery = q
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Product{}
	for _, p := range m.SourceProducts {
		if q.OwnerID != "" && p.UserID != q.OwnerID {
			continue
		}
		if !q.WithOwner {
			p.Owner = nil
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	m.calls++
	m.lastID = id
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.SourceProducts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, models.ErrProductNotFound
}

// --- Fixtures ---

var (
	weaverSession = models.Session{UserID: "weaver-1", Name: "Meera", Role: models.RoleWeaver}
	buyerSession  = models.Session{UserID: "buyer-1", Name: "Arjun", Role: models.RoleBuyer}
)

func product(id, name, description string, category models.Category, owner string) models.Product {
	return models.Product{
		ID:          id,
		Name:        name,
		Description: description,
		Category:    category,
		Price:       decimal.RequireFromString("1200.50"),
		UserID:      owner,
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func sampleProducts() []models.Product {
	meera := &models.Profile{ID: "weaver-1", Name: "Meera", Location: "Varanasi"}
	items := []models.Product{
		product("p1", "Banarasi Silk Saree", "Zari border, hand woven", models.CategorySarees, "weaver-1"),
		product("p2", "Pashmina Shawl", "Soft winter wrap", models.CategoryShawls, "weaver-1"),
		product("p3", "Kullu Shawl", "Geometric pattern in wool", models.CategoryShawls, "weaver-2"),
		product("p4", "Cotton Bedsheet", "Double bed, block printed", models.CategoryBedsheets, "weaver-2"),
	}
	items[0].Owner = meera
	items[1].Owner = meera
	return items
}
