package listings

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/weavelink/weavelink/models"
)

// --- Mock Repo ---

type MockProductStore struct {
	mu       sync.Mutex
	products map[string]models.Product
	seq      int
	clock    time.Time

	CreateErr error
	UpdateErr error
	DeleteErr error

	// Fields to capture call arguments
	createCalls   int
	updateCalls   int
	lastImageURL  string
	lastUpdatedID string
}

func NewMockProductStore(products ...models.Product) *MockProductStore {
	m := &MockProductStore{
		products: make(map[string]models.Product),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return &p, nil
}

func (m *MockProductStore) CreateProduct(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.seq++
	m.clock = m.clock.Add(time.Minute)
	product.ID = "new-" + string(rune('0'+m.seq))
	product.CreatedAt = m.clock
	product.UpdatedAt = m.clock
	m.products[product.ID] = *product
	return nil
}

func (m *MockProductStore) UpdateProduct(ctx context.Context, id, actorID string, fields models.ProductFields, imageURL string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	m.lastUpdatedID = id
	m.lastImageURL = imageURL
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	if p.UserID != actorID {
		return nil, models.ErrForbidden
	}
	p.Name = fields.Name
	p.Description = fields.Description
	p.Category = fields.Category
	p.Price = fields.Price
	if imageURL != "" {
		p.ImageURL = imageURL
	}
	m.products[id] = p
	return &p, nil
}

func (m *MockProductStore) DeleteProduct(ctx context.Context, id, actorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	p, ok := m.products[id]
	if !ok {
		return models.ErrProductNotFound
	}
	if p.UserID != actorID {
		return models.ErrForbidden
	}
	delete(m.products, id)
	return nil
}

func (m *MockProductStore) ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.products {
		if q.OwnerID != "" && p.UserID != q.OwnerID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- Fixtures ---

var (
	weaverSession = models.Session{UserID: "weaver-1", Name: "Meera", Role: models.RoleWeaver}
	otherWeaver   = models.Session{UserID: "weaver-2", Name: "Kabir", Role: models.RoleWeaver}
	buyerSession  = models.Session{UserID: "buyer-1", Name: "Arjun", Role: models.RoleBuyer}
)

// pngBytes is a PNG signature followed by an IHDR chunk.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"), make([]byte, 64)...)

func pngUpload(name string) *ImageUpload {
	return &ImageUpload{
		Filename:    name,
		ContentType: "image/png",
		Size:        int64(len(pngBytes)),
		Body:        bytes.NewReader(pngBytes),
	}
}

func ownedProduct(id, owner, imageURL string) models.Product {
	return models.Product{
		ID:          id,
		Name:        "Ikat Dupatta",
		Description: "Pochampally ikat",
		Category:    models.CategoryDupattas,
		ImageURL:    imageURL,
		UserID:      owner,
		CreatedAt:   time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	}
}
