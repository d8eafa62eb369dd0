package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/weavelink/weavelink/logging"
	"github.com/weavelink/weavelink/models"
)

// ProductProvider is the read side of the product store.
type ProductProvider interface {
	ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// Fetcher retrieves the catalog on behalf of a signed-in actor. Failures
// never escape as partial data: the caller always receives a usable,
// possibly empty, slice alongside the error to report.
type Fetcher struct {
	repo   ProductProvider
	logger *zap.Logger
}

func NewFetcher(repo ProductProvider, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		repo:   repo,
		logger: logging.OrNop(logger),
	}
}

// FetchAll returns every product with its owner's name and location, newest
// first.
func (f *Fetcher) FetchAll(ctx context.Context, sess models.Session) ([]models.Product, error) {
	return f.fetch(ctx, sess, models.ProductQuery{WithOwner: true})
}

// FetchOwned returns the actor's own products, newest first.
func (f *Fetcher) FetchOwned(ctx context.Context, sess models.Session) ([]models.Product, error) {
	return f.fetch(ctx, sess, models.ProductQuery{OwnerID: sess.UserID})
}

// FetchOne returns a single product with its owner.
func (f *Fetcher) FetchOne(ctx context.Context, sess models.Session, id string) (*models.Product, error) {
	if sess.IsZero() {
		return nil, models.ErrUnauthenticated
	}
	product, err := f.repo.GetByID(ctx, id)
	if err != nil {
		f.logger.Warn("fetch product failed", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	return product, nil
}

func (f *Fetcher) fetch(ctx context.Context, sess models.Session, q models.ProductQuery) ([]models.Product, error) {
	if sess.IsZero() {
		return []models.Product{}, models.ErrUnauthenticated
	}
	products, err := f.repo.ListProducts(ctx, q)
	if err != nil {
		f.logger.Error("fetch products failed",
			zap.String("user_id", sess.UserID),
			zap.String("owner_id", q.OwnerID),
			zap.Error(err),
		)
		return []models.Product{}, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
