package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelink/weavelink/models"
)

func TestFetchAll(t *testing.T) {
	repo := &MockProductRepo{SourceProducts: sampleProducts()}
	f := NewFetcher(repo, nil)

	products, err := f.FetchAll(context.Background(), buyerSession)

	require.NoError(t, err)
	assert.Len(t, products, 4)
	assert.True(t, repo.lastQuery.WithOwner)
	assert.Empty(t, repo.lastQuery.OwnerID)
	assert.Equal(t, "Meera", products[0].Owner.Name)
}

func TestFetchOwned(t *testing.T) {
	repo := &MockProductRepo{SourceProducts: sampleProducts()}
	f := NewFetcher(repo, nil)

	products, err := f.FetchOwned(context.Background(), weaverSession)

	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(products))
	assert.Equal(t, "weaver-1", repo.lastQuery.OwnerID)
	for _, p := range products {
		assert.Equal(t, weaverSession.UserID, p.UserID)
	}
}

func TestFetchOwnedEmpty(t *testing.T) {
	repo := &MockProductRepo{}
	f := NewFetcher(repo, nil)

	products, err := f.FetchOwned(context.Background(), weaverSession)

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestFetchWithoutSession(t *testing.T) {
	repo := &MockProductRepo{SourceProducts: sampleProducts()}
	f := NewFetcher(repo, nil)

	all, err := f.FetchAll(context.Background(), models.Session{})
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	owned, err := f.FetchOwned(context.Background(), models.Session{})
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.Empty(t, owned)

	_, err = f.FetchOne(context.Background(), models.Session{}, "p1")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	assert.Zero(t, repo.calls, "repository must not be queried without a session")
}

func TestFetchRepositoryFailure(t *testing.T) {
	repo := &MockProductRepo{
		SourceProducts: sampleProducts(),
		Err:            fmt.Errorf("list products: %w: %w", models.ErrTransport, assert.AnError),
	}
	f := NewFetcher(repo, nil)

	products, err := f.FetchAll(context.Background(), buyerSession)

	assert.ErrorIs(t, err, models.ErrTransport)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestFetchOne(t *testing.T) {
	repo := &MockProductRepo{SourceProducts: sampleProducts()}
	f := NewFetcher(repo, nil)

	p, err := f.FetchOne(context.Background(), buyerSession, "p3")
	require.NoError(t, err)
	assert.Equal(t, "Kullu Shawl", p.Name)

	_, err = f.FetchOne(context.Background(), buyerSession, "missing")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}
