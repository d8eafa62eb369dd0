// Package listings lets weavers manage their own products.
package listings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/weavelink/weavelink/logging"
	"github.com/weavelink/weavelink/models"
	"github.com/weavelink/weavelink/observability"
	"github.com/weavelink/weavelink/platform/storage"
)

const sniffLen = 3072

// imageTypes are the accepted upload formats. Vector formats can carry
// script and are refused.
var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ProductStore is the write side of the product store.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id, actorID string, fields models.ProductFields, imageURL string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id, actorID string) error
}

// ImageUpload is an image file attached to a create or update.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Options struct {
	MaxImageBytes  int64
	StorageTimeout time.Duration
	Now            func() time.Time
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// Service performs product mutations on behalf of a weaver. Images are
// uploaded before the row is written; a failed upload leaves the database
// untouched.
type Service struct {
	repo     ProductStore
	images   storage.ImageStore
	validate *validator.Validate
	guard    *inflight

	maxImageBytes  int64
	storageTimeout time.Duration
	now            func() time.Time
	metrics        *observability.Metrics
	logger         *zap.Logger
}

func NewService(repo ProductStore, images storage.ImageStore, opts Options) *Service {
	s := &Service{
		repo:           repo,
		images:         images,
		validate:       models.NewValidator(),
		guard:          newInflight(),
		maxImageBytes:  opts.MaxImageBytes,
		storageTimeout: opts.StorageTimeout,
		now:            opts.Now,
		metrics:        opts.Metrics,
		logger:         logging.OrNop(opts.Logger),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.storageTimeout <= 0 {
		s.storageTimeout = 20 * time.Second
	}
	return s
}

// Create lists a new product owned by the session's actor.
func (s *Service) Create(ctx context.Context, sess models.Session, fields models.ProductFields, image *ImageUpload) (product *models.Product, err error) {
	defer func() { s.metrics.ObserveMutation("create", err) }()

	if err := s.authorize(sess); err != nil {
		return nil, err
	}
	if err := models.Validate(s.validate, fields); err != nil {
		return nil, err
	}
	if err := s.checkImage(image); err != nil {
		return nil, err
	}
	if !s.guard.acquire(sess.UserID) {
		return nil, models.ErrBusy
	}
	defer s.guard.release(sess.UserID)

	imageURL, key, err := s.upload(ctx, sess.UserID, image)
	if err != nil {
		return nil, err
	}

	product = &models.Product{
		Name:        fields.Name,
		Description: fields.Description,
		Category:    fields.Category,
		Price:       fields.Price,
		ImageURL:    imageURL,
		UserID:      sess.UserID,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		s.logOrphan("create", key, err)
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID),
		zap.String("user_id", sess.UserID),
	)
	return product, nil
}

// Update rewrites a product owned by the session's actor. Without a new
// image the stored image URL is kept.
func (s *Service) Update(ctx context.Context, sess models.Session, id string, fields models.ProductFields, image *ImageUpload) (product *models.Product, err error) {
	defer func() { s.metrics.ObserveMutation("update", err) }()

	if err := s.authorize(sess); err != nil {
		return nil, err
	}
	if err := models.Validate(s.validate, fields); err != nil {
		return nil, err
	}
	if err := s.checkImage(image); err != nil {
		return nil, err
	}
	if !s.guard.acquire(sess.UserID) {
		return nil, models.ErrBusy
	}
	defer s.guard.release(sess.UserID)

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != sess.UserID {
		return nil, models.ErrForbidden
	}

	imageURL, key, err := s.upload(ctx, sess.UserID, image)
	if err != nil {
		return nil, err
	}

	product, err = s.repo.UpdateProduct(ctx, id, sess.UserID, fields, imageURL)
	if err != nil {
		s.logOrphan("update", key, err)
		return nil, err
	}

	s.logger.Info("product updated",
		zap.String("product_id", id),
		zap.String("user_id", sess.UserID),
		zap.Bool("image_replaced", imageURL != ""),
	)
	return product, nil
}

// Delete removes a product owned by the session's actor. Its image object is
// left for the orphan sweep.
func (s *Service) Delete(ctx context.Context, sess models.Session, id string) (err error) {
	defer func() { s.metrics.ObserveMutation("delete", err) }()

	if err := s.authorize(sess); err != nil {
		return err
	}
	if !s.guard.acquire(sess.UserID) {
		return models.ErrBusy
	}
	defer s.guard.release(sess.UserID)

	if err := s.repo.DeleteProduct(ctx, id, sess.UserID); err != nil {
		return err
	}

	s.logger.Info("product deleted",
		zap.String("product_id", id),
		zap.String("user_id", sess.UserID),
	)
	return nil
}

func (s *Service) authorize(sess models.Session) error {
	if sess.IsZero() {
		return models.ErrUnauthenticated
	}
	if !sess.Can(models.CapabilityManageListings) {
		return models.ErrForbidden
	}
	return nil
}

// checkImage enforces the size limit and sniffs the content. On success the
// upload's ContentType holds the detected type and Body still yields the
// whole file.
func (s *Service) checkImage(image *ImageUpload) error {
	if image == nil {
		return nil
	}
	if image.Size <= 0 {
		return models.NewValidationError("image", "is empty")
	}
	if s.maxImageBytes > 0 && image.Size > s.maxImageBytes {
		return models.NewValidationError("image", fmt.Sprintf("must be at most %d bytes", s.maxImageBytes))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(image.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read image: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !mimetype.EqualsAny(detected.String(), imageTypes...) {
		return models.NewValidationError("image", "must be a JPEG, PNG, GIF or WebP image")
	}
	image.ContentType = detected.String()
	image.Body = io.MultiReader(bytes.NewReader(head), image.Body)
	return nil
}

// upload stores image and returns its public URL and object key. A nil image
// yields empty strings.
func (s *Service) upload(ctx context.Context, ownerID string, image *ImageUpload) (string, string, error) {
	if image == nil {
		return "", "", nil
	}
	key := storage.ObjectKey(ownerID, s.now(), image.Filename, image.ContentType)

	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	if err := s.images.Put(ctx, key, image.Body, image.Size, image.ContentType); err != nil {
		s.logger.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return "", "", fmt.Errorf("upload image: %w: %w", models.ErrStorage, err)
	}
	return s.images.PublicURL(key), key, nil
}

func (s *Service) logOrphan(op, key string, err error) {
	if key == "" {
		return
	}
	s.logger.Warn("image stored without a product row",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}
