package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/weavelink/weavelink/logging"
	"github.com/weavelink/weavelink/models"
	"github.com/weavelink/weavelink/platform/storage"
)

// TaskSweepOrphanImages removes stored images no product refers to.
const TaskSweepOrphanImages = "images:sweep_orphans"

// SweepPayload optionally overrides the sweeper's grace period.
type SweepPayload struct {
	GraceSeconds int64 `json:"grace_seconds,omitempty"`
}

func NewSweepTask(payload SweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSweepOrphanImages, data, asynq.Queue(QueueDefault)), nil
}

// ErrUnknownReference aborts a sweep when a product image URL cannot be
// mapped to an object key, since the object it names cannot be told apart
// from an orphan.
var ErrUnknownReference = errors.New("image reference not in bucket")

// ImageReferences lists the image URLs held by products.
type ImageReferences interface {
	ImageURLs(ctx context.Context) ([]string, error)
}

// SweepResult counts what a sweep saw and did.
type SweepResult struct {
	Scanned    int
	Referenced int
	Recent     int
	Removed    int
}

// Sweeper deletes image objects left behind by deleted products or by
// product writes that failed after their upload. Objects younger than the
// grace period are kept so uploads whose row write is still running are
// never removed.
type Sweeper struct {
	images storage.ImageStore
	refs   ImageReferences
	grace  time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewSweeper(images storage.ImageStore, refs ImageReferences, grace time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		images: images,
		refs:   refs,
		grace:  grace,
		now:    time.Now,
		logger: logging.OrNop(logger),
	}
}

// Sweep removes every unreferenced object older than grace. Product rows are
// never touched.
func (s *Sweeper) Sweep(ctx context.Context, grace time.Duration) (SweepResult, error) {
	var result SweepResult

	urls, err := s.refs.ImageURLs(ctx)
	if err != nil {
		return result, err
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		key, ok := s.images.KeyFromURL(u)
		if !ok {
			return result, fmt.Errorf("image reference %q is outside the bucket: %w", u, ErrUnknownReference)
		}
		referenced[key] = struct{}{}
	}

	objects, err := s.images.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list images: %w: %w", models.ErrStorage, err)
	}

	cutoff := s.now().Add(-grace)
	var errs []error
	for _, obj := range objects {
		result.Scanned++
		if _, ok := referenced[obj.Key]; ok {
			result.Referenced++
			continue
		}
		if obj.LastModified.After(cutoff) {
			result.Recent++
			continue
		}
		if err := s.images.Remove(ctx, obj.Key); err != nil {
			s.logger.Warn("remove orphaned image failed", zap.String("key", obj.Key), zap.Error(err))
			errs = append(errs, fmt.Errorf("remove %s: %w: %w", obj.Key, models.ErrStorage, err))
			continue
		}
		result.Removed++
		s.logger.Info("orphaned image removed",
			zap.String("key", obj.Key),
			zap.Time("last_modified", obj.LastModified),
		)
	}
	return result, errors.Join(errs...)
}

// Handle runs a sweep for an asynq task.
func (s *Sweeper) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode sweep payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	grace := s.grace
	if payload.GraceSeconds > 0 {
		grace = time.Duration(payload.GraceSeconds) * time.Second
	}

	start := s.now()
	result, err := s.Sweep(ctx, grace)
	s.logger.Info("orphan sweep finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("referenced", result.Referenced),
		zap.Int("recent", result.Recent),
		zap.Int("removed", result.Removed),
		zap.Duration("grace", grace),
		zap.Duration("took", s.now().Sub(start)),
		zap.Error(err),
	)
	return err
}
