package freshness

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/batch"
	"github.com/talentmatch/talent-match/internal/embedding"
	"github.com/talentmatch/talent-match/internal/logging"
	"github.com/talentmatch/talent-match/internal/types"
)

// DefaultBatchSize bounds the items handled by one RunOnce.
const DefaultBatchSize = 100

// Store loads records and persists their embeddings. Getters return nil, nil
// for missing records.
type Store interface {
	GetResume(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*types.Resume, error)
	UpdateResumeEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	GetProfile(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error)
	UpdateProfileEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	GetJob(ctx context.Context, id int64) (*types.JobPosting, error)
	UpdateJobEmbedding(ctx context.Context, id int64, embedding []float32) error
}

// EmbeddingSource computes record embeddings.
type EmbeddingSource interface {
	JobEmbedding(ctx context.Context, job *types.JobPosting) ([]float32, error)
	ApplicantEmbedding(ctx context.Context, p *types.CandidateProfile) ([]float32, error)
	ResumeEmbedding(ctx context.Context, r *types.Resume) ([]float32, error)
}

// errGone marks a record deleted since it was enqueued.
var errGone = errors.New("record no longer exists")

// Refresher drains the queue and recomputes embeddings.
type Refresher struct {
	queue     Queue
	store     Store
	embedder  EmbeddingSource
	batchSize int
	logger    *zap.Logger
}

// NewRefresher returns a Refresher. batchSize <= 0 selects DefaultBatchSize.
func NewRefresher(queue Queue, store Store, embedder EmbeddingSource, batchSize int, logger *zap.Logger) *Refresher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Refresher{
		queue:     queue,
		store:     store,
		embedder:  embedder,
		batchSize: batchSize,
		logger:    logging.OrNop(logger),
	}
}

// RunOnce refreshes up to one batch of stale records. Items that fail with a
// transient error are put back for the next run; deleted records and records
// with nothing to embed are dropped.
func (r *Refresher) RunOnce(ctx context.Context) (batch.Result, error) {
	items, err := r.queue.Pop(ctx, r.batchSize)
	if err != nil {
		return batch.Result{}, err
	}

	result := batch.Result{Succeeded: []string{}, Failed: []batch.Failure{}}
	var retry []Item
	for _, it := range items {
		err := r.refresh(ctx, it)
		switch {
		case err == nil:
			result.Succeeded = append(result.Succeeded, it.String())
			continue
		case errors.Is(err, errGone), errors.Is(err, embedding.ErrEmptyText):
			r.logger.Debug("dropping stale embedding", zap.Stringer("item", it), zap.Error(err))
		default:
			retry = append(retry, it)
		}
		result.Failed = append(result.Failed, batch.Failure{Key: it.String(), Err: err})
	}

	if len(retry) > 0 {
		// Requeue with a fresh context so a cancelled run does not lose items.
		if err := r.queue.Enqueue(context.WithoutCancel(ctx), retry...); err != nil {
			r.logger.Error("failed to requeue stale embeddings", zap.Int("count", len(retry)), zap.Error(err))
		}
	}
	if len(items) > 0 {
		r.logger.Info("embedding refresh finished",
			zap.Int("refreshed", len(result.Succeeded)),
			zap.Int("failed", len(result.Failed)),
			zap.Int("requeued", len(retry)))
	}
	return result, nil
}

// Drain runs RunOnce until the queue is empty or a run makes no progress.
func (r *Refresher) Drain(ctx context.Context) (batch.Result, error) {
	var total batch.Result
	for {
		res, err := r.RunOnce(ctx)
		total = total.Merge(res)
		if err != nil || res.Total() == 0 || len(res.Succeeded) == 0 {
			return total, err
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
	}
}

func (r *Refresher) refresh(ctx context.Context, it Item) error {
	switch it.Kind {
	case KindResume:
		id, err := uuid.Parse(it.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", errGone, err)
		}
		resume, err := r.store.GetResume(ctx, id, nil)
		if err != nil {
			return err
		}
		if resume == nil {
			return errGone
		}
		vec, err := r.embedder.ResumeEmbedding(ctx, resume)
		if err != nil {
			return err
		}
		return r.store.UpdateResumeEmbedding(ctx, id, vec)

	case KindProfile:
		id, err := uuid.Parse(it.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", errGone, err)
		}
		profile, err := r.store.GetProfile(ctx, id)
		if err != nil {
			return err
		}
		if profile == nil {
			return errGone
		}
		vec, err := r.embedder.ApplicantEmbedding(ctx, profile)
		if err != nil {
			return err
		}
		return r.store.UpdateProfileEmbedding(ctx, id, vec)

	case KindJob:
		id, err := strconv.ParseInt(it.ID, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %v", errGone, err)
		}
		job, err := r.store.GetJob(ctx, id)
		if err != nil {
			return err
		}
		if job == nil {
			return errGone
		}
		vec, err := r.embedder.JobEmbedding(ctx, job)
		if err != nil {
			return err
		}
		return r.store.UpdateJobEmbedding(ctx, id, vec)
	}
	return fmt.Errorf("unknown record kind %q", it.Kind)
}
