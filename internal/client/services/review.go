package services

import (
	"context"
	"errors"
	"strings"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/mutation"
	"github.com/study-upc/studyclient/internal/client/notify"
)

var ErrReasonRequired = errors.New("a rejection reason is required")

type reviewInput struct {
	id  int64
	req models.ReviewMaterialRequest
}

type removalSnapshot[T collection.Entity] struct {
	removal collection.Removal[T]
	found   bool
}

// ReviewService is the admin queue of materials waiting for review. A
// decision takes the material off the pending page at once and puts it back
// if the backend refuses. Past decisions are paged separately.
type ReviewService struct {
	store  *collection.Store[models.Material]
	load   *collection.Loader[models.Material]
	review *mutation.Coordinator[reviewInput, struct{}, removalSnapshot[models.Material]]

	history     *collection.Store[models.ReviewRecord]
	loadHistory *collection.Loader[models.ReviewRecord]
}

func NewReviewService(api ReviewAPI, n notify.Notifier, pageSize int) *ReviewService {
	store := collection.NewStore[models.Material](pageSize)
	history := collection.NewStore[models.ReviewRecord](pageSize)
	s := &ReviewService{
		store:       store,
		load:        collection.NewLoader(store, api.PendingMaterials),
		history:     history,
		loadHistory: collection.NewLoader(history, api.ReviewHistory),
	}

	s.review = mutation.New(mutation.Options[reviewInput, struct{}, removalSnapshot[models.Material]]{
		Apply: func(in reviewInput) removalSnapshot[models.Material] {
			r, ok := store.Detach(in.id)
			return removalSnapshot[models.Material]{removal: r, found: ok}
		},
		Rollback: func(_ reviewInput, snap removalSnapshot[models.Material]) {
			if snap.found {
				store.Reattach(snap.removal)
			}
		},
		Call: func(ctx context.Context, in reviewInput) (struct{}, error) {
			return struct{}{}, api.ReviewMaterial(ctx, in.id, in.req)
		},
		SuccessMessage: "Review submitted",
		ErrorMessage:   "Review failed, the material is back in the queue",
	}, n)

	return s
}

func (s *ReviewService) Store() *collection.Store[models.Material] { return s.store }
func (s *ReviewService) Loading() bool                              { return s.load.Loading() }
func (s *ReviewService) Busy() bool                                 { return s.review.Busy() }

func (s *ReviewService) FetchPending(ctx context.Context, q collection.Query) error {
	return s.load.Load(ctx, q)
}

func (s *ReviewService) Reload(ctx context.Context) error {
	return s.load.Reload(ctx)
}

func (s *ReviewService) History() *collection.Store[models.ReviewRecord] { return s.history }

// FetchHistory loads a page of past decisions. An empty action shows both
// approvals and rejections.
func (s *ReviewService) FetchHistory(ctx context.Context, action models.ReviewAction, page int) error {
	q := s.history.Query().WithFilter("action", string(action)).WithPage(page)
	return s.loadHistory.Load(ctx, q)
}

func (s *ReviewService) Approve(ctx context.Context, id int64) error {
	_, err := s.review.Mutate(ctx, reviewInput{
		id:  id,
		req: models.ReviewMaterialRequest{Status: models.MaterialApproved},
	})
	return err
}

func (s *ReviewService) Reject(ctx context.Context, id int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	_, err := s.review.Mutate(ctx, reviewInput{
		id:  id,
		req: models.ReviewMaterialRequest{Status: models.MaterialRejected, RejectionReason: reason},
	})
	return err
}

func (s *ReviewService) Reset() {
	s.load.Invalidate()
	s.store.Reset()
	s.loadHistory.Invalidate()
	s.history.Reset()
}
