package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/mutation"
	"github.com/study-upc/studyclient/internal/client/notify"
)

type applicationSnapshot struct {
	prev        models.CommitteeApplication
	found       bool
	decremented bool
}

type applicationReview struct {
	id  int64
	req models.ReviewApplicationRequest
}

// CommitteeService covers both sides of committee membership: a student's own
// applications and the admin list of everyone's.
type CommitteeService struct {
	api CommitteeAPI
	now func() time.Time

	mine     *collection.Store[models.CommitteeApplication]
	loadMine *collection.Loader[models.CommitteeApplication]
	all      *collection.Store[models.CommitteeApplication]
	loadAll  *collection.Loader[models.CommitteeApplication]

	mu      sync.Mutex
	pending int64

	apply  *mutation.Coordinator[string, models.CommitteeApplication, struct{}]
	cancel *mutation.Coordinator[int64, struct{}, applicationSnapshot]
	review *mutation.Coordinator[applicationReview, models.CommitteeApplication, applicationSnapshot]
}

func NewCommitteeService(api CommitteeAPI, n notify.Notifier, pageSize int) *CommitteeService {
	mine := collection.NewStore[models.CommitteeApplication](pageSize)
	all := collection.NewStore[models.CommitteeApplication](pageSize)
	s := &CommitteeService{
		api:      api,
		now:      time.Now,
		mine:     mine,
		loadMine: collection.NewLoader(mine, api.MyApplications),
		all:      all,
		loadAll:  collection.NewLoader(all, api.AllApplications),
	}

	// Nothing to show before the server assigns an id, so applying is not
	// optimistic.
	s.apply = mutation.New(mutation.Options[string, models.CommitteeApplication, struct{}]{
		Call: api.ApplyCommittee,
		OnSuccess: func(a models.CommitteeApplication, _ string) {
			mine.Prepend(a)
		},
		ErrorMessage: "Could not submit the application",
	}, n)

	s.cancel = mutation.New(mutation.Options[int64, struct{}, applicationSnapshot]{
		Apply: func(id int64) applicationSnapshot {
			return s.setStatus(mine, id, models.ApplicationCancelled, "")
		},
		Rollback: func(id int64, snap applicationSnapshot) { s.restore(mine, id, snap) },
		Call: func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, api.CancelApplication(ctx, id)
		},
		SuccessMessage: "Application cancelled",
		ErrorMessage:   "Could not cancel the application",
	}, n)

	s.review = mutation.New(mutation.Options[applicationReview, models.CommitteeApplication, applicationSnapshot]{
		Apply: func(in applicationReview) applicationSnapshot {
			status := models.ApplicationRejected
			if in.req.Approved {
				status = models.ApplicationApproved
			}
			return s.setStatus(all, in.id, status, in.req.Comment)
		},
		Rollback: func(in applicationReview, snap applicationSnapshot) { s.restore(all, in.id, snap) },
		Call: func(ctx context.Context, in applicationReview) (models.CommitteeApplication, error) {
			return api.ReviewApplication(ctx, in.id, in.req)
		},
		OnSuccess: func(a models.CommitteeApplication, in applicationReview) {
			if a.ID == in.id {
				all.Upsert(a)
			}
		},
		SuccessMessage: "Application reviewed",
		ErrorMessage:   "Could not review the application",
	}, n)

	return s
}

func (s *CommitteeService) Mine() *collection.Store[models.CommitteeApplication] { return s.mine }
func (s *CommitteeService) All() *collection.Store[models.CommitteeApplication]  { return s.all }

func (s *CommitteeService) FetchMine(ctx context.Context, q collection.Query) error {
	return s.loadMine.Load(ctx, q)
}

// FetchAll loads the admin list. status filters it; "" lists everything.
func (s *CommitteeService) FetchAll(ctx context.Context, status models.ApplicationStatus, q collection.Query) error {
	return s.loadAll.Load(ctx, q.WithFilter("status", string(status)))
}

func (s *CommitteeService) Apply(ctx context.Context, reason string) (models.CommitteeApplication, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.CommitteeApplication{}, ErrReasonRequired
	}
	return s.apply.Mutate(ctx, reason)
}

func (s *CommitteeService) Cancel(ctx context.Context, id int64) error {
	_, err := s.cancel.Mutate(ctx, id)
	return err
}

func (s *CommitteeService) Review(ctx context.Context, id int64, approved bool, comment string) error {
	_, err := s.review.Mutate(ctx, applicationReview{
		id:  id,
		req: models.ReviewApplicationRequest{Approved: approved, Comment: strings.TrimSpace(comment)},
	})
	return err
}

func (s *CommitteeService) PendingCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *CommitteeService) RefreshPendingCount(ctx context.Context) (int64, error) {
	n, err := s.api.PendingApplicationCount(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.pending = max(n, 0)
	s.mu.Unlock()
	return n, nil
}

func (s *CommitteeService) Reset() {
	s.loadMine.Invalidate()
	s.loadAll.Invalidate()
	s.mine.Reset()
	s.all.Reset()
	s.mu.Lock()
	s.pending = 0
	s.mu.Unlock()
}

// setStatus moves a loaded application out of pending. Leaving pending also
// lowers the pending counter.
func (s *CommitteeService) setStatus(store *collection.Store[models.CommitteeApplication], id int64, status models.ApplicationStatus, comment string) applicationSnapshot {
	at := s.now()
	prev, ok := store.Update(id, func(a models.CommitteeApplication) models.CommitteeApplication {
		a.Status = status
		a.UpdatedAt = at
		if status != models.ApplicationCancelled {
			a.ReviewedAt = &at
			a.ReviewComment = comment
		}
		return a
	})
	snap := applicationSnapshot{prev: prev, found: ok}
	if ok && prev.Status == models.ApplicationPending {
		s.mu.Lock()
		if s.pending > 0 {
			s.pending--
			snap.decremented = true
		}
		s.mu.Unlock()
	}
	return snap
}

func (s *CommitteeService) restore(store *collection.Store[models.CommitteeApplication], id int64, snap applicationSnapshot) {
	if !snap.found {
		return
	}
	store.Update(id, func(models.CommitteeApplication) models.CommitteeApplication { return snap.prev })
	if snap.decremented {
		s.mu.Lock()
		s.pending++
		s.mu.Unlock()
	}
}
