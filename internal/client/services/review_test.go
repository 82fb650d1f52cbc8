package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
)

func loadedReview(t *testing.T, api *fakeAPI) *ReviewService {
	t.Helper()
	api.pending = collection.Page[models.Material]{
		Items: []models.Material{{ID: 10}, {ID: 11}, {ID: 12}},
		Total: 30,
		Page:  1,
		Size:  3,
	}
	s := NewReviewService(api, nil, 3)
	require.NoError(t, s.FetchPending(context.Background(), collection.NewQuery(3)))
	return s
}

func reviewIDs(s *ReviewService) []int64 {
	var out []int64
	for _, m := range s.Store().Items() {
		out = append(out, m.ID)
	}
	return out
}

func TestReview_ApproveRemovesFromQueue(t *testing.T) {
	api := newFakeAPI()
	s := loadedReview(t, api)

	require.NoError(t, s.Approve(context.Background(), 11))
	assert.Equal(t, []int64{10, 12}, reviewIDs(s))
	assert.EqualValues(t, 29, s.Store().Total())

	require.Len(t, api.reviewed, 1)
	assert.Equal(t, models.MaterialApproved, api.reviewed[0].Status)
}

func TestReview_RejectRequiresReason(t *testing.T) {
	api := newFakeAPI()
	s := loadedReview(t, api)

	require.ErrorIs(t, s.Reject(context.Background(), 10, "  "), ErrReasonRequired)
	assert.Equal(t, []int64{10, 11, 12}, reviewIDs(s))

	require.NoError(t, s.Reject(context.Background(), 10, "blurry scan"))
	require.Len(t, api.reviewed, 1)
	assert.Equal(t, models.MaterialRejected, api.reviewed[0].Status)
	assert.Equal(t, "blurry scan", api.reviewed[0].RejectionReason)
}

func TestReview_FailurePutsMaterialBack(t *testing.T) {
	api := newFakeAPI()
	s := loadedReview(t, api)
	boom := errors.New("conflict")
	api.fail("ReviewMaterial", boom)

	require.ErrorIs(t, s.Approve(context.Background(), 11), boom)
	assert.Equal(t, []int64{10, 11, 12}, reviewIDs(s))
	assert.EqualValues(t, 30, s.Store().Total())
	assert.False(t, s.Busy())
}

func TestReview_HistoryPagesAndFilters(t *testing.T) {
	api := newFakeAPI()
	api.history = collection.Page[models.ReviewRecord]{
		Items: []models.ReviewRecord{
			{ID: 7, TargetType: models.TargetMaterial, TargetID: 10, Action: models.ReviewApprove},
			{ID: 6, TargetType: models.TargetCommittee, TargetID: 3, Action: models.ReviewReject, Comment: "too short"},
		},
		Total: 5,
		Page:  2,
		Size:  2,
	}
	s := NewReviewService(api, nil, 2)
	ctx := context.Background()

	require.NoError(t, s.FetchHistory(ctx, models.ReviewReject, 2))
	require.Len(t, api.historyQ, 1)
	assert.Equal(t, "reject", api.historyQ[0].Filters["action"])
	assert.Equal(t, 2, api.historyQ[0].Page)

	assert.EqualValues(t, 5, s.History().Total())
	assert.Equal(t, 3, s.History().TotalPages())
	assert.Equal(t, 0, s.Store().Len(), "the pending queue is a separate store")

	require.NoError(t, s.FetchHistory(ctx, "", 1))
	_, has := api.historyQ[1].Filters["action"]
	assert.False(t, has)

	s.Reset()
	assert.Empty(t, s.History().Items())
	assert.EqualValues(t, 0, s.History().Total())
}
