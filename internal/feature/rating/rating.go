// Package rating keeps at most one rating per (user, post) and derives per-post averages.
package rating

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"newsportal/internal/domain"
	"newsportal/internal/repo"
	"newsportal/pkg/utils"
)

var submitted = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "ratings_submitted_total", Help: "Rating submissions by outcome"},
	[]string{"outcome"},
)

func init() { prometheus.MustRegister(submitted) }

// Summary is the aggregate shown next to a post.
type Summary struct {
	PostID  string  `json:"postId"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type Aggregator struct{ store *repo.Store }

func New(s *repo.Store) *Aggregator { return &Aggregator{store: s} }

// Submit records value as userID's rating of postID, replacing any earlier one.
// The caller is responsible for checking that the post exists.
func (a *Aggregator) Submit(ctx context.Context, userID, postID string, value int) (*domain.Rating, error) {
	if value < domain.MinRating || value > domain.MaxRating {
		submitted.WithLabelValues("invalid").Inc()
		return nil, domain.InvalidInput("rating must be between 1 and 5")
	}
	r := &domain.Rating{ID: utils.NewID(), Value: value, UserID: userID, PostID: postID}
	ratings := a.store.Ratings()
	if err := ratings.Upsert(ctx, r); err != nil {
		submitted.WithLabelValues("error").Inc()
		return nil, domain.Internal("save rating", err)
	}
	// On conflict the stored row keeps its original id, so read it back by pair.
	got, err := ratings.FindByPair(ctx, userID, postID)
	if err != nil || got == nil {
		submitted.WithLabelValues("error").Inc()
		return nil, domain.Internal("reload rating", err)
	}
	submitted.WithLabelValues("ok").Inc()
	return got, nil
}

func (a *Aggregator) Average(ctx context.Context, postID string) (float64, error) {
	s, err := a.Summary(ctx, postID)
	if err != nil {
		return 0, err
	}
	return s.Average, nil
}

func (a *Aggregator) Summary(ctx context.Context, postID string) (Summary, error) {
	st, err := a.store.Ratings().Stats(ctx, postID)
	if err != nil {
		return Summary{}, domain.Internal("rating stats", err)
	}
	return summarize(st), nil
}

// Summaries returns one entry per requested post, zero-valued for unrated posts.
func (a *Aggregator) Summaries(ctx context.Context, postIDs []string) (map[string]Summary, error) {
	per, err := a.store.Ratings().StatsPerPost(ctx, postIDs)
	if err != nil {
		return nil, domain.Internal("rating stats", err)
	}
	out := make(map[string]Summary, len(postIDs))
	for _, id := range postIDs {
		st := per[id]
		st.PostID = id
		out[id] = summarize(st)
	}
	return out, nil
}

// UserRating returns userID's rating of postID, or nil when there is none.
func (a *Aggregator) UserRating(ctx context.Context, userID, postID string) (*int, error) {
	if userID == "" {
		return nil, nil
	}
	r, err := a.store.Ratings().FindByPair(ctx, userID, postID)
	if err != nil {
		return nil, domain.Internal("load rating", err)
	}
	if r == nil {
		return nil, nil
	}
	v := r.Value
	return &v, nil
}

func summarize(st repo.RatingStats) Summary {
	s := Summary{PostID: st.PostID, Count: st.N}
	if st.N > 0 {
		s.Average = float64(st.Total) / float64(st.N)
	}
	return s
}
