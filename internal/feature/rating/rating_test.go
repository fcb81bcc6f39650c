package rating

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsportal/internal/domain"
	"newsportal/internal/repo/repotest"
)

func TestSubmitRejectsOutOfRange(t *testing.T) {
	s := repotest.NewStore(t)
	a := New(s)
	u := repotest.User(t, s, domain.RoleUser)
	p := repotest.Post(t, s, u.ID, "")

	for _, v := range []int{0, 6, -1} {
		_, err := a.Submit(context.Background(), u.ID, p.ID, v)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "value %d", v)
	}
	n, err := s.Ratings().CountByPost(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmitTwiceKeepsLastValue(t *testing.T) {
	s := repotest.NewStore(t)
	a := New(s)
	ctx := context.Background()
	u := repotest.User(t, s, domain.RoleUser)
	p := repotest.Post(t, s, u.ID, "")

	first, err := a.Submit(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)
	second, err := a.Submit(ctx, u.ID, p.ID, 5)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Value)

	sum, err := a.Summary(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.Count)
	assert.InDelta(t, 5.0, sum.Average, 1e-9)
}

func TestAverage(t *testing.T) {
	s := repotest.NewStore(t)
	a := New(s)
	ctx := context.Background()
	author := repotest.User(t, s, domain.RoleAdmin)
	p := repotest.Post(t, s, author.ID, "")

	avg, err := a.Average(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)

	for _, v := range []int{4, 5} {
		u := repotest.User(t, s, domain.RoleUser)
		_, err := a.Submit(ctx, u.ID, p.ID, v)
		require.NoError(t, err)
	}
	avg, err = a.Average(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 1e-9)
}

func TestSummariesFillsUnrated(t *testing.T) {
	s := repotest.NewStore(t)
	a := New(s)
	ctx := context.Background()
	u := repotest.User(t, s, domain.RoleUser)
	rated := repotest.Post(t, s, u.ID, "")
	unrated := repotest.Post(t, s, u.ID, "")
	_, err := a.Submit(ctx, u.ID, rated.ID, 2)
	require.NoError(t, err)

	got, err := a.Summaries(ctx, []string{rated.ID, unrated.ID})
	require.NoError(t, err)
	assert.Equal(t, Summary{PostID: rated.ID, Average: 2, Count: 1}, got[rated.ID])
	assert.Equal(t, Summary{PostID: unrated.ID}, got[unrated.ID])
}

func TestUserRating(t *testing.T) {
	s := repotest.NewStore(t)
	a := New(s)
	ctx := context.Background()
	u := repotest.User(t, s, domain.RoleUser)
	p := repotest.Post(t, s, u.ID, "")

	v, err := a.UserRating(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = a.Submit(ctx, u.ID, p.ID, 4)
	require.NoError(t, err)
	v, err = a.UserRating(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 4, *v)

	v, err = a.UserRating(ctx, "", p.ID)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestConcurrentSubmitsLeaveOneRow(t *testing.T) {
	s := repotest.NewStore(t)
	a := New(s)
	ctx := context.Background()
	u := repotest.User(t, s, domain.RoleUser)
	p := repotest.Post(t, s, u.ID, "")

	var wg sync.WaitGroup
	for v := 1; v <= 5; v++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_, err := a.Submit(ctx, u.ID, p.ID, v)
			assert.NoError(t, err)
		}(v)
	}
	wg.Wait()

	n, err := s.Ratings().CountByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
