package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsportal/internal/core/auth"
	"newsportal/internal/domain"
	"newsportal/internal/repo"
	"newsportal/internal/repo/repotest"
)

type fixture struct {
	svc     *Service
	store   *repo.Store
	jwt     *auth.JWTer
	revoker *auth.MemoryRevoker
	admin   *domain.Principal
	alice   *domain.Principal
	bob     *domain.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repotest.NewStore(t)
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "newsportal", TTL: time.Hour}
	rv := auth.NewMemoryRevoker(128, time.Hour)
	principal := func(role domain.Role) *domain.Principal {
		u := repotest.User(t, store, role)
		return &domain.Principal{ID: u.ID, Role: u.Role}
	}
	return &fixture{
		svc:     New(store, j, rv, nil),
		store:   store,
		jwt:     j,
		revoker: rv,
		admin:   principal(domain.RoleAdmin),
		alice:   principal(domain.RoleUser),
		bob:     principal(domain.RoleUser),
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"World News":         "world-news",
		"  Tech \t  Review ": "tech-review",
		"ECONOMY":            "economy",
		"":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
	assert.Equal(t, "custom", resolveSlug("  custom ", "Ignored Name"))
}

func TestCreateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.CreateCategory(ctx, f.admin, CategoryInput{Name: " World News "})
	require.NoError(t, err)
	assert.Equal(t, "World News", c.Name)
	assert.Equal(t, "world-news", c.Slug)

	_, err = f.svc.CreateCategory(ctx, f.admin, CategoryInput{Name: "Other", Slug: "world-news"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.CreateCategory(ctx, f.admin, CategoryInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, msgMissingFields, domain.Message(err))
}

func TestAuthorizationPrecedesValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateCategory(ctx, f.alice, CategoryInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.CreateCategory(ctx, nil, CategoryInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.CreatePost(ctx, f.alice, PostInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.CreateComment(ctx, nil, CommentInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = f.svc.SubmitRating(ctx, nil, RatingInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUpdateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.CreateCategory(ctx, f.admin, CategoryInput{Name: "Alpha"})
	require.NoError(t, err)
	_, err = f.svc.CreateCategory(ctx, f.admin, CategoryInput{Name: "Beta"})
	require.NoError(t, err)

	_, err = f.svc.UpdateCategory(ctx, f.admin, a.ID, CategoryInput{Name: "Alpha", Slug: "beta"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.svc.UpdateCategory(ctx, f.admin, a.ID, CategoryInput{Name: "Alpha Prime"})
	require.NoError(t, err)
	assert.Equal(t, "alpha-prime", got.Slug)

	_, err = f.svc.UpdateCategory(ctx, f.admin, "missing", CategoryInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostPublishLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePost(ctx, f.admin, PostInput{Title: "Draft", Content: "text"})
	require.NoError(t, err)
	assert.False(t, p.Published)
	assert.Nil(t, p.PublishedAt)
	assert.Equal(t, f.admin.ID, p.AuthorID)

	p, err = f.svc.UpdatePost(ctx, f.admin, p.ID, PostInput{Title: "Live", Content: "text", Published: true})
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)
	first := *p.PublishedAt

	p, err = f.svc.UpdatePost(ctx, f.admin, p.ID, PostInput{Title: "Live again", Content: "text", Published: true})
	require.NoError(t, err)
	assert.True(t, first.Equal(*p.PublishedAt))

	p, err = f.svc.UpdatePost(ctx, f.admin, p.ID, PostInput{Title: "Pulled", Content: "text"})
	require.NoError(t, err)
	assert.Nil(t, p.PublishedAt)

	_, err = f.svc.UpdatePost(ctx, f.admin, "missing", PostInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePost(ctx, f.admin, PostInput{Title: "no body"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := "nope"
	_, err = f.svc.CreatePost(ctx, f.admin, PostInput{Title: "t", Content: "c", CategoryID: &missing})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	raw := "hello<script>alert(1)</script>\n\n> quoted\n\nUse `a < b && c`"
	p, err := f.svc.CreatePost(ctx, f.admin, PostInput{Title: "t", Content: raw, Published: true})
	require.NoError(t, err)
	assert.Equal(t, raw, p.Content)

	d, err := f.svc.Article(ctx, nil, p.ID)
	require.NoError(t, err)
	assert.NotContains(t, d.ContentHTML, "<script>")
	assert.Contains(t, d.ContentHTML, "<blockquote>")
	assert.Contains(t, d.ContentHTML, "<code>a &lt; b &amp;&amp; c</code>")
}

func TestCommentOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := repotest.Post(t, f.store, f.admin.ID, "")

	c, err := f.svc.CreateComment(ctx, f.alice, CommentInput{PostID: post.ID, Content: "<b>first</b>"})
	require.NoError(t, err)
	assert.Equal(t, "<b>first</b>", c.Content)

	_, err = f.svc.UpdateComment(ctx, f.bob, c.ID, "hijack")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.UpdateComment(ctx, nil, c.ID, "anon")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = f.svc.UpdateComment(ctx, f.alice, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.svc.UpdateComment(ctx, f.alice, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	assert.ErrorIs(t, f.svc.DeleteComment(ctx, f.bob, c.ID), domain.ErrForbidden)
	require.NoError(t, f.svc.DeleteComment(ctx, f.admin, c.ID))
	assert.ErrorIs(t, f.svc.DeleteComment(ctx, f.alice, c.ID), domain.ErrNotFound)
}

func TestCommentTextStoredVerbatim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := repotest.Post(t, f.store, f.admin.ID, "")
	text := `Tom's "x" & 5 < 6`

	c, err := f.svc.CreateComment(ctx, f.alice, CommentInput{PostID: post.ID, Content: "  " + text + "\n"})
	require.NoError(t, err)
	assert.Equal(t, text, c.Content)

	got, err := f.svc.UpdateComment(ctx, f.alice, c.ID, c.Content)
	require.NoError(t, err)
	assert.Equal(t, text, got.Content)

	mine, err := f.svc.MyComments(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, text, mine[0].Content)
}

func TestCreateCommentRequiresPost(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateComment(context.Background(), f.alice, CommentInput{PostID: "ghost", Content: "hi"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.CreateComment(context.Background(), f.alice, CommentInput{PostID: "ghost", Content: "  \n "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, msgMissingFields, domain.Message(err))
}

func TestSubmitRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := repotest.Post(t, f.store, f.admin.ID, "")

	res, err := f.svc.SubmitRating(ctx, f.alice, RatingInput{PostID: post.ID, Value: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Rating.Value)
	assert.EqualValues(t, 1, res.Summary.Count)

	res, err = f.svc.SubmitRating(ctx, f.bob, RatingInput{PostID: post.ID, Value: 2})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, res.Summary.Average, 1e-9)

	_, err = f.svc.SubmitRating(ctx, f.alice, RatingInput{PostID: post.ID, Value: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.svc.SubmitRating(ctx, f.alice, RatingInput{PostID: post.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.svc.SubmitRating(ctx, f.alice, RatingInput{PostID: "ghost", Value: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "rating must be between 1 and 5", domain.Message(err))
	_, err = f.svc.SubmitRating(ctx, f.alice, RatingInput{PostID: "ghost", Value: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterLoginLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, nil, RegisterInput{Name: "Olena", Email: " Olena@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "olena@example.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	_, err = f.svc.Register(ctx, nil, RegisterInput{Name: "Again", Email: "olena@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.svc.Register(ctx, nil, RegisterInput{Name: "Short", Email: "s@example.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Login(ctx, LoginInput{Email: "olena@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = f.svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	res, err := f.svc.Login(ctx, LoginInput{Email: "OLENA@example.com", Password: "secret1"})
	require.NoError(t, err)
	claims, err := f.jwt.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UID)

	require.NoError(t, f.svc.Logout(ctx, claims.Principal(), claims.ID, claims.Remaining()))
	revoked, err := f.revoker.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, f.svc.Logout(ctx, nil, claims.ID, time.Minute), domain.ErrUnauthenticated)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := repotest.Post(t, f.store, f.alice.ID, "")
	repotest.Comment(t, f.store, f.alice.ID, post.ID)

	v, err := f.svc.Profile(ctx, f.alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v.PostCount)
	assert.EqualValues(t, 1, v.CommentCount)

	u, err := f.svc.UpdateProfile(ctx, f.alice, ProfileInput{Name: "Alice", Bio: "<i>hi</i>", BannerColor: "#fff"})
	require.NoError(t, err)
	assert.Equal(t, "<i>hi</i>", u.Bio)

	_, err = f.svc.UpdateProfile(ctx, f.alice, ProfileInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	mine, err := f.svc.MyComments(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, post.Title, mine[0].PostTitle)
}

func TestAdminUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Users(ctx, f.alice, UserQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	page, err := f.svc.Users(ctx, f.admin, UserQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, DefaultLimit, page.Limit)

	_, err = f.svc.UpdateUser(ctx, f.admin, f.bob.ID, UserUpdateInput{Name: "Bob", Role: "ROOT"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.svc.UpdateUser(ctx, f.admin, f.bob.ID, UserUpdateInput{Name: "Bob"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.svc.UpdateUser(ctx, f.admin, "missing", UserUpdateInput{Name: "Bob", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	u, err := f.svc.UpdateUser(ctx, f.admin, f.bob.ID, UserUpdateInput{Name: "Bob", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	_, err = f.svc.DeleteUser(ctx, f.admin, f.bob.ID)
	require.NoError(t, err)
	_, err = f.svc.User(ctx, f.admin, f.bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewsAndArticle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tech, err := f.svc.CreateCategory(ctx, f.admin, CategoryInput{Name: "Technology"})
	require.NoError(t, err)

	live, err := f.svc.CreatePost(ctx, f.admin, PostInput{Title: "Live", Content: "**bold** news", Published: true, CategoryID: &tech.ID})
	require.NoError(t, err)
	draft, err := f.svc.CreatePost(ctx, f.admin, PostInput{Title: "Draft", Content: "soon", CategoryID: &tech.ID})
	require.NoError(t, err)
	_, err = f.svc.CreatePost(ctx, f.admin, PostInput{Title: "Elsewhere", Content: "x", Published: true})
	require.NoError(t, err)

	page, err := f.svc.News(ctx, nil, NewsQuery{Category: "technology"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "technology", page.Items[0].CategorySlug)

	page, err = f.svc.News(ctx, nil, NewsQuery{Category: "unknown"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = f.svc.Article(ctx, nil, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Article(ctx, f.admin, draft.ID)
	assert.NoError(t, err)

	_, err = f.svc.SubmitRating(ctx, f.alice, RatingInput{PostID: live.ID, Value: 5})
	require.NoError(t, err)
	_, err = f.svc.CreateComment(ctx, f.bob, CommentInput{PostID: live.ID, Content: "great"})
	require.NoError(t, err)

	d, err := f.svc.Article(ctx, f.alice, live.ID)
	require.NoError(t, err)
	assert.Contains(t, d.ContentHTML, "<strong>bold</strong>")
	require.NotNil(t, d.MyRating)
	assert.Equal(t, 5, *d.MyRating)
	assert.EqualValues(t, 1, d.Rating.Count)
	require.Len(t, d.Comments, 1)
	assert.EqualValues(t, 1, d.CommentCount)

	anon, err := f.svc.Article(ctx, nil, live.ID)
	require.NoError(t, err)
	assert.Nil(t, anon.MyRating)

	cats, err := f.svc.Categories(ctx, nil)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.EqualValues(t, 1, cats[0].PostCount)
	cats, err = f.svc.AdminCategories(ctx, f.admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cats[0].PostCount)
}

func TestDeleteCategoryThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.svc.CreateCategory(ctx, f.admin, CategoryInput{Name: "Gone"})
	require.NoError(t, err)
	p, err := f.svc.CreatePost(ctx, f.admin, PostInput{Title: "t", Content: "c", CategoryID: &c.ID})
	require.NoError(t, err)

	_, err = f.svc.DeleteCategory(ctx, f.alice, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	rep, err := f.svc.DeleteCategory(ctx, f.admin, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rep.Relinked)

	got, err := f.svc.AdminPost(ctx, f.admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FallbackCategorySlug, got.CategorySlug)
}

func TestSeedIsIdempotent(t *testing.T) {
	store := repotest.NewStore(t)
	ctx := context.Background()
	opt := SeedOptions{AdminEmail: "admin@newsportal.ua", AdminPassword: "admin123", AdminName: "Адміністратор"}

	require.NoError(t, Seed(ctx, store, opt, nil))
	require.NoError(t, Seed(ctx, store, opt, nil))

	cats, err := store.Categories().List(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 3)
	admin, err := store.Users().FindByEmail(ctx, "admin@newsportal.ua")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	_, total, err := store.Users().List(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
