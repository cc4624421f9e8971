package shortlist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neighborly/neighborly-api/internal/domain/contentfilter"
	"github.com/neighborly/neighborly-api/internal/domain/post"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/domain/user/usertest"
)

type memRepo struct {
	rows map[[2]uuid.UUID]*Shortlist
}

func (m *memRepo) CreateOrGet(_ context.Context, s *Shortlist) (*Shortlist, bool, error) {
	key := [2]uuid.UUID{s.TeenID, s.PostID}
	if existing, ok := m.rows[key]; ok {
		return existing, false, nil
	}
	m.rows[key] = s
	return s, true, nil
}

type memPosts map[uuid.UUID]*post.Post

func (m memPosts) GetByID(_ context.Context, id uuid.UUID) (*post.Post, error) {
	return m[id], nil
}

type noBlocks struct{}

func (noBlocks) IsBlocked(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return false, nil }

type fixture struct {
	svc    *Service
	repo   *memRepo
	parent *user.User
	teen   *user.User
	orphan *user.User
	post   *post.Post
}

func newFixture() *fixture {
	f := &fixture{repo: &memRepo{rows: map[[2]uuid.UUID]*Shortlist{}}, parent: usertest.Parent("Dana")}
	f.teen = usertest.Teen("Sam", f.parent)
	f.orphan = usertest.Teen("Alex", nil)
	provider := usertest.Teen("Riley", nil)
	f.post = &post.Post{ID: uuid.New(), AuthorID: provider.ID, Type: post.TypeOffer, IsActive: true}

	users := usertest.NewRepo(f.parent, f.teen, f.orphan, provider)
	filters := contentfilter.Static{F: contentfilter.New(contentfilter.Blocklists{})}
	f.svc = NewService(f.repo, memPosts{f.post.ID: f.post}, users.Guard(), &usertest.Limiter{}, filters, noBlocks{})
	return f
}

func TestCreateShortlistIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := usertest.As(context.Background(), f.teen)

	first, err := f.svc.CreateShortlist(ctx, &CreateRequest{PostID: f.post.ID, Note: "Could help with the yard"})
	require.NoError(t, err)
	assert.False(t, first.AlreadyShortlisted)

	second, err := f.svc.CreateShortlist(ctx, &CreateRequest{PostID: f.post.ID})
	require.NoError(t, err)
	assert.True(t, second.AlreadyShortlisted)
	assert.Equal(t, first.ShortlistID, second.ShortlistID)

	saved := f.repo.rows[[2]uuid.UUID{f.teen.ID, f.post.ID}]
	assert.Equal(t, f.parent.ID, saved.ParentID)
}

func TestCreateShortlistRequiresLinkedParent(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateShortlist(usertest.As(context.Background(), f.orphan), &CreateRequest{PostID: f.post.ID})
	assert.True(t, errors.Is(err, ErrNoLinkedParent))
}

func TestCreateShortlistTeenOnly(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateShortlist(usertest.As(context.Background(), f.parent), &CreateRequest{PostID: f.post.ID})
	assert.True(t, errors.Is(err, user.ErrRoleNotAllowed))
}

func TestCreateShortlistInactivePost(t *testing.T) {
	f := newFixture()
	f.post.IsActive = false

	_, err := f.svc.CreateShortlist(usertest.As(context.Background(), f.teen), &CreateRequest{PostID: f.post.ID})
	assert.True(t, errors.Is(err, post.ErrPostInactive))
}
