package post

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neighborly/neighborly-api/internal/domain/contentfilter"
	"github.com/neighborly/neighborly-api/internal/domain/ratelimit"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/domain/user/usertest"
	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
)

type memRepo struct {
	posts    map[uuid.UUID]*Post
	comments []*Comment
}

func newMemRepo() *memRepo { return &memRepo{posts: map[uuid.UUID]*Post{}} }

func (m *memRepo) Create(_ context.Context, p *Post) error {
	m.posts[p.ID] = p
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) CreateComment(_ context.Context, c *Comment) error {
	m.comments = append(m.comments, c)
	m.posts[c.PostID].CommentCount++
	return nil
}

type zipcodes map[string]bool

func (z zipcodes) IsZipcodeAllowed(_ context.Context, zip string) (bool, error) {
	return z[zip], nil
}

type blocks map[[2]uuid.UUID]bool

func (b blocks) IsBlocked(_ context.Context, x, y uuid.UUID) (bool, error) {
	return b[[2]uuid.UUID{x, y}] || b[[2]uuid.UUID{y, x}], nil
}

type fixture struct {
	svc     *Service
	repo    *memRepo
	limiter *usertest.Limiter
	blocks  blocks
	parent  *user.User
	teen    *user.User
}

func newFixture() *fixture {
	f := &fixture{
		repo:    newMemRepo(),
		limiter: &usertest.Limiter{},
		blocks:  blocks{},
		parent:  usertest.Parent("Dana"),
	}
	f.teen = usertest.Teen("Sam", f.parent)
	users := usertest.NewRepo(f.parent, f.teen)
	filters := contentfilter.Static{F: contentfilter.New(contentfilter.Blocklists{Profanity: []string{"shit"}})}
	f.svc = NewService(f.repo, users.Guard(), f.limiter, filters, zipcodes{"94110": true}, f.blocks)
	return f
}

func intp(v int) *int { return &v }

func offerRequest() *CreatePostRequest {
	return &CreatePostRequest{
		Type:              TypeOffer,
		Title:             "  Dog   walking  after school ",
		Description:       "Happy to walk dogs in the neighborhood",
		ServiceType:       "pet_care",
		PriceType:         PriceHourly,
		PriceMin:          intp(10),
		PriceMax:          intp(15),
		DeliveryMode:      "in_person",
		MeetingPreference: "requester_home",
		Zipcode:           "94110",
	}
}

func TestCreatePostOffer(t *testing.T) {
	f := newFixture()
	ctx := usertest.As(context.Background(), f.teen)

	res, err := f.svc.CreatePost(ctx, offerRequest())
	require.NoError(t, err)
	assert.True(t, res.OK)

	p := f.repo.posts[res.PostID]
	require.NotNil(t, p)
	assert.Equal(t, "Dog walking after school", p.Title)
	assert.Equal(t, user.Snapshot{UserID: f.teen.ID, DisplayName: "Sam", Role: user.RoleTeen}, p.AuthorSnapshot)
	assert.True(t, p.IsActive)
	assert.Equal(t, int64(10), p.PriceMin.Int64)
	assert.Equal(t, []string{ratelimit.RuleCreatePost.Action}, f.limiter.Actions)
}

func TestCreatePostRoleMatchesType(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreatePost(usertest.As(context.Background(), f.parent), offerRequest())
	assert.True(t, errors.Is(err, ErrOfferRequiresTeen))

	req := offerRequest()
	req.Type = TypeRequest
	_, err = f.svc.CreatePost(usertest.As(context.Background(), f.teen), req)
	assert.True(t, errors.Is(err, ErrRequestRequiresParent))
}

func TestCreatePostPriceRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreatePostRequest)
		wantErr error
	}{
		{"free ignores bounds", func(r *CreatePostRequest) { r.PriceType = PriceFree; r.PriceMin, r.PriceMax = nil, nil }, nil},
		{"missing bounds", func(r *CreatePostRequest) { r.PriceMax = nil }, ErrPriceRequired},
		{"negative min", func(r *CreatePostRequest) { r.PriceMin = intp(-1) }, ErrInvalidPriceRange},
		{"min above max", func(r *CreatePostRequest) { r.PriceMin = intp(20) }, ErrInvalidPriceRange},
		{"equal bounds", func(r *CreatePostRequest) { r.PriceMin = intp(15) }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := offerRequest()
			tt.mutate(req)
			_, err := f.svc.CreatePost(usertest.As(context.Background(), f.teen), req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestCreatePostZipcodeGate(t *testing.T) {
	f := newFixture()
	req := offerRequest()
	req.Zipcode = "10001"

	_, err := f.svc.CreatePost(usertest.As(context.Background(), f.teen), req)
	assert.True(t, errors.Is(err, ErrZipcodeNotAllowed))
	assert.Empty(t, f.repo.posts)
}

func TestCreatePostFiltersText(t *testing.T) {
	f := newFixture()
	req := offerRequest()
	req.Description = "email me at sam@example.com"

	_, err := f.svc.CreatePost(usertest.As(context.Background(), f.teen), req)
	require.Error(t, err)
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, apperr.CodeInvalidArgument, ae.Code)
	assert.Equal(t, "description", ae.Details["field"])
	assert.Equal(t, string(contentfilter.CodePII), ae.Details["filter_code"])
}

func TestCreatePostRateLimited(t *testing.T) {
	f := newFixture()
	f.limiter.Err = ratelimit.ErrRateLimited

	_, err := f.svc.CreatePost(usertest.As(context.Background(), f.teen), offerRequest())
	assert.Equal(t, apperr.CodeResourceExhausted, apperr.CodeOf(err))
	assert.Empty(t, f.repo.posts)
}

func seedPost(f *fixture, active bool) *Post {
	p := &Post{ID: uuid.New(), AuthorID: f.teen.ID, Type: TypeOffer, IsActive: active}
	f.repo.posts[p.ID] = p
	return p
}

func TestCreateComment(t *testing.T) {
	f := newFixture()
	p := seedPost(f, true)

	res, err := f.svc.CreateComment(usertest.As(context.Background(), f.parent), &CreateCommentRequest{PostID: p.ID, Text: " Is Saturday ok? "})
	require.NoError(t, err)
	require.Len(t, f.repo.comments, 1)
	assert.Equal(t, res.CommentID, f.repo.comments[0].ID)
	assert.Equal(t, "Is Saturday ok?", f.repo.comments[0].Text)
	assert.Equal(t, 1, f.repo.posts[p.ID].CommentCount)
}

func TestCreateCommentPreconditions(t *testing.T) {
	f := newFixture()
	ctx := usertest.As(context.Background(), f.parent)

	_, err := f.svc.CreateComment(ctx, &CreateCommentRequest{PostID: uuid.New(), Text: "hi"})
	assert.True(t, errors.Is(err, ErrPostNotFound))

	inactive := seedPost(f, false)
	_, err = f.svc.CreateComment(ctx, &CreateCommentRequest{PostID: inactive.ID, Text: "hi"})
	assert.True(t, errors.Is(err, ErrPostInactive))

	active := seedPost(f, true)
	f.blocks[[2]uuid.UUID{f.teen.ID, f.parent.ID}] = true
	_, err = f.svc.CreateComment(ctx, &CreateCommentRequest{PostID: active.ID, Text: "hi"})
	assert.True(t, errors.Is(err, ErrBlockedRelation))

	_, err = f.svc.CreateComment(ctx, &CreateCommentRequest{PostID: active.ID, Text: "   "})
	assert.True(t, errors.Is(err, ErrCommentEmpty))
}

func TestCreateCommentBlocklist(t *testing.T) {
	f := newFixture()
	p := seedPost(f, true)

	_, err := f.svc.CreateComment(usertest.As(context.Background(), f.parent), &CreateCommentRequest{PostID: p.ID, Text: "sh1t happens"})
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	assert.Empty(t, f.repo.comments)
}
