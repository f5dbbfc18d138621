package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingomate/backend/internal/domain/entity"
	"github.com/lingomate/backend/internal/domain/repository"
	"github.com/lingomate/backend/pkg/helpers"
)

// fakeRepo is an in-memory UserRepository with the same contract as the
// postgres implementation: Create hashes the password and enforces email
// uniqueness, UpdateByID merges non-nil fields.
type fakeRepo struct {
	users       map[string]*entity.User // by id
	nextID      int
	createCalls int
	updateCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*entity.User{}}
}

func (r *fakeRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	hash, err := helpers.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hash
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	r.createCalls++
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRepo) UpdateByID(_ context.Context, id string, p repository.UpdateUserParams) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.NativeLanguage != nil {
		u.NativeLanguage = *p.NativeLanguage
	}
	if p.LearningLanguage != nil {
		u.LearningLanguage = *p.LearningLanguage
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.ProfilePic != nil {
		u.ProfilePic = *p.ProfilePic
	}
	if p.IsOnboarded != nil {
		u.IsOnboarded = *p.IsOnboarded
	}
	u.UpdatedAt = time.Now()
	r.updateCalls++
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) VerifyPassword(u *entity.User, candidate string) bool {
	return helpers.CompareHashAndPassword(u.Password, candidate)
}

type identity struct {
	id, name, image string
}

type fakeDirectory struct {
	upserts []identity
	err     error
}

func (d *fakeDirectory) UpsertIdentity(_ context.Context, id, name, image string) error {
	if d.err != nil {
		return d.err
	}
	d.upserts = append(d.upserts, identity{id: id, name: name, image: image})
	return nil
}

func (d *fakeDirectory) CreateUserToken(userID string) (string, error) {
	return "provider-token-" + userID, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(repo repository.UserRepository, dir Directory) *Service {
	return NewService(repo, dir, quietLogger(), nil, false, nil, "", nil, "")
}

func signup(t *testing.T, svc *Service) *entity.User {
	t.Helper()
	u, err := svc.Signup(context.Background(), SignupInput{
		FullName: "Ana",
		Email:    "ana@test.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	return u
}

func TestSignupCreatesUser(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDirectory{}
	svc := newTestService(repo, dir)

	u := signup(t, svc)

	assert.Equal(t, "ana@test.com", u.Email)
	assert.Equal(t, "Ana", u.FullName)
	assert.False(t, u.IsOnboarded)
	assert.NotEqual(t, "secret1", u.Password)
	assert.True(t, strings.HasPrefix(u.ProfilePic, "https://api.dicebear.com/"))

	require.Len(t, dir.upserts, 1)
	assert.Equal(t, identity{id: u.ID, name: "Ana", image: u.ProfilePic}, dir.upserts[0])
}

func TestSignupValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		in   SignupInput
		want error
	}{
		{"all empty", SignupInput{}, ErrFieldsRequired},
		{"missing name", SignupInput{Email: "a@b.co", Password: "secret1"}, ErrFieldsRequired},
		{"missing email", SignupInput{FullName: "Ana", Password: "secret1"}, ErrFieldsRequired},
		{"missing password", SignupInput{FullName: "Ana", Email: "a@b.co"}, ErrFieldsRequired},
		// a short password is reported before the malformed email
		{"short password bad email", SignupInput{FullName: "Ana", Email: "nope", Password: "abc"}, ErrPasswordTooShort},
		{"no at sign", SignupInput{FullName: "Ana", Email: "plainaddress", Password: "secret1"}, ErrInvalidEmail},
		{"no dot in domain", SignupInput{FullName: "Ana", Email: "a@nodot", Password: "secret1"}, ErrInvalidEmail},
		{"space in local part", SignupInput{FullName: "Ana", Email: "a b@test.com", Password: "secret1"}, ErrInvalidEmail},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(repo, &fakeDirectory{})
			_, err := svc.Signup(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, repo.createCalls, "no record may be created on validation failure")
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{})

	signup(t, svc)
	_, err := svc.Signup(context.Background(), SignupInput{
		FullName: "Ana Again",
		Email:    "ana@test.com",
		Password: "secret2",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, repo.createCalls)
}

func TestSignupDirectoryFailureIsNonFatal(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{err: errors.New("provider down")})

	u := signup(t, svc)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, 1, repo.createCalls)
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{})
	created := signup(t, svc)

	u, err := svc.Login(context.Background(), "ana@test.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
}

func TestLoginGenericError(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{})
	signup(t, svc)

	_, unknownErr := svc.Login(context.Background(), "nobody@test.com", "secret1")
	_, wrongErr := svc.Login(context.Background(), "ana@test.com", "wrong")

	// unknown email and wrong password must be indistinguishable
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
}

func TestLoginMissingInput(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeDirectory{})
	_, err := svc.Login(context.Background(), "", "secret1")
	assert.ErrorIs(t, err, ErrCredentialsRequired)
	_, err = svc.Login(context.Background(), "ana@test.com", "")
	assert.ErrorIs(t, err, ErrCredentialsRequired)
}

func TestOnboardMissingFieldsOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{})
	u := signup(t, svc)

	_, err := svc.Onboard(context.Background(), u.ID, OnboardInput{FullName: "Ana"})
	var mf *MissingFieldsError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, []string{"bio", "nativeLanguage", "learningLanguage", "location"}, mf.Fields)
	assert.Zero(t, repo.updateCalls, "validation failure must not mutate the record")

	_, err = svc.Onboard(context.Background(), u.ID, OnboardInput{})
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, []string{"fullName", "bio", "nativeLanguage", "learningLanguage", "location"}, mf.Fields)
}

func TestOnboardCompletesProfile(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDirectory{}
	svc := newTestService(repo, dir)
	created := signup(t, svc)

	u, err := svc.Onboard(context.Background(), created.ID, OnboardInput{
		FullName:         "Ana Silva",
		Bio:              "Learning German",
		NativeLanguage:   "Portuguese",
		LearningLanguage: "German",
		Location:         "Lisbon",
	})
	require.NoError(t, err)
	assert.True(t, u.IsOnboarded)
	assert.Equal(t, "Ana Silva", u.FullName)
	assert.Equal(t, "Lisbon", u.Location)

	// signup + onboarding both mirror the identity
	require.Len(t, dir.upserts, 2)
	assert.Equal(t, "Ana Silva", dir.upserts[1].name)
}

func TestOnboardUnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeDirectory{})
	_, err := svc.Onboard(context.Background(), "missing-id", OnboardInput{
		FullName:         "Ana",
		Bio:              "bio",
		NativeLanguage:   "pt",
		LearningLanguage: "de",
		Location:         "Lisbon",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{})
	created := signup(t, svc)

	u, err := svc.GetProfile(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, u.Email)

	_, err = svc.GetProfile(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChatToken(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeDirectory{})
	tok, err := svc.ChatToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, "provider-token-user-1", tok)
}

func TestChatTokenWithoutDirectory(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	_, err := svc.ChatToken("user-1")
	assert.Error(t, err)
}
