package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lingomate/backend/internal/domain/entity"
	"github.com/lingomate/backend/internal/domain/repository"
	"github.com/lingomate/backend/pkg/helpers"
	"github.com/lingomate/backend/pkg/mailer"
)

var (
	ErrFieldsRequired      = errors.New("all fields required")
	ErrPasswordTooShort    = errors.New("password too short")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmailTaken          = errors.New("email already exists")
	ErrCredentialsRequired = errors.New("email and password required")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
)

// MissingFieldsError reports which onboarding fields were absent, in the fixed
// check order fullName, bio, nativeLanguage, learningLanguage, location.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing fields: " + strings.Join(e.Fields, ", ")
}

// local-part without whitespace/@, domain with at least one dot
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Directory is the external chat/video provider the user identities are
// mirrored into. Upserts are idempotent; failures are non-fatal to the
// surrounding workflow and only observed for logging.
type Directory interface {
	UpsertIdentity(ctx context.Context, id, displayName, imageURL string) error
	CreateUserToken(userID string) (string, error)
}

// Service orchestrates the signup, login, and onboarding workflows.
// Optional collaborators (Directory, Pub, ES, GCS, Logger) may be nil; the
// features they back degrade to no-ops.
type Service struct {
	Repo         repository.UserRepository
	Directory    Directory
	Logger       *logrus.Logger
	Pub          *helpers.RabbitPublisher
	MailEnabled  bool
	ES           *elasticsearch.Client
	ESUsersIndex string
	GCS          *storage.Client
	GCSBucket    string
}

func NewService(repo repository.UserRepository, dir Directory, logger *logrus.Logger, pub *helpers.RabbitPublisher, mailEnabled bool, es *elasticsearch.Client, esUsersIndex string, gcs *storage.Client, gcsBucket string) *Service {
	return &Service{
		Repo:         repo,
		Directory:    dir,
		Logger:       logger,
		Pub:          pub,
		MailEnabled:  mailEnabled,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
	}
}

type SignupInput struct {
	FullName string
	Email    string
	Password string
}

// Signup validates the input (first failure wins), creates the user with a
// generated avatar, and mirrors the new identity into the directory. The
// created record is kept even if downstream steps fail.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	if in.Email == "" || in.Password == "" || in.FullName == "" {
		return nil, ErrFieldsRequired
	}
	if len(in.Password) < 6 {
		return nil, ErrPasswordTooShort
	}
	if !emailRe.MatchString(in.Email) {
		return nil, ErrInvalidEmail
	}

	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	seed, err := helpers.RandomSeed()
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:      in.Email,
		Password:   in.Password,
		FullName:   in.FullName,
		ProfilePic: helpers.DefaultAvatarURL(seed),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// Concurrent signup with the same email can slip past the lookup above;
		// the unique constraint is the authority.
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.syncDirectory(ctx, u)
	s.enqueueWelcomeEmail(ctx, u)
	s.indexUser(ctx, u)
	return u, nil
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, error) {
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.Repo.VerifyPassword(u, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

type OnboardInput struct {
	FullName         string
	Bio              string
	NativeLanguage   string
	LearningLanguage string
	Location         string
}

// Onboard completes the one-time profile step: all five fields are required,
// the record is updated in one write, and isOnboarded flips to true. Nothing
// is written when validation fails.
func (s *Service) Onboard(ctx context.Context, userID string, in OnboardInput) (*entity.User, error) {
	var missing []string
	if in.FullName == "" {
		missing = append(missing, "fullName")
	}
	if in.Bio == "" {
		missing = append(missing, "bio")
	}
	if in.NativeLanguage == "" {
		missing = append(missing, "nativeLanguage")
	}
	if in.LearningLanguage == "" {
		missing = append(missing, "learningLanguage")
	}
	if in.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	onboarded := true
	u, err := s.Repo.UpdateByID(ctx, userID, repository.UpdateUserParams{
		FullName:         &in.FullName,
		Bio:              &in.Bio,
		NativeLanguage:   &in.NativeLanguage,
		LearningLanguage: &in.LearningLanguage,
		Location:         &in.Location,
		IsOnboarded:      &onboarded,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.syncDirectory(ctx, u)
	s.indexUser(ctx, u)
	return u, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ChatToken mints a provider token the frontend chat SDK connects with.
func (s *Service) ChatToken(userID string) (string, error) {
	if s.Directory == nil {
		return "", errors.New("directory not configured")
	}
	return s.Directory.CreateUserToken(userID)
}

// UploadAvatar stores a custom profile picture in GCS and replaces the
// generated avatar.
func (s *Service) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.UpdateByID(ctx, userID, repository.UpdateUserParams{ProfilePic: &url})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.syncDirectory(ctx, u)
	s.indexUser(ctx, u)
	return u, nil
}

// SearchPartners performs a multi_match search over profile fields.
func (s *Service) SearchPartners(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"fullName^2", "bio", "nativeLanguage", "learningLanguage", "location"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// syncDirectory mirrors the user's identity to the chat provider. The result
// never affects the caller; success and failure are only logged.
func (s *Service) syncDirectory(ctx context.Context, u *entity.User) {
	if s.Directory == nil {
		return
	}
	if err := s.Directory.UpsertIdentity(ctx, u.ID, u.FullName, u.ProfilePic); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("directory sync failed")
		}
		return
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Debugf("directory entry upserted for %s", u.FullName)
	}
}

func (s *Service) enqueueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"FullName": u.FullName},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":               u.ID,
		"email":            u.Email,
		"fullName":         u.FullName,
		"profilePic":       u.ProfilePic,
		"bio":              u.Bio,
		"nativeLanguage":   u.NativeLanguage,
		"learningLanguage": u.LearningLanguage,
		"location":         u.Location,
		"isOnboarded":      u.IsOnboarded,
		"createdAt":        u.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt":        u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}
