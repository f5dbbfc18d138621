package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lingomate/backend/internal/domain/entity"
	"github.com/lingomate/backend/internal/domain/repository"
	"github.com/lingomate/backend/pkg/helpers"
)

const userColumns = `id, email, password_hash, full_name, profile_pic, bio,
	native_language, learning_language, location, is_onboarded, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.ProfilePic, &u.Bio,
		&u.NativeLanguage, &u.LearningLanguage, &u.Location, &u.IsOnboarded,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create persists a new user. The plaintext in u.Password is hashed before the
// insert and replaced with the stored hash. Email uniqueness is enforced by
// the database; a collision surfaces as repository.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	hash, err := helpers.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hash

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, profile_pic)
		VALUES ($1, $2, $3, $4)
		RETURNING id, bio, native_language, learning_language, location, is_onboarded, created_at, updated_at
	`, u.Email, u.Password, u.FullName, u.ProfilePic)

	if err := row.Scan(&u.ID, &u.Bio, &u.NativeLanguage, &u.LearningLanguage,
		&u.Location, &u.IsOnboarded, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

// UpdateByID merges the non-nil fields into the stored record and returns the
// updated row.
func (r *UserRepository) UpdateByID(ctx context.Context, id string, p repository.UpdateUserParams) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET
			full_name         = COALESCE($2, full_name),
			bio               = COALESCE($3, bio),
			native_language   = COALESCE($4, native_language),
			learning_language = COALESCE($5, learning_language),
			location          = COALESCE($6, location),
			profile_pic       = COALESCE($7, profile_pic),
			is_onboarded      = COALESCE($8, is_onboarded),
			updated_at        = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, p.FullName, p.Bio, p.NativeLanguage, p.LearningLanguage, p.Location, p.ProfilePic, p.IsOnboarded))
}

func (r *UserRepository) VerifyPassword(u *entity.User, candidate string) bool {
	return helpers.CompareHashAndPassword(u.Password, candidate)
}

var _ repository.UserRepository = (*UserRepository)(nil)
