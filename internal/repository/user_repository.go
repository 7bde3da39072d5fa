package repository

import (
	"context"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles account and profile data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, role, has_visited_admin, created_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.HasVisitedAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, role, has_visited_admin, created_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.HasVisitedAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UserWithProfile joins an account with its profile for the admin users view.
type UserWithProfile struct {
	model.User
	Profile *model.Profile `json:"profile,omitempty"`
}

// ListWithProfiles retrieves all users with their profiles (if completed).
func (r *UserRepository) ListWithProfiles(ctx context.Context) ([]UserWithProfile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.email, u.role, u.has_visited_admin, u.created_at,
		        p.user_id, p.full_name, p.contact_number, p.user_class
		 FROM users u
		 LEFT JOIN profiles p ON p.user_id = u.id
		 ORDER BY u.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserWithProfile
	for rows.Next() {
		var uw UserWithProfile
		var p model.Profile
		var userID *int
		var fullName, contact *string
		var class *model.Class
		if err := rows.Scan(
			&uw.ID, &uw.Email, &uw.Role, &uw.HasVisitedAdmin, &uw.CreatedAt,
			&userID, &fullName, &contact, &class,
		); err != nil {
			return nil, err
		}
		if userID != nil {
			p.UserID = *userID
			p.FullName = *fullName
			p.ContactNumber = *contact
			p.UserClass = *class
			uw.Profile = &p
		}
		users = append(users, uw)
	}
	return users, rows.Err()
}

// GetProfile retrieves a user's profile. Returns pgx.ErrNoRows when the
// profile has not been completed — callers rely on that distinction.
func (r *UserRepository) GetProfile(ctx context.Context, userID int) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, full_name, contact_number, user_class, created_at, updated_at
		 FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.FullName, &p.ContactNumber, &p.UserClass, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpsertProfile creates or updates a profile.
func (r *UserRepository) UpsertProfile(ctx context.Context, p *model.Profile) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, full_name, contact_number, user_class)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET full_name = EXCLUDED.full_name,
		     contact_number = EXCLUDED.contact_number,
		     user_class = EXCLUDED.user_class,
		     updated_at = NOW()
		 RETURNING created_at, updated_at`,
		p.UserID, p.FullName, p.ContactNumber, p.UserClass,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// HasVisitedAdmin reads the one-shot admin-visit flag.
func (r *UserRepository) HasVisitedAdmin(ctx context.Context, userID int) (bool, error) {
	var visited bool
	err := r.pool.QueryRow(ctx,
		`SELECT has_visited_admin FROM users WHERE id = $1`, userID,
	).Scan(&visited)
	return visited, err
}

// MarkAdminVisited sets the admin-visit flag. The WHERE clause makes the
// write monotonic: a second call updates zero rows and reports false.
func (r *UserRepository) MarkAdminVisited(ctx context.Context, userID int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET has_visited_admin = TRUE
		 WHERE id = $1 AND has_visited_admin = FALSE`, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
