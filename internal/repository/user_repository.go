package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

const userColumns = "id, name, email, password_hash, role, created_at, updated_at"

var userFilters = filterSet{
	"id":    {"id", matchInt},
	"name":  {"name", matchLike},
	"email": {"email", matchLike},
	"role":  {"role", matchExact},
}

// UserRepository provides database access for user management.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1 LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := getByID(ctx, r.db, &user, "users", userColumns, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// ExistsByEmail checks user email uniqueness.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	found, err := exists(ctx, r.db, "users", squirrel.Eq{"email": email}, excludeID)
	if err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return found, nil
}

// List returns users based on filters with total count.
func (r *UserRepository) List(ctx context.Context, q models.ListQuery) ([]models.User, int, error) {
	conds := userFilters.where(q.Filters)
	users := make([]models.User, 0)
	if err := selectPage(ctx, r.db, &users, psql.Select(userColumns).From("users"), conds, q); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	total, err := listTotal(ctx, r.db, "users", conds, q, len(users))
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

// Create inserts a new user and fills the generated columns.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	builder := psql.Insert("users").
		Columns("name", "email", "password_hash", "role").
		Values(user.Name, user.Email, user.PasswordHash, user.Role)
	if err := insertReturning(ctx, r.db, builder, &user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update updates mutable fields of a user, including the password hash.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	builder := psql.Update("users").SetMap(map[string]interface{}{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"role":          user.Role,
	}).Where(squirrel.Eq{"id": user.ID})
	if err := updateReturning(ctx, r.db, builder, &user.UpdatedAt); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes a user permanently.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "users", id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// RevokeToken records the jti of an access token as revoked.
func (r *UserRepository) RevokeToken(ctx context.Context, token *models.RevokedToken) error {
	if token.RevokedAt.IsZero() {
		token.RevokedAt = time.Now().UTC()
	}
	const query = `INSERT INTO revoked_tokens (jti, user_id, expires_at, revoked_at) VALUES (:jti, :user_id, :expires_at, :revoked_at) ON CONFLICT (jti) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether jti has been revoked.
func (r *UserRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	found, err := exists(ctx, r.db, "revoked_tokens", squirrel.Eq{"jti": jti}, 0)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return found, nil
}

// PurgeRevokedTokens drops revocations whose tokens would have expired anyway.
func (r *UserRepository) PurgeRevokedTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return res.RowsAffected()
}

// CreateAuditLog stores an audit log entry.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (user_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at) VALUES (:user_id, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
