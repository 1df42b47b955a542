package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/validation"
)

type userRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.User, int, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// user endpoints answer invalid payloads with 400 rather than 422.
var errUserPayload = appErrors.Clone(appErrors.ErrBadRequest, "The given data was invalid.")

// CreateUserRequest represents payload for creating users.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=client manager admin"`
}

// UpdateUserRequest payload for updating users. Absent fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=255"`
	Email    *string `json:"email" validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=6"`
	Role     *string `json:"role" validate:"omitnil,oneof=client manager admin"`
}

// UserService handles user management workflows.
type UserService struct {
	repo      userRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validation.Validator, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: defaultValidator(validate), logger: logger}
}

// List returns users visible to managers and admins.
func (s *UserService) List(ctx context.Context, actor *models.User, q models.ListQuery) ([]models.User, *models.Pagination, error) {
	if err := Authorize(actor, UserActionList, nil); err != nil {
		return nil, nil, err
	}
	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list users")
	}
	return users, models.NewPagination(q, total), nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, actor *models.User, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "User")
	}
	if err := Authorize(actor, UserActionView, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Create adds a new user. Non-admins may only create clients.
func (s *UserService) Create(ctx context.Context, actor *models.User, req CreateUserRequest, meta models.RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req, errUserPayload); err != nil {
		return nil, err
	}
	role := models.UserRole(req.Role)
	if err := Authorize(actor, UserActionCreate, &models.User{Role: role}); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}
	user := &models.User{Name: req.Name, Email: email, PasswordHash: string(hash), Role: role}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, s.persistError(err, "create user")
	}

	newPayload, _ := json.Marshal(map[string]interface{}{"id": user.ID, "email": user.Email, "role": user.Role})
	s.audit(ctx, actor, models.AuditActionUserCreate, user.ID, nil, newPayload, meta)
	return user, nil
}

// Update modifies the user attributes. Only admins may change a role.
func (s *UserService) Update(ctx context.Context, actor *models.User, id int64, req UpdateUserRequest, meta models.RequestMeta) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "User")
	}
	if err := Authorize(actor, UserActionUpdate, user); err != nil {
		return nil, err
	}
	if req.Role != nil {
		if err := Authorize(actor, UserActionChangeRole, user); err != nil {
			return nil, err
		}
	}
	if err := s.validator.Struct(req, errUserPayload); err != nil {
		return nil, err
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"name": user.Name, "email": user.Email, "role": user.Role})

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, internalError(err, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}
	if req.Role != nil {
		user.Role = models.UserRole(*req.Role)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.persistError(err, "update user")
	}

	newPayload, _ := json.Marshal(map[string]interface{}{"name": user.Name, "email": user.Email, "role": user.Role})
	s.audit(ctx, actor, models.AuditActionUserUpdate, user.ID, oldPayload, newPayload, meta)
	return user, nil
}

// Delete permanently removes a user. Admin accounts are never deleted.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id int64, meta models.RequestMeta) error {
	// clients are refused whether or not the target exists
	if err := Authorize(actor, UserActionDelete, nil); err != nil {
		return err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return loadError(err, "User")
	}
	if err := Authorize(actor, UserActionDelete, user); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.persistError(err, "delete user")
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"email": user.Email, "role": user.Role})
	s.audit(ctx, actor, models.AuditActionUserDelete, user.ID, oldPayload, nil, meta)
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, excludeID int64) error {
	taken, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return internalError(err, "failed to check email uniqueness")
	}
	if taken {
		return emailTaken()
	}
	return nil
}

func emailTaken() error {
	return appErrors.Field(errUserPayload, "email", "The email has already been taken.")
}

func (s *UserService) persistError(err error, action string) error {
	return persistError(err, "User", action, map[string]error{
		"users_email_key": emailTaken(),
	})
}

func (s *UserService) audit(ctx context.Context, actor *models.User, action string, targetID int64, oldValues, newValues []byte, meta models.RequestMeta) {
	resourceID := strconv.FormatInt(targetID, 10)
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "users",
		ResourceID: &resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if actor != nil {
		entry.UserID = &actor.ID
	}
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to record user audit log", zap.String("action", action), zap.Error(err))
	}
}
