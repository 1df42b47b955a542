package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/validation"
)

const tokenTypeBearer = "bearer"

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *models.User) error
	RevokeToken(ctx context.Context, token *models.RevokedToken) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService provides authentication use cases.
type AuthService struct {
	repo      authUserRepository
	validator *validation.Validator
	logger    *zap.Logger
	config    AuthConfig
	metrics   *MetricsService
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, validate *validation.Validator, logger *zap.Logger, config AuthConfig, metrics *MetricsService) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = time.Hour
	}
	return &AuthService{
		repo:      repo,
		validator: defaultValidator(validate),
		logger:    logger,
		config:    config,
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a client account and signs it in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest, meta models.RequestMeta) (*models.TokenResponse, error) {
	if err := s.validator.Struct(req, appErrors.ErrValidation); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.repo.ExistsByEmail(ctx, email, 0)
	if err != nil {
		return nil, internalError(err, "failed to check email uniqueness")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "User already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}
	user := &models.User{Name: req.Name, Email: email, PasswordHash: string(hash), Role: models.RoleClient}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, persistError(err, "User", "register user", map[string]error{
			"users_email_key": appErrors.Clone(appErrors.ErrConflict, "User already exists"),
		})
	}
	s.audit(ctx, user.ID, models.AuditActionRegister, `{"status":"registered"}`, meta)
	return s.issue(user)
}

// Login authenticates a user and returns an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	if err := s.validator.Struct(req, appErrors.ErrValidation); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordAuthFailure("unknown_user")
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, internalError(err, "failed to fetch user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordAuthFailure("bad_password")
		return nil, appErrors.ErrInvalidCredentials
	}
	s.audit(ctx, user.ID, models.AuditActionLogin, `{"status":"success"}`, models.RequestMeta{IP: req.IP, UserAgent: req.UserAgent})
	return s.issue(user)
}

// Logout revokes the presented access token.
func (s *AuthService) Logout(ctx context.Context, claims *models.JWTClaims, meta models.RequestMeta) error {
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	s.audit(ctx, claims.UserID, models.AuditActionLogout, `{"status":"logout"}`, meta)
	return nil
}

// Refresh revokes the presented access token and issues a new one for the same user.
func (s *AuthService) Refresh(ctx context.Context, user *models.User, claims *models.JWTClaims) (*models.TokenResponse, error) {
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Authenticate validates a bearer token and loads its user. Revoked tokens
// and tokens of deleted users are rejected as invalid.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, *models.JWTClaims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, nil, err
	}
	if claims.ID != "" {
		revoked, err := s.repo.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, internalError(err, "failed to check token revocation")
		}
		if revoked {
			s.metrics.RecordAuthFailure("revoked")
			return nil, nil, appErrors.ErrTokenInvalid
		}
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordAuthFailure("unknown_user")
			return nil, nil, appErrors.ErrTokenInvalid
		}
		return nil, nil, internalError(err, "failed to load user")
	}
	return user, claims, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.metrics.RecordAuthFailure("expired")
			return nil, appErrors.Wrap(err, appErrors.ErrTokenExpired.Code, appErrors.ErrTokenExpired.Status, appErrors.ErrTokenExpired.Message)
		}
		s.metrics.RecordAuthFailure("invalid")
		return nil, appErrors.Wrap(err, appErrors.ErrTokenInvalid.Code, appErrors.ErrTokenInvalid.Status, appErrors.ErrTokenInvalid.Message)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.ErrTokenInvalid
	}
	return claims, nil
}

func (s *AuthService) issue(user *models.User) (*models.TokenResponse, error) {
	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, internalError(err, "failed to create access token")
	}
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		User:        user,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	issuedAt := s.now()
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

func (s *AuthService) revoke(ctx context.Context, claims *models.JWTClaims) error {
	if claims == nil || claims.ID == "" {
		return appErrors.ErrTokenInvalid
	}
	expiresAt := s.now().Add(s.config.AccessTokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.repo.RevokeToken(ctx, &models.RevokedToken{
		JTI:       claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: expiresAt,
		RevokedAt: s.now(),
	}); err != nil {
		return internalError(err, "failed to revoke token")
	}
	return nil
}

func (s *AuthService) audit(ctx context.Context, userID int64, action, payload string, meta models.RequestMeta) {
	resourceID := strconv.FormatInt(userID, 10)
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "auth",
		ResourceID: &resourceID,
		NewValues:  []byte(payload),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record auth audit log", zap.String("action", action), zap.Error(err))
	}
}
