package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"shop-service/internal/apperror"
	"shop-service/internal/dto"
	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/oauth"
	"shop-service/prometheus"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// OAuthProvider is an external identity provider using the authorization-code flow
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Identity, error)
}

type AuthService struct {
	users    repository.UserRepository
	jwt      *jwtutil.JWTUtil
	provider OAuthProvider
	metrics  *prometheus.Metrics
	log      *zap.Logger
	cost     int
}

// NewAuthService creates the service. provider may be nil when provider
// login is not configured.
func NewAuthService(users repository.UserRepository, jwt *jwtutil.JWTUtil, provider OAuthProvider, metrics *prometheus.Metrics, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwt:      jwt,
		provider: provider,
		metrics:  metrics,
		log:      log,
		cost:     bcrypt.DefaultCost,
	}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (pair *jwtutil.TokenPair, err error) {
	defer func() { s.metrics.RecordAuthAttempt("registration", err) }()

	if req.Password != req.PasswordRepeat {
		return nil, apperror.Validation("passwords do not match")
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internal(err, "failed to look up user")
	}
	if existing != nil {
		return nil, apperror.Conflict("user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, apperror.Internal(err, "failed to hash password")
	}

	user := &model.User{Email: req.Email, Password: string(hash), Role: model.RoleUser, Provider: model.ProviderLocal}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("user with this email already exists")
		}
		return nil, apperror.Internal(err, "failed to create user")
	}

	s.log.Info("User registered", zap.String("user_id", user.ID))
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (pair *jwtutil.TokenPair, err error) {
	defer func() { s.metrics.RecordAuthAttempt("login", err) }()

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internal(err, "failed to look up user")
	}
	if user == nil || user.Password == "" {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates both tokens when refreshToken matches the stored one
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (pair *jwtutil.TokenPair, err error) {
	defer func() { s.metrics.RecordAuthAttempt("refresh", err) }()

	if refreshToken == "" {
		return nil, apperror.Unauthorized("refresh token is missing")
	}
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Forbidden("Access Denied")
	}

	user, err := s.users.FindByID(ctx, claims.UserID())
	if err != nil {
		return nil, apperror.Internal(err, "failed to look up user")
	}
	if user == nil || user.HashedRefreshToken == nil {
		return nil, apperror.Forbidden("Access Denied")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.HashedRefreshToken), refreshDigest(refreshToken)); err != nil {
		return nil, apperror.Forbidden("Access Denied")
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshHash(ctx, userID, nil); err != nil {
		return apperror.Internal(err, "failed to log out")
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to look up user")
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

// ProviderAuthURL returns the consent page for provider login
func (s *AuthService) ProviderAuthURL(state string) (string, error) {
	if s.provider == nil {
		return "", apperror.NotFound("provider login is not configured")
	}
	return s.provider.AuthCodeURL(state), nil
}

// LoginWithProvider exchanges the code and signs in the matching user,
// creating one on first login
func (s *AuthService) LoginWithProvider(ctx context.Context, code string) (pair *jwtutil.TokenPair, err error) {
	defer func() { s.metrics.RecordAuthAttempt("google", err) }()

	if s.provider == nil {
		return nil, apperror.NotFound("provider login is not configured")
	}
	if code == "" {
		return nil, apperror.Validation("code is required")
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.log.Warn("Provider code exchange failed", zap.Error(err))
		return nil, apperror.Unauthorized("provider login failed")
	}

	user, err := s.users.UpsertByEmail(ctx, &model.User{
		Email:    identity.Email,
		Role:     model.RoleUser,
		Provider: model.ProviderGoogle,
	})
	if err != nil {
		return nil, apperror.Internal(err, "failed to save user")
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*jwtutil.TokenPair, error) {
	pair, err := s.jwt.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperror.Internal(err, "failed to issue tokens")
	}

	hash, err := bcrypt.GenerateFromPassword(refreshDigest(pair.RefreshToken), s.cost)
	if err != nil {
		return nil, apperror.Internal(err, "failed to hash refresh token")
	}
	stored := string(hash)
	if err := s.users.SetRefreshHash(ctx, user.ID, &stored); err != nil {
		return nil, apperror.Internal(err, "failed to store refresh token")
	}
	return pair, nil
}

// refreshDigest shortens the token below bcrypt's 72 byte input limit
func refreshDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(sum[:]))
}
