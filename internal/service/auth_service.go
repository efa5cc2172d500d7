// Package service contains the application's business logic, sitting between
// the HTTP handlers and the repository layer.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stitchhub/internal/cache"
	"stitchhub/internal/config"
	"stitchhub/internal/models"
	"stitchhub/internal/repository"
	"stitchhub/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenTTL is the lifetime of an issued session token.
	TokenTTL = time.Hour * 24 * 7

	// resetTokenTTL bounds how long a password reset link stays valid.
	resetTokenTTL = 30 * time.Minute

	resetTokenKeyPrefix = "pwreset:"
	revokedJTIKeyPrefix = "revoked_jti:"

	// profileReadAttempts bounds the read-after-write verification loop
	// after registration.
	profileReadAttempts = 5
	profileReadBackoff  = 100 * time.Millisecond
)

// AuthService owns registration, login, session token issue/verify/revoke,
// and password recovery.
type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config

	// sleep is swapped out in tests so the verification loop runs instantly.
	sleep func(time.Duration)
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		sleep:    time.Sleep,
	}
}

// Register validates the input, creates the user with a bcrypt-hashed
// password, verifies the profile row is readable, and issues a session token.
// The verifying read replaces any fixed post-signup delay: registration only
// returns once the profile can actually be fetched, bounded by a few
// attempts.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	if username == "" || email == "" || password == "" {
		return nil, "", models.NewValidationError("Username, email, and password are required")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", models.NewValidationError("User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if err := s.awaitProfile(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, token, nil
}

// awaitProfile polls until the freshly created profile row is readable.
func (s *AuthService) awaitProfile(ctx context.Context, userID uint) error {
	var lastErr error
	for i := 0; i < profileReadAttempts; i++ {
		if _, lastErr = s.userRepo.GetByID(ctx, userID); lastErr == nil {
			return nil
		}
		s.sleep(profileReadBackoff)
	}
	return models.NewInternalError(fmt.Errorf("profile not readable after creation: %w", lastErr))
}

// Login authenticates by email and password. Failures are indistinguishable
// to the caller whether the email is unknown or the password is wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", models.NewAuthError("Invalid login credentials")
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, "", models.NewAuthError("Invalid login credentials")
	}

	token, err := s.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, token, nil
}

// ProvisionOAuthUser finds or creates a local profile for a federated
// identity. The username is derived from the email's local part, suffixed
// until unique. The stored password is random and never matches a login
// attempt.
func (s *AuthService) ProvisionOAuthUser(ctx context.Context, email, name, avatarURL string) (*models.User, string, error) {
	if email == "" {
		return nil, "", models.NewAuthError("Identity provider returned no email")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if user == nil {
		username, err := s.availableUsername(ctx, email, name)
		if err != nil {
			return nil, "", err
		}

		// bcrypt caps input at 72 bytes; two UUIDs stay under that.
		random := uuid.New().String() + uuid.New().String()
		hashed, err := bcrypt.GenerateFromPassword([]byte(random[:64]), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", models.NewInternalError(err)
		}

		user = &models.User{
			Username:  username,
			Email:     email,
			Password:  string(hashed),
			AvatarURL: avatarURL,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, "", err
		}
		if err := s.awaitProfile(ctx, user.ID); err != nil {
			return nil, "", err
		}
	}

	token, err := s.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, token, nil
}

func (s *AuthService) availableUsername(ctx context.Context, email, name string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	if name != "" {
		candidate := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
		if validation.ValidateUsername(candidate) == nil {
			base = candidate
		}
	}
	base = sanitizeUsername(base)

	candidate := base
	for i := 0; i < 10; i++ {
		existing, err := s.userRepo.GetByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%s", base, uuid.New().String()[:4])
	}
	return "", models.NewInternalError(fmt.Errorf("could not derive a unique username for %s", email))
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) < 3 {
		out = "user_" + uuid.New().String()[:6]
	}
	if len(out) > 30 {
		out = out[:30]
	}
	return out
}

// UpdateProfileInput carries the mutable profile fields. Empty fields are
// left unchanged.
type UpdateProfileInput struct {
	UserID    uint
	Username  string
	AvatarURL string
}

// UpdateProfile changes username and/or avatar for an authenticated user.
func (s *AuthService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if in.UserID == 0 {
		return nil, models.NewAuthError("You must be logged in")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		taken, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil && taken.ID != in.UserID {
			return nil, models.NewStoreError("Username is already taken", nil)
		}
		user.Username = in.Username
	}
	if in.AvatarURL != "" {
		user.AvatarURL = in.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword issues a single-use recovery token for the email, stored in
// Redis with a bounded TTL. Unknown emails succeed silently so the endpoint
// cannot be used to probe which addresses exist.
func (s *AuthService) ResetPassword(ctx context.Context, email string) (string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return "", models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}

	client := cache.GetClient()
	if client == nil {
		return "", models.NewInternalError(fmt.Errorf("token store unavailable"))
	}

	token := uuid.New().String()
	key := resetTokenKeyPrefix + token
	if err := client.Set(ctx, key, user.ID, resetTokenTTL).Err(); err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// UpdatePassword sets a new password, authorized either by a recovery token
// or by an authenticated session (userID non-zero). A consumed recovery
// token is deleted before the write so it cannot be replayed.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uint, resetToken, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	if resetToken != "" {
		client := cache.GetClient()
		if client == nil {
			return models.NewInternalError(fmt.Errorf("token store unavailable"))
		}

		key := resetTokenKeyPrefix + resetToken
		stored, err := client.GetDel(ctx, key).Result()
		if err != nil {
			return models.NewAuthError("Invalid or expired reset token")
		}
		id, err := strconv.ParseUint(stored, 10, 32)
		if err != nil {
			return models.NewAuthError("Invalid or expired reset token")
		}
		userID = uint(id)
	}

	if userID == 0 {
		return models.NewAuthError("You must be logged in")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)

	return s.userRepo.Update(ctx, user)
}

// Logout revokes the session token by blacklisting its jti until the token
// would have expired anyway. A store failure is logged by the caller but the
// local session is considered ended regardless.
func (s *AuthService) Logout(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	client := cache.GetClient()
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return client.Set(ctx, revokedJTIKeyPrefix+jti, "1", ttl).Err()
}

// IsTokenRevoked reports whether a jti has been blacklisted. The check fails
// closed only when Redis answers; an unavailable store does not lock every
// user out.
func (s *AuthService) IsTokenRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	client := cache.GetClient()
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, revokedJTIKeyPrefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// GenerateToken creates a signed session token for the user.
func (s *AuthService) GenerateToken(userID uint, username string) (string, error) {
	if s.cfg.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "stitchhub-api",
		"aud":      "stitchhub-client",
		"exp":      now.Add(TokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// generateJTI creates a unique token identifier so individual sessions can
// be revoked.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
