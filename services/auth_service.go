package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JerryLinyx/pilotts/models"
	"github.com/JerryLinyx/pilotts/utils"
	"gorm.io/gorm"
)

type AuthOptions struct {
	JWTSecret         string
	AllowRegistration bool
}

// AuthService resolves the current user for admin requests.
type AuthService struct {
	db       *gorm.DB
	sessions *SessionStore
	opts     AuthOptions
}

func NewAuthService(db *gorm.DB, sessions *SessionStore, opts AuthOptions) *AuthService {
	return &AuthService{db: db, sessions: sessions, opts: opts}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and logs them in. Unless registration is open, it
// only succeeds while no user exists yet.
func (a *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	db := a.db.WithContext(ctx)

	if !a.opts.AllowRegistration {
		var users int64
		if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
			return "", fmt.Errorf("count users: %w", err)
		}
		if users > 0 {
			return "", ErrRegistrationClosed
		}
	}

	var taken int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
		return "", fmt.Errorf("check email: %w", err)
	}
	if taken > 0 {
		return "", &models.ValidationError{Messages: []string{"Email address has already been taken"}}
	}

	digest, err := utils.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Email: email, PasswordDigest: digest}
	if err := db.Create(&user).Error; err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	return a.issue(ctx, user.ID)
}

func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	err := a.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPassword(password, user.PasswordDigest) {
		return "", ErrInvalidCredentials
	}
	return a.issue(ctx, user.ID)
}

func (a *AuthService) issue(ctx context.Context, userID uint) (string, error) {
	sessionID, err := a.sessions.Create(ctx, userID)
	if err != nil {
		return "", err
	}
	token, err := utils.GenerateJWT(userID, sessionID, a.opts.JWTSecret, a.sessions.TTL())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Authenticate verifies the token and its backing session.
func (a *AuthService) Authenticate(ctx context.Context, token string) (userID uint, sessionID string, err error) {
	claims, err := utils.ParseJWT(token, a.opts.JWTSecret)
	if err != nil {
		return 0, "", ErrSessionNotFound
	}
	owner, err := a.sessions.Resolve(ctx, claims.SessionID)
	if err != nil {
		return 0, "", err
	}
	if owner != claims.UserID {
		return 0, "", ErrSessionNotFound
	}
	return owner, claims.SessionID, nil
}

func (a *AuthService) Logout(ctx context.Context, sessionID string) error {
	return a.sessions.Destroy(ctx, sessionID)
}
