package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PrincipalKind tags the two account types
type PrincipalKind string

const (
	PrincipalAdmin    PrincipalKind = "admin"
	PrincipalCustomer PrincipalKind = "customer"
)

// Principal is an authenticated caller. Exactly one of AdminID/UserID is
// meaningful, selected by Kind.
type Principal struct {
	Kind     PrincipalKind
	AdminID  int64
	UserID   int64
	Username string
}

// SessionKey returns the session-store key for this principal
func (p *Principal) SessionKey() string {
	if p.Kind == PrincipalAdmin {
		return fmt.Sprintf("admin_session_%d", p.AdminID)
	}
	return fmt.Sprintf("user_session_%d", p.UserID)
}

// Actor returns the audit-log actor string for this principal
func (p *Principal) Actor() string {
	if p.Kind == PrincipalAdmin {
		return fmt.Sprintf("admin:%d", p.AdminID)
	}
	return fmt.Sprintf("user:%d", p.UserID)
}

// Authenticator resolves the two raw token formats into a Principal:
// customer tokens of the form "user_<id>_<nonce>" and HS256 JWTs carrying
// an admin_id claim.
type Authenticator struct {
	users  UserStore
	admins AdminStore
	secret []byte
	logger *zap.Logger
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(users UserStore, admins AdminStore, secret string) *Authenticator {
	return &Authenticator{
		users:  users,
		admins: admins,
		secret: []byte(secret),
		logger: util.GetLogger(),
	}
}

// Authenticate resolves a raw bearer token into a Principal. Any token
// that fails to resolve yields ErrUnauthorized.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (*Principal, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: missing token", models.ErrUnauthorized)
	}

	if strings.HasPrefix(raw, "user_") {
		return a.authenticateCustomer(ctx, raw)
	}
	return a.authenticateAdmin(ctx, raw)
}

func (a *Authenticator) authenticateCustomer(ctx context.Context, raw string) (*Principal, error) {
	parts := strings.Split(raw, "_")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: malformed customer token", models.ErrUnauthorized)
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed customer token", models.ErrUnauthorized)
	}

	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown user", models.ErrUnauthorized)
	}

	return &Principal{
		Kind:     PrincipalCustomer,
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

func (a *Authenticator) authenticateAdmin(ctx context.Context, raw string) (*Principal, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid admin token", models.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid admin token claims", models.ErrUnauthorized)
	}
	rawID, ok := claims["admin_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: admin token missing admin_id", models.ErrUnauthorized)
	}

	admin, err := a.admins.GetAdminByID(ctx, int64(rawID))
	if err != nil {
		return nil, fmt.Errorf("%w: unknown admin", models.ErrUnauthorized)
	}
	if !admin.IsActive {
		return nil, fmt.Errorf("%w: admin account disabled", models.ErrUnauthorized)
	}

	return &Principal{
		Kind:     PrincipalAdmin,
		AdminID:  admin.ID,
		Username: admin.Username,
	}, nil
}

// LoginCustomer verifies credentials and issues a customer token
func (a *Authenticator) LoginCustomer(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("%w: bad credentials", models.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, fmt.Errorf("%w: bad credentials", models.ErrUnauthorized)
	}

	nonce := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	token := fmt.Sprintf("user_%d_%s", user.ID, nonce)
	a.logger.Info("Customer logged in", zap.Int64("user_id", user.ID))
	return token, user, nil
}

// LoginAdmin verifies credentials and issues an HS256 JWT
func (a *Authenticator) LoginAdmin(ctx context.Context, username, password string) (string, *models.Admin, error) {
	admin, err := a.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("%w: bad credentials", models.ErrUnauthorized)
	}
	if !admin.IsActive {
		return "", nil, fmt.Errorf("%w: admin account disabled", models.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", nil, fmt.Errorf("%w: bad credentials", models.ErrUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": admin.ID,
		"username": admin.Username,
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign admin token: %w", err)
	}

	a.logger.Info("Admin logged in", zap.Int64("admin_id", admin.ID))
	return signed, admin, nil
}

// RegisterCustomer creates a customer account with a bcrypt-hashed password
func (a *Authenticator) RegisterCustomer(ctx context.Context, username, password, email, phone, address string) (*models.User, error) {
	if username == "" || password == "" || email == "" {
		return nil, models.Validation("username, password and email are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Phone:        phone,
		Address:      address,
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
