package service

import (
	"context"
	"time"

	"clubpos/internal/apierror"
	"clubpos/internal/config"
	"clubpos/internal/dto"
	"clubpos/internal/model"
	"clubpos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	users repository.UserRepository
	cfg   *config.Config
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{users: users, cfg: cfg}
}

// Login verifies credentials and issues an access/refresh token pair. A bcrypt
// hash of the refresh token is stored on the user row, so refresh tokens can
// be revoked server-side (logout, rotation) without a token blacklist.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apierror.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.ErrUnauthorized
	}

	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		User: dto.UserResponse{
			ID:       user.ID.String(),
			Username: user.Username,
			Role:     user.Role,
		},
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
	}, nil
}

// Refresh validates a refresh token against both its signature and the bcrypt
// hash stored on the user, then rotates the pair. A token that was already
// rotated out no longer matches the stored hash and is rejected.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTRefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Unauthorizedf("refresh token invalido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Unauthorizedf("token mal formado")
	}
	if typ, _ := claims["token_type"].(string); typ != "refresh" {
		return nil, apierror.Unauthorizedf("token mal formado")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apierror.Unauthorizedf("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apierror.Unauthorizedf("token mal formado")
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, apierror.Unauthorizedf("usuario no encontrado")
	}
	if user.RefreshHash == nil {
		return nil, apierror.Unauthorizedf("sesion cerrada")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.RefreshHash), refreshHashInput(refreshToken)); err != nil {
		return nil, apierror.Unauthorizedf("refresh token revocado")
	}

	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout clears the stored refresh hash, revoking any outstanding refresh token.
func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apierror.NotFoundf("usuario %s", userID)
	}
	user.RefreshHash = nil
	return s.users.Update(ctx, user)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apierror.NotFoundf("usuario %s", userID)
	}
	return &dto.UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// issueTokens signs a new access/refresh pair and persists the refresh hash.
// The two tokens carry distinct token_type claims and signing secrets; the
// bearer middleware only accepts the access kind.
func (s *authService) issueTokens(ctx context.Context, user *model.User) (string, string, error) {
	access, err := s.signToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour, "access", s.cfg.JWTSecret)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.signToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour, "refresh", s.cfg.JWTRefreshSecret)
	if err != nil {
		return "", "", err
	}

	// bcrypt input caps at 72 bytes; a signed JWT is longer, so hash the tail,
	// which carries the signature and is unique per token.
	hash, err := bcrypt.GenerateFromPassword(refreshHashInput(refresh), 10)
	if err != nil {
		return "", "", err
	}
	hashStr := string(hash)
	user.RefreshHash = &hashStr
	if err := s.users.Update(ctx, user); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func refreshHashInput(token string) []byte {
	if len(token) <= 72 {
		return []byte(token)
	}
	return []byte(token[len(token)-72:])
}

func (s *authService) signToken(user *model.User, duration time.Duration, tokenType, secret string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"username":   user.Username,
		"role":       user.Role,
		"token_type": tokenType,
		"exp":        time.Now().Add(duration).Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
