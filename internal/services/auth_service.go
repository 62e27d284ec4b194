package services

import (
	"context"
	"errors"
	"time"

	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
	"tiketbus/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

// Claims carried by access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	Secret []byte
	TTL    time.Duration
}

func (t TokenService) ttl() time.Duration {
	if t.TTL > 0 {
		return t.TTL
	}
	return DefaultTokenTTL
}

func (t TokenService) Issue(u models.User, now time.Time) (string, time.Time, error) {
	exp := now.Add(t.ttl())
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	return signed, exp, err
}

func (t TokenService) Parse(raw string) (Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return claims, domain.UnauthorizedError{Msg: "token kedaluwarsa"}
		}
		return claims, domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	if !tok.Valid || claims.UserID == "" {
		return claims, domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	return claims, nil
}

// LoginResult is returned by POST /api/auth/login.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

type AuthService struct {
	Users  UserService
	Tokens TokenService
}

func (s AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.Users.Authenticate(ctx, email, password)
	if err != nil {
		utils.LogEvent(requestID(ctx), "auth", "login_failed", "email="+utils.NormalizeEmail(email))
		return LoginResult{}, err
	}
	token, exp, err := s.Tokens.Issue(u, time.Now())
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "gagal membuat token", Err: err}
	}
	utils.LogEvent(requestID(ctx), "auth", "login", "user_id="+u.ID)
	return LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}
