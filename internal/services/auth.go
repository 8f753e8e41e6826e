package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/verityqa/verity-backend/internal/data/repos"
	types "github.com/verityqa/verity-backend/internal/domain"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

type AuthService interface {
	// Login accepts a username or an email address plus a password and
	// returns a signed bearer token with the matching user.
	Login(ctx context.Context, login, password string) (string, *types.User, error)
	ParseToken(tokenString string) (int64, error)
}

type authService struct {
	users    repos.UserRepo
	secret   []byte
	tokenTTL time.Duration
	log      *logger.Logger
}

func NewAuthService(users repos.UserRepo, secret string, tokenTTL time.Duration, baseLog *logger.Logger) AuthService {
	svcLog := baseLog.With("service", "AuthService")
	return &authService{users: users, secret: []byte(secret), tokenTTL: tokenTTL, log: svcLog}
}

func (as *authService) Login(ctx context.Context, login, password string) (string, *types.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	var user *types.User
	var err error
	if strings.Contains(login, "@") {
		user, err = as.users.GetByEmail(ctx, nil, strings.ToLower(login))
	} else {
		user, err = as.users.GetByUsername(ctx, nil, login)
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", nil, apperr.Unauthorized("invalid credentials")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}
	if !user.Active || user.Locked {
		return "", nil, apperr.Unauthorized("account is disabled")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strings.TrimSpace(user.Username),
		ID:        strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(as.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.secret)
	if err != nil {
		return "", nil, err
	}

	as.log.Info("user logged in", "id", user.ID, "username", user.Username)
	return signed, user, nil
}

func (as *authService) ParseToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorized("unexpected signing method %v", t.Header["alg"])
		}
		return as.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperr.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, apperr.Unauthorized("invalid token")
	}
	id, err := strconv.ParseInt(claims.ID, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Unauthorized("invalid token")
	}
	return id, nil
}
