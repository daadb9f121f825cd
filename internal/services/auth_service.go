package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"souq/internal/domain"
	"souq/internal/repos"
)

var (
	// ErrUnknownIdentity means no account matches the given email/username.
	ErrUnknownIdentity = errors.New("account not found")
	// ErrBadCreds means the password did not match the stored hash.
	ErrBadCreds = errors.New("incorrect password")
	// ErrBadToken means a bearer token failed verification.
	ErrBadToken = errors.New("invalid or expired token")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims is the token payload: the account id and display name plus the tree
// (user/admin) the token is valid for.
type Claims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users    *repos.UserRepo
	Admins   *repos.AdminRepo
	secret   []byte
	userTTL  time.Duration
	adminTTL time.Duration
}

func NewAuthService(users *repos.UserRepo, admins *repos.AdminRepo, secret string, userTTL, adminTTL time.Duration) *AuthService {
	return &AuthService{Users: users, Admins: admins, secret: []byte(secret), userTTL: userTTL, adminTTL: adminTTL}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(h), err
}

func (s *AuthService) RegisterUser(name, username, email, password string) (domain.User, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	return s.Users.Create(name, username, email, hash)
}

// LoginUser verifies credentials and issues a user token. ErrUnknownIdentity
// and ErrBadCreds are distinct so handlers can keep the 404/401 split.
func (s *AuthService) LoginUser(email, password string) (string, domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return "", domain.User{}, ErrUnknownIdentity
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", domain.User{}, ErrBadCreds
	}
	tok, err := s.sign(u.ID, u.Name, RoleUser, s.userTTL)
	return tok, u, err
}

func (s *AuthService) CreateAdmin(username, password string) (domain.Admin, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return domain.Admin{}, err
	}
	return s.Admins.Create(username, hash)
}

// LoginAdmin issues the long-lived admin token.
func (s *AuthService) LoginAdmin(username, password string) (string, domain.Admin, error) {
	a, err := s.Admins.ByUsername(username)
	if err != nil {
		return "", domain.Admin{}, ErrUnknownIdentity
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return "", domain.Admin{}, ErrBadCreds
	}
	tok, err := s.sign(a.ID, a.Username, RoleAdmin, s.adminTTL)
	return tok, a, err
}

func (s *AuthService) sign(id int64, name, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: id,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a bearer token.
func (s *AuthService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrBadToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrBadToken
	}
	return claims, nil
}
