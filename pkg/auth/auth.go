package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// TokenSubject is the subject of every token; there is only one shared login
const TokenSubject = "roster-admin"

// TokenTTL is how long a login stays valid
const TokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNoCredential       = errors.New("neither ROSTER_PASSWORD_HASH nor ROSTER_PASSWORD is set")
)

var jwtAlgorithm = jwt.SigningMethodHS256

var hashCost = 14

// Claims represents the JWT claims
type Claims struct {
	jwt.RegisteredClaims
}

// Authenticator checks the shared credential and issues session tokens
type Authenticator struct {
	secret       []byte
	passwordHash string
}

// New creates an authenticator from a signing secret and a bcrypt hash
func New(secret []byte, passwordHash string) *Authenticator {
	return &Authenticator{secret: secret, passwordHash: passwordHash}
}

// NewFromEnv reads JWT_SECRET and ROSTER_PASSWORD_HASH (or ROSTER_PASSWORD,
// hashed on startup). Without JWT_SECRET a random secret is used, so tokens
// do not survive a restart.
func NewFromEnv() (*Authenticator, error) {
	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		secret = []byte(hex.EncodeToString(buf))
	}

	hash := os.Getenv("ROSTER_PASSWORD_HASH")
	if hash == "" {
		password := os.Getenv("ROSTER_PASSWORD")
		if password == "" {
			return nil, ErrNoCredential
		}
		var err error
		hash, err = HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash shared password: %w", err)
		}
	}

	return New(secret, hash), nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Login exchanges the shared password for a token
func (a *Authenticator) Login(password string) (string, error) {
	if !CheckPasswordHash(password, a.passwordHash) {
		return "", ErrInvalidCredentials
	}
	return a.CreateToken(time.Now())
}

// CreateToken creates a new JWT token issued at now
func (a *Authenticator) CreateToken(now time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   TokenSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(a.secret)
}

// VerifyToken verifies a JWT token
func (a *Authenticator) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject != TokenSubject {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
