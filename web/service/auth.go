package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"qatrack/config"
	"qatrack/database"
	"qatrack/database/model"
	"qatrack/logger"
	"qatrack/util/crypto"
	"qatrack/util/random"
)

// tokenTTL is fixed; there is no refresh mechanism.
const tokenTTL = 2 * time.Hour

var (
	ErrUsernameTaken      = errors.New("el usuario ya existe")
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
	ErrInvalidToken       = errors.New("token inválido o expirado")
)

// Identity is the verified subject of a bearer token.
type Identity struct {
	Id       int64
	Username string
}

// AuthService registers users and issues/verifies HS256 bearer tokens.
type AuthService struct {
	DB        *gorm.DB
	JWTSecret []byte
}

func NewAuthService() *AuthService {
	secret := config.GetJWTSecret()
	if secret == "" {
		secret = random.Seq(32)
		logger.Warning("JWT_SECRET is not set, tokens will not survive a restart")
	}
	return &AuthService{
		DB:        database.GetDB(),
		JWTSecret: []byte(secret),
	}
}

// Register stores a new user with a bcrypt hash, never the plaintext.
func (s *AuthService) Register(username, rawPassword string) (*model.User, error) {
	var existing model.User
	err := s.DB.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !database.IsNotFound(err) {
		return nil, err
	}

	hash, err := crypto.HashPassword(rawPassword)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.DB.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and issues a signed token embedding the user
// id and username with the fixed expiry.
func (s *AuthService) Login(username, rawPassword string) (string, *model.User, error) {
	var u model.User
	if err := s.DB.Where("username = ?", username).First(&u).Error; err != nil {
		if database.IsNotFound(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !crypto.CheckPasswordHash(u.PasswordHash, rawPassword) {
		return "", nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"id":       u.Id,
		"username": u.Username,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	return tok, &u, err
}

// Verify parses and validates a bearer token and returns its identity.
func (s *AuthService) Verify(tokenString string) (*Identity, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	username, ok := claims["username"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	return &Identity{Id: int64(id), Username: username}, nil
}
