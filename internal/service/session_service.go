package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "studydesk/backend/internal/errors"
)

// SessionService identifies LAN clients. It issues one token per client
// session; the subject is the client id that owns focus runs.
type SessionService struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewSessionService(secret string, tokenTTL time.Duration) *SessionService {
	return &SessionService{secret: []byte(secret), tokenTTL: tokenTTL, now: systemNow}
}

type Session struct {
	Token    string `json:"token"`
	ClientID string `json:"client_id"`
}

func (s *SessionService) Open() (*Session, *apperrors.APIError) {
	clientID := uuid.NewString()
	token, apiErr := s.issueToken(clientID)
	if apiErr != nil {
		return nil, apiErr
	}
	return &Session{Token: token, ClientID: clientID}, nil
}

func (s *SessionService) ParseToken(tokenString string) (string, *apperrors.APIError) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", apperrors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", apperrors.Unauthorized("invalid token")
	}

	if claims.Subject == "" {
		return "", apperrors.Unauthorized("invalid token subject")
	}

	return claims.Subject, nil
}

func (s *SessionService) issueToken(clientID string) (string, *apperrors.APIError) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   clientID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal("failed to sign token")
	}
	return signed, nil
}
