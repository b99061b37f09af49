package auth

import "time"

// Service validates bearer tokens for protected endpoints and mints tokens
// for operators.
type Service struct {
	jwt *JWTService
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		jwt: NewJWTService(JWTConfig{
			SigningKey: cfg.SigningKey,
			Issuer:     cfg.Issuer,
			Audience:   cfg.Audience,
		}),
	}
}

// ValidateAccessToken validates a token and returns the subject it was
// issued to.
func (s *Service) ValidateAccessToken(tokenString string) (string, error) {
	claims, err := s.jwt.ValidateAccessToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// IssueToken mints a new access token for the given subject.
func (s *Service) IssueToken(subject string) (string, time.Time, error) {
	return s.jwt.GenerateAccessToken(subject)
}
