package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/dto"
)

type JWTService struct {
	context.DefaultService

	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	jwtSecretKey         string
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type CustomClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// IssuedTokens is a signed pair plus the refresh token identity the session must remember.
type IssuedTokens struct {
	Pair             dto.TokenPair
	RefreshJTI       string
	RefreshExpiresAt time.Time
}

const JWT_SVC = "jwt_svc"

var ErrInvalidToken = errors.New("invalid token")

func (svc JWTService) Id() string {
	return JWT_SVC
}

func (svc *JWTService) Configure(ctx *context.Context) error {
	svc.jwtSecretKey = os.Getenv("JWT_SECRET")
	if svc.jwtSecretKey == "" {
		return errors.New("JWT_SECRET is required")
	}

	var err error
	if svc.AccessTokenDuration, err = durationFromEnv("JWT_ACCESS_TTL", 24*time.Hour); err != nil {
		return err
	}
	if svc.RefreshTokenDuration, err = durationFromEnv("JWT_REFRESH_TTL", 7*24*time.Hour); err != nil {
		return err
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *JWTService) Start() error {
	return nil
}

// NewJWTService builds a service without the registry, for tools and tests.
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		AccessTokenDuration:  accessTTL,
		RefreshTokenDuration: refreshTTL,
		jwtSecretKey:         secret,
	}
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func (svc *JWTService) getJWTKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}

	return []byte(svc.jwtSecretKey), nil
}

func (svc *JWTService) GenerateTokenPair(userID, sessionID string) (*IssuedTokens, error) {
	accessToken, _, err := svc.sign(userID, sessionID, TokenTypeAccess, svc.AccessTokenDuration)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshClaims, err := svc.sign(userID, sessionID, TokenTypeRefresh, svc.RefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	return &IssuedTokens{
		Pair: dto.TokenPair{
			AccessToken:      accessToken,
			RefreshToken:     refreshToken,
			TokenType:        "Bearer",
			ExpiresIn:        int64(svc.AccessTokenDuration.Seconds()),
			RefreshExpiresIn: int64(svc.RefreshTokenDuration.Seconds()),
		},
		RefreshJTI:       refreshClaims.ID,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
	}, nil
}

func (svc *JWTService) sign(userID, sessionID, tokenType string, ttl time.Duration) (string, *CustomClaims, error) {
	jti, _ := uuid.NewV7()
	now := time.Now()

	claims := &CustomClaims{
		UserID:    userID,
		SessionID: sessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "InterviewGenius",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(svc.jwtSecretKey))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %v", err)
	}

	return tokenString, claims, nil
}

func (svc *JWTService) verify(jwtToken, tokenType string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(jwtToken, &CustomClaims{}, svc.getJWTKey, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, tokenType)
	}

	return claims, nil
}

func (svc *JWTService) VerifyAccessToken(jwtToken string) (*CustomClaims, error) {
	return svc.verify(jwtToken, TokenTypeAccess)
}

func (svc *JWTService) VerifyRefreshToken(jwtToken string) (*CustomClaims, error) {
	return svc.verify(jwtToken, TokenTypeRefresh)
}

func (svc *JWTService) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is missing")
	}

	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return "", errors.New("invalid authorization header format")
	}

	token := strings.TrimSpace(authHeader[7:])
	if token == "" {
		return "", errors.New("authorization token is empty")
	}
	return token, nil
}
