package services

import (
	"errors"
	"strings"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AUTH_SVC = "auth_svc"

	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "An account with this email already exists"
	msgRegisterFailed     = "Registration failed. Please try again."
	msgLoginFailed        = "Login failed. Please try again."
)

type AuthService struct {
	appContext.DefaultService

	dbSvc        *DatabaseService
	jwtSvc       *JWTService
	userSvc      *UserService
	rateLimitSvc *RateLimitService
	emailSvc     *EmailService
}

func NewAuthService(dbSvc *DatabaseService, jwtSvc *JWTService, userSvc *UserService) *AuthService {
	return &AuthService{dbSvc: dbSvc, jwtSvc: jwtSvc, userSvc: userSvc}
}

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)
	return nil
}

// ==================== REGISTRATION & LOGIN ====================

func (svc *AuthService) Register(req dto.RegisterRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, shared.NewBadRequestError(nil, "Name is required")
	}

	available, err := svc.dbSvc.Users().IsEmailAvailable(req.Email)
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}
	if !available {
		return nil, shared.NewConflictError(nil, msgEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, msgRegisterFailed)
	}

	user, err := svc.dbSvc.Users().CreateUser(req.Name, req.Email, string(hash))
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, shared.NewConflictError(err, msgEmailTaken)
		}
		return nil, shared.NewInternalError(err, msgRegisterFailed)
	}

	if err := svc.dbSvc.Sessions().DeactivateClientSessions(user.ID, userAgent); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to clear client session")
	}

	session, tokens, err := svc.openSession(user, clientIP, userAgent)
	if err != nil {
		return nil, shared.NewInternalError(err, msgRegisterFailed)
	}

	log.WithFields(log.Fields{"user_id": user.ID, "ip": clientIP}).Info("User registered")
	if svc.emailSvc.Enabled() {
		go func() {
			if err := svc.emailSvc.SendWelcomeEmail(user.Email, user.Name); err != nil {
				log.WithError(err).WithField("user_id", user.ID).Warn("Failed to send welcome email")
			}
		}()
	}
	return svc.loginResponse(user, session, tokens)
}

func (svc *AuthService) Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	user, err := svc.dbSvc.Users().GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(err, msgInvalidCredentials)
		}
		return nil, svc.dbSvc.HandleError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.WithFields(log.Fields{"user_id": user.ID, "ip": clientIP}).Warn("Failed login attempt")
		return nil, shared.NewUnauthorizedError(err, msgInvalidCredentials)
	}

	if err := svc.dbSvc.Sessions().DeactivateClientSessions(user.ID, userAgent); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to clear client session")
	}

	session, tokens, err := svc.openSession(user, clientIP, userAgent)
	if err != nil {
		return nil, shared.NewInternalError(err, msgLoginFailed)
	}

	if err := svc.dbSvc.Users().UpdateLastLogin(user.ID); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}
	if svc.rateLimitSvc != nil {
		if err := svc.rateLimitSvc.ResetRateLimit(LoginIdentifier(clientIP, req.Email), EndpointLogin); err != nil {
			log.WithError(err).Warn("Failed to reset login rate limit")
		}
	}

	return svc.loginResponse(user, session, tokens)
}

// openSession creates a session for this client. If the store reports the
// client already has an active one, every session of the user is closed and
// creation is tried once more.
func (svc *AuthService) openSession(user *model.User, clientIP, userAgent string) (*model.UserSession, *IssuedTokens, error) {
	session, tokens, err := svc.createSession(user.ID, clientIP, userAgent)
	if err == nil {
		return session, tokens, nil
	}
	if !IsUniqueViolation(err) {
		return nil, nil, err
	}

	log.WithField("user_id", user.ID).Warn("Session already active, closing all sessions and retrying")
	if err := svc.dbSvc.Sessions().DeactivateAllUserSessions(user.ID); err != nil {
		return nil, nil, err
	}
	return svc.createSession(user.ID, clientIP, userAgent)
}

func (svc *AuthService) createSession(userID, clientIP, userAgent string) (*model.UserSession, *IssuedTokens, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, nil, err
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(userID, id.String())
	if err != nil {
		return nil, nil, err
	}

	session, err := svc.dbSvc.Sessions().CreateSession(&model.UserSession{
		ID:         id.String(),
		UserID:     userID,
		RefreshJTI: tokens.RefreshJTI,
		UserAgent:  userAgent,
		IP:         clientIP,
		ExpiresAt:  tokens.RefreshExpiresAt,
	})
	if err != nil {
		return nil, nil, err
	}
	return session, tokens, nil
}

func (svc *AuthService) loginResponse(user *model.User, session *model.UserSession, tokens *IssuedTokens) (*dto.LoginResponse, error) {
	userResp, err := svc.userSvc.BuildUserResponse(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		User:      *userResp,
		SessionID: session.ID,
		TokenPair: tokens.Pair,
	}, nil
}

// ==================== TOKENS & SESSIONS ====================

// Refresh rotates the refresh token of a live session. Presenting an already
// rotated refresh token ends the session.
func (svc *AuthService) Refresh(req dto.RefreshTokenRequest) (*dto.TokenPair, error) {
	claims, err := svc.jwtSvc.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid refresh token")
	}

	session, err := svc.dbSvc.Sessions().GetActiveSession(claims.SessionID, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(err, "Session expired. Please log in again.")
		}
		return nil, svc.dbSvc.HandleError(err)
	}

	if session.RefreshJTI != claims.ID {
		log.WithFields(log.Fields{"user_id": claims.UserID, "session_id": session.ID}).Warn("Refresh token reuse detected")
		if err := svc.dbSvc.Sessions().DeactivateSession(session.ID, claims.UserID); err != nil {
			log.WithError(err).Error("Failed to deactivate session after token reuse")
		}
		return nil, shared.NewUnauthorizedError(nil, "Session expired. Please log in again.")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(claims.UserID, session.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "")
	}
	if err := svc.dbSvc.Sessions().RotateRefreshJTI(session.ID, tokens.RefreshJTI, tokens.RefreshExpiresAt); err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	return &tokens.Pair, nil
}

// Logout always succeeds for the client; a failed deactivation is only logged.
func (svc *AuthService) Logout(userID, sessionID string) {
	if err := svc.dbSvc.Sessions().DeactivateSession(sessionID, userID); err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "session_id": sessionID}).Error("Logout failed to deactivate session")
	}
}

func (svc *AuthService) CheckUser(userID string) (*dto.UserResponse, error) {
	return svc.userSvc.GetCurrentUser(userID)
}

// ==================== MIDDLEWARE ====================

func (svc *AuthService) authenticate(c *fiber.Ctx) (*CustomClaims, error) {
	token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Unauthorized")
	}

	claims, err := svc.jwtSvc.VerifyAccessToken(token)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid or expired token")
	}

	if _, err := svc.dbSvc.Sessions().GetActiveSession(claims.SessionID, claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(err, "Session expired. Please log in again.")
		}
		return nil, svc.dbSvc.HandleError(err)
	}

	return claims, nil
}

// OptionalAuth sets the caller's locals when a live session token is sent and
// otherwise lets the request through anonymously.
func (svc *AuthService) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}

		claims, err := svc.authenticate(c)
		if err != nil {
			if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != fiber.StatusUnauthorized {
				log.WithError(err).Warn("Optional authentication failed")
			}
			return c.Next()
		}

		c.Locals(shared.UserID, claims.UserID)
		c.Locals(shared.SessionID, claims.SessionID)
		return c.Next()
	}
}

func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := svc.authenticate(c)
		if err != nil {
			return err
		}

		c.Locals(shared.UserID, claims.UserID)
		c.Locals(shared.SessionID, claims.SessionID)
		return c.Next()
	}
}
