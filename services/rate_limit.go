package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
	log "github.com/sirupsen/logrus"
)

const (
	EndpointLogin        = "login"
	EndpointRegister     = "register"
	EndpointRefresh      = "refresh"
	EndpointChatMessage  = "chat_message"
	EndpointTestStart    = "test_start"
	EndpointAvatarUpload = "avatar_upload"
	EndpointAPIGeneral   = "api_general"
)

type RateLimitService struct {
	context.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	dbSvc *DatabaseService
	now   func() time.Time
}

type RateLimitConfig struct {
	EndpointType string        `json:"endpoint_type"`
	MaxRequests  int           `json:"max_requests"`
	WindowSize   time.Duration `json:"window_size"`
	BlockTime    time.Duration `json:"block_time"`
	Description  string        `json:"description"`
	IsActive     bool          `json:"is_active"`
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func NewRateLimitService(dbSvc *DatabaseService) *RateLimitService {
	svc := &RateLimitService{dbSvc: dbSvc, now: time.Now}
	svc.initDefaultConfigs()
	return svc
}

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.now = time.Now
	svc.initDefaultConfigs()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	return nil
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		EndpointLogin: {
			EndpointType: EndpointLogin,
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			BlockTime:    30 * time.Minute,
			Description:  "Login attempts rate limit",
			IsActive:     true,
		},
		EndpointRegister: {
			EndpointType: EndpointRegister,
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			BlockTime:    60 * time.Minute,
			Description:  "Registration rate limit",
			IsActive:     true,
		},
		EndpointRefresh: {
			EndpointType: EndpointRefresh,
			MaxRequests:  20,
			WindowSize:   15 * time.Minute,
			BlockTime:    5 * time.Minute,
			Description:  "Token refresh rate limit",
			IsActive:     true,
		},
		EndpointChatMessage: {
			EndpointType: EndpointChatMessage,
			MaxRequests:  30,
			WindowSize:   10 * time.Minute,
			BlockTime:    10 * time.Minute,
			Description:  "Coach chat messages per user",
			IsActive:     true,
		},
		EndpointTestStart: {
			EndpointType: EndpointTestStart,
			MaxRequests:  20,
			WindowSize:   time.Hour,
			BlockTime:    30 * time.Minute,
			Description:  "Test generation per user",
			IsActive:     true,
		},
		EndpointAvatarUpload: {
			EndpointType: EndpointAvatarUpload,
			MaxRequests:  10,
			WindowSize:   time.Hour,
			BlockTime:    30 * time.Minute,
			Description:  "Avatar uploads per user",
			IsActive:     true,
		},
		EndpointAPIGeneral: {
			EndpointType: EndpointAPIGeneral,
			MaxRequests:  1000,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Description:  "General API rate limit per IP",
			IsActive:     true,
		},
	}
}

func (svc *RateLimitService) config(endpointType string) (RateLimitConfig, bool) {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()

	config, exists := svc.configs[endpointType]
	if !exists {
		return RateLimitConfig{}, false
	}
	return *config, true
}

// SetConfig overrides the limit of an endpoint type.
func (svc *RateLimitService) SetConfig(config RateLimitConfig) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	svc.configs[config.EndpointType] = &config
}

func (svc *RateLimitService) IsAllowed(identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	config, exists := svc.config(endpointType)
	if !exists || !config.IsActive {
		return true, &dto.RateLimitInfo{
			Allowed:   true,
			Remaining: -1,
		}, nil
	}

	now := svc.now()
	windowStart := now.Add(-config.WindowSize)

	rateLimit, err := svc.dbSvc.RateLimits().GetRateLimit(identifier, endpointType)
	if err != nil {
		return false, nil, err
	}

	if rateLimit != nil && rateLimit.BlockedUntil != nil && now.Before(*rateLimit.BlockedUntil) {
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Limit:        config.MaxRequests,
			Remaining:    0,
			ResetTime:    rateLimit.BlockedUntil,
			BlockedUntil: rateLimit.BlockedUntil,
		}, nil
	}

	if rateLimit == nil || rateLimit.WindowStart.Before(windowStart) {
		if rateLimit == nil {
			rateLimit = &model.RateLimit{
				Identifier:   identifier,
				EndpointType: endpointType,
				CreatedAt:    now,
			}
		}
		// A new window reuses the stored row.
		rateLimit.RequestCount = 1
		rateLimit.WindowStart = now
		rateLimit.BlockedUntil = nil
		rateLimit.UpdatedAt = now

		if err := svc.dbSvc.RateLimits().SaveRateLimit(rateLimit); err != nil {
			return false, nil, err
		}

		resetTime := now.Add(config.WindowSize)
		return true, &dto.RateLimitInfo{
			Allowed:   true,
			Limit:     config.MaxRequests,
			Remaining: config.MaxRequests - 1,
			ResetTime: &resetTime,
		}, nil
	}

	if rateLimit.RequestCount >= config.MaxRequests {
		blockedUntil := now.Add(config.BlockTime)
		rateLimit.BlockedUntil = &blockedUntil
		rateLimit.UpdatedAt = now

		if err := svc.dbSvc.RateLimits().UpdateRateLimit(rateLimit); err != nil {
			return false, nil, err
		}

		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Limit:        config.MaxRequests,
			Remaining:    0,
			ResetTime:    &blockedUntil,
			BlockedUntil: &blockedUntil,
		}, nil
	}

	rateLimit.RequestCount++
	rateLimit.UpdatedAt = now

	if err := svc.dbSvc.RateLimits().UpdateRateLimit(rateLimit); err != nil {
		return false, nil, err
	}

	resetTime := rateLimit.WindowStart.Add(config.WindowSize)
	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Limit:     config.MaxRequests,
		Remaining: config.MaxRequests - rateLimit.RequestCount,
		ResetTime: &resetTime,
	}, nil
}

// RateLimit limits an endpoint type. Limiter failures let the request through.
func (svc *RateLimitService) RateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := svc.getIdentifier(c, endpointType)
		return svc.apply(c, identifier, endpointType)
	}
}

// IPRateLimit applies the general per-IP limit.
func (svc *RateLimitService) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return svc.apply(c, shared.GetClientIP(c), EndpointAPIGeneral)
	}
}

// UserBasedRateLimit keys on the authenticated user and falls back to the client IP.
func (svc *RateLimitService) UserBasedRateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier, _ := c.Locals(shared.UserID).(string)
		if identifier == "" {
			identifier = shared.GetClientIP(c)
		}
		return svc.apply(c, identifier, endpointType)
	}
}

func (svc *RateLimitService) apply(c *fiber.Ctx, identifier, endpointType string) error {
	allowed, info, err := svc.IsAllowed(identifier, endpointType)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"endpoint":   endpointType,
			"identifier": identifier,
		}).Warn("Rate limit check failed")
		return c.Next()
	}

	svc.addRateLimitHeaders(c, info)

	if !allowed {
		return svc.rateLimitExceeded(endpointType, info)
	}

	return c.Next()
}

func (svc *RateLimitService) getIdentifier(c *fiber.Ctx, endpointType string) string {
	switch endpointType {
	case EndpointLogin, EndpointRegister:
		if email := svc.getEmailFromRequest(c); email != "" {
			return LoginIdentifier(shared.GetClientIP(c), email)
		}
		return shared.GetClientIP(c)

	case EndpointChatMessage, EndpointTestStart, EndpointAvatarUpload:
		if userID, ok := c.Locals(shared.UserID).(string); ok && userID != "" {
			return userID
		}
		return shared.GetClientIP(c)

	default:
		return shared.GetClientIP(c)
	}
}

// LoginIdentifier keys credential endpoints by client and account.
func LoginIdentifier(clientIP, email string) string {
	return fmt.Sprintf("%s:%s", clientIP, strings.ToLower(strings.TrimSpace(email)))
}

func (svc *RateLimitService) getEmailFromRequest(c *fiber.Ctx) string {
	if len(c.Body()) == 0 {
		return ""
	}

	var reqBody struct {
		Email string `json:"email"`
	}
	if err := shared.JSONUnmarshal(c.Body(), &reqBody); err != nil {
		return ""
	}
	return reqBody.Email
}

func (svc *RateLimitService) addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}

	if info.Limit > 0 {
		c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	}
	if info.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}

	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}

	if info.BlockedUntil != nil {
		retryAfter := int(info.BlockedUntil.Sub(svc.now()).Seconds())
		if retryAfter > 0 {
			c.Set("Retry-After", strconv.Itoa(retryAfter))
		}
	}
}

func (svc *RateLimitService) rateLimitExceeded(endpointType string, info *dto.RateLimitInfo) error {
	message := getRateLimitMessage(endpointType)

	response := fiber.Map{
		"error": "Rate limit exceeded",
	}
	if info != nil && info.BlockedUntil != nil {
		response["blocked_until"] = info.BlockedUntil.Unix()
		response["retry_after"] = int(info.BlockedUntil.Sub(svc.now()).Seconds())
	}

	return shared.NewTooManyRequestsError(message, response)
}

func getRateLimitMessage(endpointType string) string {
	switch endpointType {
	case EndpointLogin:
		return "Account temporarily blocked. Try again later."
	case EndpointRegister:
		return "Too many registration attempts. Please try again later."
	case EndpointRefresh:
		return "Too many token refresh requests. Please try again later."
	case EndpointChatMessage:
		return "You're sending messages too quickly. Please wait a moment."
	case EndpointTestStart:
		return "Too many tests started. Please take a break."
	case EndpointAvatarUpload:
		return "Too many avatar uploads. Please try again later."
	case EndpointAPIGeneral:
		return "Too many requests. Please slow down."
	default:
		return "Too many requests. Please try again later."
	}
}

func (svc *RateLimitService) CleanupOldRecords() (int64, error) {
	return svc.dbSvc.RateLimits().CleanupOldRecords()
}

func (svc *RateLimitService) ResetRateLimit(identifier, endpointType string) error {
	return svc.dbSvc.RateLimits().DeleteRateLimit(identifier, endpointType)
}
