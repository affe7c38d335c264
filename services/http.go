package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/interviewgenius/interview_api/services/handlers"
	"github.com/interviewgenius/interview_api/shared"
	log "github.com/sirupsen/logrus"
)

type HttpService struct {
	context.DefaultService

	authSvc      *AuthService
	userSvc      *UserService
	testSvc      *TestService
	chatSvc      *ChatService
	resourceSvc  *ResourceService
	rateLimitSvc *RateLimitService

	port        int
	corsOrigins string
	app         *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	svc.corsOrigins = os.Getenv("CORS_ORIGINS")
	if svc.corsOrigins == "" {
		svc.corsOrigins = "*"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.testSvc = svc.Service(TEST_SVC).(*TestService)
	svc.chatSvc = svc.Service(CHAT_SVC).(*ChatService)
	svc.resourceSvc = svc.Service(RESOURCE_SVC).(*ResourceService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)

	svc.app = svc.buildApp()

	log.Printf("HTTP server listening on :%v", svc.port)
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

func (svc *HttpService) buildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               SERVICE_NAME,
		DisableStartupMessage: true,
		BodyLimit:             4 * 1024 * 1024,
		JSONEncoder:           shared.JSONMarshal,
		JSONDecoder:           shared.JSONUnmarshal,
		ErrorHandler:          shared.ErrorHandler,
	})

	app.Use(recover.New())
	if os.Getenv("LOG_LEVEL") == "TRACE" {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     svc.corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, OPTIONS",
		AllowCredentials: svc.corsOrigins != "*",
	}))
	app.Use(MonitoringMiddleware())

	app.Get("/ping", svc.ping)

	authHandler := handlers.NewAuthHandler(svc.authSvc)
	userHandler := handlers.NewUserHandler(svc.userSvc)
	leaderboardHandler := handlers.NewLeaderboardHandler(svc.userSvc)
	testHandler := handlers.NewTestHandler(svc.testSvc)
	chatHandler := handlers.NewChatHandler(svc.chatSvc)
	resourceHandler := handlers.NewResourceHandler(svc.resourceSvc, GetCatalog)

	requiredAuth := svc.authSvc.RequiredAuth()
	rl := svc.rateLimitSvc

	v1 := app.Group("/api/v1", rl.IPRateLimit())

	v1.Get("/ping", svc.ping)
	v1.Get("/catalog", resourceHandler.GetCatalog)

	auth := v1.Group("/auth")
	auth.Post("/register", rl.RateLimit(EndpointRegister), authHandler.Register)
	auth.Post("/login", rl.RateLimit(EndpointLogin), authHandler.Login)
	auth.Post("/refresh", rl.RateLimit(EndpointRefresh), authHandler.RefreshToken)
	auth.Post("/logout", requiredAuth, authHandler.Logout)

	v1.Get("/me", requiredAuth, authHandler.CheckUser)

	profile := v1.Group("/profile", requiredAuth)
	profile.Get("/", userHandler.GetUserProfile)
	profile.Put("/", userHandler.UpdateUserProfile)
	profile.Post("/avatar", rl.UserBasedRateLimit(EndpointAvatarUpload), userHandler.UploadAvatar)
	profile.Get("/stats", userHandler.GetPerformanceStats)
	profile.Get("/badges", userHandler.GetBadges)

	tests := v1.Group("/tests", requiredAuth)
	tests.Post("/", rl.UserBasedRateLimit(EndpointTestStart), testHandler.StartTest)
	tests.Get("/:id", testHandler.GetTestSession)
	tests.Post("/:id/answer", testHandler.AnswerQuestion)
	tests.Post("/:id/abandon", testHandler.AbandonTest)

	results := v1.Group("/results", requiredAuth)
	results.Post("/", testHandler.SubmitTestResult)
	results.Get("/", testHandler.GetTestResults)
	results.Get("/:id", testHandler.GetTestResult)

	v1.Get("/leaderboard", svc.authSvc.OptionalAuth(), leaderboardHandler.GetLeaderboard)

	chat := v1.Group("/chat", requiredAuth)
	chat.Post("/", rl.UserBasedRateLimit(EndpointChatMessage), chatHandler.SendMessage)
	chat.Get("/", chatHandler.GetHistory)

	v1.Get("/resources", resourceHandler.ListResources)
	v1.Get("/resources/curated", resourceHandler.GetCuratedResources)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	return app
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")
	return shared.ResponseOK(c, "pong")
}
