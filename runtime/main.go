package main

import (
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/interviewgenius/interview_api/services"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using process environment")
	}

	if level, err := logrus.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil {
		logrus.SetLevel(level)
	}

	ctx, err := context.NewCtx(
		&services.DatabaseService{},
		&services.RedisService{},
		&services.MinIOService{},
		&services.JWTService{},
		&services.GeminiService{},
		&services.EmailService{},
		&services.RateLimitService{},
		&services.UserService{},
		&services.AuthService{},
		&services.TestService{},
		&services.ChatService{},
		&services.ResourceService{},
		&services.SchedulerService{},
		&services.MonitoringService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service stopped")
		return
	}
}
