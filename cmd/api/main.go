package main

import (
	"context"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/barcadehq/arcade-tracker/internal/cloud"
	"github.com/barcadehq/arcade-tracker/internal/config"
	"github.com/barcadehq/arcade-tracker/internal/database"
	httpHandlers "github.com/barcadehq/arcade-tracker/internal/http"
	"github.com/barcadehq/arcade-tracker/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	var (
		alerts *cloud.SNSClient
		store  *cloud.S3Client
	)
	if config.UseCloudServices() {
		ctx := context.Background()
		if alerts, err = cloud.NewSNSClient(ctx, config.AWSRegion(), config.SNSTopicArn()); err != nil {
			log.Warn().Err(err).Msg("sns client unavailable, alerts disabled")
		}
		if store, err = cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket()); err != nil {
			log.Warn().Err(err).Msg("s3 client unavailable, report export disabled")
		}
	}

	svcs := service.New(db, alerts, store)
	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, svcs)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
