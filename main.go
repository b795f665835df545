package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	c := config.New()
	setupLogger(c)
	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file loaded, using process environment")
	}

	log.Info().Msg("Initializing app...")

	ctx := context.Background()
	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		if err := overlaySSM(ctx, prefix, c); err != nil {
			log.Fatal().Err(err).Str("path", prefix).Msg("Error loading SSM parameters")
		}
	}

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		models.GenerateColumnMismatchReport(os.Stdout, db)
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", false) {
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
		log.Info().Msg("Database migration completed")
	}

	currentDB := database.New(db)
	defer currentDB.Close()

	media, err := services.NewMediaUploader(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing media uploader")
	}

	server, err := api.NewServer(c, currentDB, media)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogger configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT (console or json)
func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.ToLower(config.GetString(c, "LOG_FORMAT", "console")) == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// overlaySSM fills config keys that the environment leaves unset from SSM Parameter Store
func overlaySSM(ctx context.Context, prefix string, c map[string]string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	n, err := config.LoadSSMParameters(ctx, ssm.NewFromConfig(awsCfg), prefix, c)
	if err != nil {
		return err
	}
	log.Info().Int("parameters", n).Str("path", prefix).Msg("Loaded SSM parameters")
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
