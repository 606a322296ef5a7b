package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/dobryakk5/zavod/configs"
	"github.com/dobryakk5/zavod/internal/api/handlers"
	"github.com/dobryakk5/zavod/internal/api/middleware"
	job "github.com/dobryakk5/zavod/internal/jobs"
	"github.com/dobryakk5/zavod/internal/queue"
	"github.com/dobryakk5/zavod/internal/repository"
	"github.com/dobryakk5/zavod/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 30 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	clientRepo := repository.NewClientRepository(db)
	postRepo := repository.NewPostRepository(db)
	postVideoRepo := repository.NewPostVideoRepository(db)
	postImageRepo := repository.NewPostImageRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	keywordSetRepo := repository.NewSEOKeywordSetRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	trendRepo := repository.NewTrendRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	r2Service, err := service.NewR2Service(*cfg)
	if err != nil {
		log.Fatalf("Failed to configure media storage: %v", err)
	}

	textService, err := service.NewTextService(context.Background(), *cfg)
	if err != nil {
		log.Fatalf("Failed to configure text generation: %v", err)
	}

	videoService := service.NewVideoService(*cfg)
	imageService := service.NewImageService(*cfg)
	telegramService := service.NewTelegramService()

	generationService := service.NewGenerationService(clientRepo, keywordSetRepo, postRepo, postVideoRepo, postImageRepo, textService, videoService, imageService, r2Service)
	publishService := service.NewPublishService(scheduleRepo, postRepo, socialAccountRepo, postVideoRepo, postImageRepo, telegramService, cfg.SecretKey)
	keywordSetService := service.NewKeywordSetService(keywordSetRepo, textService)
	postService := service.NewPostService(postRepo, postVideoRepo, postImageRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, postRepo, socialAccountRepo)
	trendsService := service.NewTrendsService(*cfg, clientRepo, trendRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	generation := handlers.NewGenerationHandler(generationService)
	api.Post("/generation/batch", generation.RunBatch)

	keywords := handlers.NewKeywordSetHandler(keywordSetService)
	api.Post("/keyword_sets/create", keywords.CreateSet)
	api.Post("/keyword_sets/generate", keywords.GenerateSet)
	api.Get("/keyword_sets", keywords.ListSets)

	post := handlers.NewPostHandler(postService)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/approve", post.ApprovePost)
	api.Post("/posts/remove", post.RemovePost)

	schedule := handlers.NewScheduleHandler(scheduleService)
	api.Post("/schedules/create", schedule.CreateSchedule)
	api.Get("/schedules", schedule.ListSchedules)
	api.Post("/schedules/retry", schedule.RetrySchedule)

	trends := handlers.NewTrendsHandler(trendsService)
	api.Post("/trends/refresh", trends.RefreshTrends)
	api.Get("/trends", trends.ListTrends)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	// cron jobs
	publishSweepJob := job.NewPublishSweepJob(scheduleRepo, client)

	//queue
	queueW := queue.NewQueue(publishService)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", publishSweepJob.SweepDueSchedules)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishSchedule, queueW.HandlePublishScheduleTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
