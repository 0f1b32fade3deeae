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
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/api/handlers"
	"github.com/maheshrc27/contentflow/internal/api/middleware"
	job "github.com/maheshrc27/contentflow/internal/jobs"
	"github.com/maheshrc27/contentflow/internal/queue"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

const shutdownTimeout = 30 * time.Second

type resources struct {
	db          *sql.DB
	redis       *redis.Client
	asynqClient *asynq.Client
	asynqServer *asynq.Server
	pool        *queue.Pool
	cron        *cron.Cron
	status      repository.StatusRepository
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	res := &resources{}

	if cfg.SecretKey == "" {
		key, err := utils.GenerateRandomKey(24)
		if err != nil {
			log.Fatalf("Failed to generate secret key: %v", err)
		}
		cfg.SecretKey = key
		log.Println("Warning: SECRET_KEY not set, sessions will not survive a restart")
	}

	// repositories
	var historyRepo repository.PostingHistoryRepository = repository.NewMemoryPostingHistoryRepository()
	if cfg.PostgresURI != "" {
		db, err := sql.Open("postgres", cfg.PostgresURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatalf("Database is unreachable: %v", err)
		}
		if err := repository.MigratePostingHistory(context.Background(), db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		res.db = db
		historyRepo = repository.NewPostingHistoryRepository(db)
	}

	var sessionRepo repository.SessionRepository
	if cfg.SessionStore == "redis" && cfg.RedisURI != "" {
		res.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
		if err := res.redis.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Redis is unreachable: %v", err)
		}
		sessionRepo = repository.NewRedisSessionRepository(res.redis, cfg.SessionTTL, cfg.SecretKey)
	} else {
		sessionRepo = repository.NewMemorySessionRepository(cfg.SessionTTL)
	}

	res.status = repository.NewStatusRepository(cfg.Generation.TTL)

	// services
	completer := service.NewCompleter(*cfg)
	if completer == nil {
		log.Println("Warning: no text provider configured, generated content will carry errors")
	}

	var archive service.ArtifactStore
	if cfg.R2Enabled() {
		archive = service.NewR2Service(*cfg)
	}

	textService := service.NewTextService(completer, cfg.Generation)
	publisherService := service.NewPublisherService()
	generationService := service.NewGenerationService(cfg.Generation, res.status, textService, publisherService, archive)
	bloggerService := service.NewBloggerService(*cfg, sessionRepo, historyRepo)

	//queue
	var dispatcher queue.Dispatcher
	worker := queue.NewWorker(generationService)
	if cfg.RedisURI != "" {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		queueName := queue.QueueName(cfg.InstanceID)

		res.asynqClient = asynq.NewClient(redisConn)
		dispatcher = queue.NewAsynqDispatcher(res.asynqClient, queueName)

		res.asynqServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues:      map[string]int{queueName: 1},
		})

		log.Printf("Starting the Asynq server on queue %s...", queueName)
		if err := res.asynqServer.Start(worker.ServeMux()); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	} else {
		res.pool = queue.NewPool(generationService, cfg.WorkerConcurrency, cfg.WorkerQueueSize)
		res.pool.Start()
		dispatcher = res.pool
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	health := handlers.NewHealthHandler(cfg.ServiceName)
	app.Get("/health", health.Health)

	sessionMiddleware := middleware.NewSessionMiddleware(*cfg)
	app.Use(sessionMiddleware.SessionMiddleware())

	blogger := handlers.NewBloggerHandler(bloggerService)
	app.Get("/authorize", blogger.Authorize)
	app.Get("/oauth2callback", blogger.OAuthCallback)
	app.Post("/publish", blogger.Publish)
	app.Get("/publish/history", blogger.History)

	content := handlers.NewContentHandler(generationService, dispatcher)
	app.Post("/generate", content.Generate)
	app.Get("/status/:id", content.Status)
	app.Get("/results/:id", content.Results)

	// cron jobs
	cleanupJob := job.NewCleanupJob(res.status, sessionRepo)
	res.cron = cron.New()
	if err := res.cron.AddFunc(job.CleanupSchedule, cleanupJob.EvictExpired); err != nil {
		log.Fatalf("Failed to schedule cleanup job: %v", err)
	}
	res.cron.Start()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, res)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, res *resources) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}

	res.cron.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if res.pool != nil {
		if err := res.pool.Stop(ctx); err != nil {
			log.Printf("Generation workers did not drain in time: %v", err)
		}
	}
	if res.asynqServer != nil {
		res.asynqServer.Shutdown()
	}
	if res.asynqClient != nil {
		res.asynqClient.Close()
	}

	res.status.Clear()

	if res.redis != nil {
		res.redis.Close()
	}
	if res.db != nil {
		closeDB(res.db)
	}
	log.Println("Server shutdown complete.")
}
