package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/handlers"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/uploads"
)

// @title Catalog Service API
// @version 1.0.0
// @description Product catalog backend with bulk CSV/XLSX import, blogs, jobs, drivers and contact management

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.WithError(err).Warn("Failed to parse Redis URL, falling back to localhost")
		redisOpts = &redis.Options{Addr: "localhost:6379"}
	}
	redisClient := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logrus.WithError(err).Warn("Failed to connect to Redis, caching disabled")
		redisClient = nil
	} else {
		logrus.Info("Redis connected")
	}
	cancel()

	// Events are optional; a nil publisher drops them silently.
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.NewPublisher(cfg.NATSURL, logrus.StandardLogger())
		if err != nil {
			logrus.WithError(err).Warn("Failed to initialize events publisher, continuing without events")
		} else {
			logrus.Info("Events publisher initialized")
		}
	} else {
		logrus.Info("NATS_URL not set, event publishing disabled")
	}
	defer publisher.Close()

	store := uploads.NewStore(cfg.UploadDir, cfg.BaseURL, cfg.MaxUploadSize)

	productsRepo := repository.NewProductsRepository(db, redisClient)
	blogsRepo := repository.NewBlogsRepository(db, redisClient)
	jobsRepo := repository.NewJobsRepository(db)
	driversRepo := repository.NewDriversRepository(db)
	contactRepo := repository.NewContactRepository(db)

	productsHandler := handlers.NewProductsHandler(productsRepo, publisher)
	importHandler := handlers.NewImportHandler(productsRepo, store, publisher)
	blogsHandler := handlers.NewBlogsHandler(blogsRepo)
	jobsHandler := handlers.NewJobsHandler(jobsRepo)
	driversHandler := handlers.NewDriversHandler(driversRepo)
	contactHandler := handlers.NewContactHandler(contactRepo, publisher)
	uploadHandler := handlers.NewUploadHandler(store)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.MaxMultipartMemory = cfg.MaxUploadSize

	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadyCheck(db))

	api := router.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", productsHandler.ListProducts)
			products.GET("/export", productsHandler.ExportProducts)
			products.GET("/slug/:slug", productsHandler.GetProductBySlug)
			products.GET("/import/template", importHandler.GetImportTemplate)
			products.GET("/:id", productsHandler.GetProduct)
			products.POST("", productsHandler.CreateProduct)
			products.PUT("/:id", productsHandler.UpdateProduct)
			products.DELETE("/:id", productsHandler.DeleteProduct)

			products.POST("/bulk-import", importHandler.BulkImportProducts)
			products.POST("/import", importHandler.ImportProducts)
		}

		api.GET("/subcategories", productsHandler.ListSubcategories)

		blogs := api.Group("/blogs")
		{
			blogs.GET("", blogsHandler.ListBlogs)
			blogs.GET("/:slug", blogsHandler.GetBlogBySlug)
			blogs.POST("", blogsHandler.CreateBlog)
			blogs.PUT("/:id", blogsHandler.UpdateBlog)
			blogs.DELETE("/:id", blogsHandler.DeleteBlog)
		}

		jobs := api.Group("/jobs")
		{
			jobs.GET("", jobsHandler.ListJobs)
			jobs.GET("/:id", jobsHandler.GetJob)
			jobs.POST("", jobsHandler.CreateJob)
			jobs.PUT("/:id", jobsHandler.UpdateJob)
			jobs.DELETE("/:id", jobsHandler.DeleteJob)
		}

		drivers := api.Group("/drivers")
		{
			drivers.GET("", driversHandler.ListDrivers)
			drivers.GET("/:id", driversHandler.GetDriver)
			drivers.GET("/:id/download", driversHandler.DownloadDriver)
			drivers.POST("", driversHandler.CreateDriver)
			drivers.PUT("/:id", driversHandler.UpdateDriver)
			drivers.DELETE("/:id", driversHandler.DeleteDriver)
		}

		api.GET("/contact-info", contactHandler.GetContactInfo)
		api.PUT("/contact-info", contactHandler.UpdateContactInfo)

		locations := api.Group("/locations")
		{
			locations.GET("", contactHandler.ListLocations)
			locations.POST("", contactHandler.CreateLocation)
			locations.PUT("/:id", contactHandler.UpdateLocation)
			locations.DELETE("/:id", contactHandler.DeleteLocation)
		}

		contact := api.Group("/contact")
		{
			contact.POST("", contactHandler.SubmitContactMessage)
			contact.GET("/messages", contactHandler.ListContactMessages)
			contact.PUT("/messages/:id/read", contactHandler.MarkMessageRead)
		}

		api.POST("/upload/:kind", uploadHandler.UploadFile)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		logrus.WithField("port", cfg.Port).Info("Catalog service starting")
		if err := router.Run(":" + cfg.Port); err != nil {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-quit
	logrus.Info("Shutting down catalog-service...")
}
