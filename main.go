package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"assessment-service/internal/config"
	"assessment-service/internal/db"
	"assessment-service/internal/event"
	"assessment-service/internal/handlers"
	"assessment-service/internal/llm"
	"assessment-service/internal/repository"
	"assessment-service/internal/service"
	"assessment-service/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	gin.SetMode(cfg.GinMode)

	db.InitMongo(cfg.MongoURI)
	defer db.Close()

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, assessment events will not be published")
	}

	database := db.Client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserRepository(database)
	idxCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userRepo.EnsureIndexes(idxCtx); err != nil {
		cancel()
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	cancel()

	assessmentRepo := repository.NewAssessmentRepository(database)
	gateway := llm.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)

	authService := service.NewAuthService(userRepo, assessmentRepo)
	assessmentService := service.NewAssessmentService(assessmentRepo, userRepo, gateway)

	authHandler := handlers.NewAuthHandler(authService)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   cfg.ServiceName,
			"version":   cfg.ServiceVersion,
			"status":    "ok",
			"mongodb":   db.IsConnected(),
			"timestamp": time.Now(),
		})
	})

	r.POST("/register", func(c *gin.Context) {
		authHandler.Register(c)
		if publisher != nil && c.Writer.Status() == http.StatusCreated {
			publisher.Publish("user.registered", gin.H{"timestamp": time.Now()})
		}
	})
	r.POST("/login", authHandler.Login)

	protected := r.Group("")
	protected.Use(authRequired())
	{
		protected.POST("/generate-assessment", func(c *gin.Context) {
			assessmentHandler.GenerateAssessment(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish("assessment.generated", gin.H{
					"user_id":   c.GetString("userId"),
					"timestamp": time.Now(),
				})
			}
		})
		protected.POST("/evaluate", func(c *gin.Context) {
			assessmentHandler.Evaluate(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish("assessment.evaluated", gin.H{
					"user_id":   c.GetString("userId"),
					"timestamp": time.Now(),
				})
			}
		})
		protected.POST("/evaluate-batch", func(c *gin.Context) {
			assessmentHandler.EvaluateBatch(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish("assessment.batch_evaluated", gin.H{
					"user_id":   c.GetString("userId"),
					"timestamp": time.Now(),
				})
			}
		})
		protected.POST("/evaluate-and-generate", func(c *gin.Context) {
			assessmentHandler.EvaluateAndGenerate(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish("assessment.evaluated", gin.H{
					"user_id":   c.GetString("userId"),
					"timestamp": time.Now(),
				})
			}
		})
		protected.GET("/history/:userId", assessmentHandler.History)
	}

	log.Printf("%s %s listening on port %s", cfg.ServiceName, cfg.ServiceVersion, cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// authRequired guards the assessment routes with one consistent bearer
// token check.
func authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := utils.ValidateJWT(utils.BearerToken(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		c.Set("userId", claims.UserID)
		c.Next()
	}
}
