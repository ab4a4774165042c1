package main

import (
	"fmt"
	"log"
	"net/http"

	"vivah/backend/internal/auth"
	"vivah/backend/internal/blob"
	"vivah/backend/internal/config"
	"vivah/backend/internal/database"
	"vivah/backend/internal/handler"
	"vivah/backend/internal/hub"
	"vivah/backend/internal/notify"
	"vivah/backend/internal/otp"
	"vivah/backend/internal/receipt"
	"vivah/backend/internal/service/chat"
	"vivah/backend/internal/service/interest"
	"vivah/backend/internal/service/match"
	"vivah/backend/internal/service/premium"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	// Swagger imports
	_ "vivah/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Vivah API
// @version         1.0
// @description     This is the API for the Vivah matrimony service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
	})

	var notifier notify.Notifier
	if config.AppConfig.SMTPHost != "" {
		notifier = &notify.SMTPNotifier{
			Host:     config.AppConfig.SMTPHost,
			Port:     config.AppConfig.SMTPPort,
			From:     config.AppConfig.SMTPFrom,
			Password: config.AppConfig.SMTPPassword,
		}
	} else {
		log.Println("Warning: SMTP not configured, logging notifications instead")
		notifier = &notify.LogNotifier{}
	}
	dispatcher := notify.NewDispatcher(notifier)
	defer dispatcher.Close()

	var blobStore blob.Store
	if config.AppConfig.CloudinaryURL != "" {
		store, err := blob.NewCloudinaryStore(config.AppConfig.CloudinaryURL)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
		blobStore = store
	} else {
		log.Fatal("CLOUDINARY_URL is required")
	}

	loc := config.AppConfig.Location()

	premiumService := premium.NewService(
		premium.NewGormRepository(database.DB),
		premium.NewStripeGateway(config.AppConfig.StripeSecretKey),
		config.AppConfig.PremiumDurationDays,
		loc,
	)
	interestService := interest.NewService(
		interest.NewGormRepository(database.DB),
		premiumService,
		dispatcher,
		config.AppConfig.FreeInterestsPerDay,
		loc,
	)

	handler.Init(handler.Deps{
		Match:    match.NewService(database.DB, config.AppConfig.PageSize, loc),
		Interest: interestService,
		Chat:     chat.NewService(chat.NewGormRepository(database.DB)),
		Premium:  premiumService,
		Receipt:  receipt.NewService(receipt.NewGormRepository(database.DB), receipt.NewPDFRenderer(""), 10),
		OTP:      otp.NewStore(redisClient),
		Notify:   dispatcher,
		Blob:     blobStore,
		Hub:      hub.GlobalHub,
	})

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/otp", handler.RequestOTP)
			authRoutes.POST("/otp/verify", handler.VerifyOTP)
			authRoutes.POST("/login", handler.Login)
		}

		// Feedback is open to anonymous callers but links the account
		// when a valid token is present.
		apiV1.POST("/feedback", auth.OptionalAuthMiddleware(), handler.SubmitFeedback)

		// Own profile routes (protected)
		profileRoutes := apiV1.Group("/profiles/me")
		profileRoutes.Use(auth.AuthMiddleware())
		{
			profileRoutes.GET("", handler.GetMyProfile)
			profileRoutes.PUT("", handler.UpdateMyProfile)
			profileRoutes.POST("/photo", handler.UploadProfilePhoto)
			profileRoutes.POST("/identity-proof", handler.UploadIdentityProof)
			profileRoutes.POST("/gallery", handler.UploadGalleryImages)
			profileRoutes.DELETE("/gallery/:uid", handler.DeleteGalleryImage)
		}

		// Premium and events only need authentication
		authedRoutes := apiV1.Group("")
		authedRoutes.Use(auth.AuthMiddleware())
		{
			authedRoutes.POST("/premium", handler.Subscribe)
			authedRoutes.GET("/premium", handler.GetPremium)
			authedRoutes.GET("/events", handler.StreamEvents)
		}

		// Matching, interests and chat require a complete, verified member
		memberRoutes := apiV1.Group("")
		memberRoutes.Use(auth.AuthMiddleware(), auth.MemberMiddleware())
		{
			memberRoutes.GET("/matches", handler.ListCandidates)
			memberRoutes.GET("/matches/filters", handler.FilterOptions)
			memberRoutes.GET("/members/:uid", handler.GetProfileByUID)

			memberRoutes.POST("/interests", handler.SendInterest)
			memberRoutes.GET("/interests", handler.ListInterests)
			memberRoutes.POST("/interests/:uid/accept", handler.AcceptInterest)
			memberRoutes.POST("/interests/:uid/reject", handler.RejectInterest)

			memberRoutes.GET("/chats", handler.ListConversations)
			memberRoutes.GET("/chats/unseen", handler.UnseenSummary)
			memberRoutes.GET("/chats/:uid", handler.OpenConversation)
			memberRoutes.POST("/chats/:uid", handler.SendMessage)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			receipts := adminRoutes.Group("/receipts")
			{
				receipts.POST("", handler.CreateReceipt)
				receipts.GET("", handler.ListReceipts)
				receipts.GET("/outstanding", handler.OutstandingDues)
				receipts.GET("/:uid", handler.GetReceipt)
				receipts.PUT("/:uid", handler.UpdateReceipt)
				receipts.DELETE("/:uid", handler.DeleteReceipt)
				receipts.PUT("/:uid/entries", handler.RecordReceiptEntry)
				receipts.GET("/:uid/pdf", handler.DownloadReceiptPDF)
			}
		}
	}

	fmt.Println("Server is running on " + config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
