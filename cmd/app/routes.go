package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"angido/internal/api/controllers"
	"angido/internal/config"
	"angido/internal/models/db_models"
	mem "angido/pkg/memcache"
	"angido/pkg/middleware"
	"angido/pkg/utils"
)

type RouterParams struct {
	fx.In

	Config   *config.Config
	Log      *zap.Logger
	Registry *prometheus.Registry
	Tokens   *utils.TokenManager
	Revoked  mem.RevocationStore

	Accounts      *controllers.AccountController
	Provinces     *controllers.ProvincesController
	Tags          *controllers.TagController
	Places        *controllers.PlaceController
	Reviews       *controllers.ReviewController
	Itineraries   *controllers.ItineraryController
	Suggestions   *controllers.SuggestionController
	Subscriptions *controllers.SubscriptionController
	Dashboard     *controllers.DashboardController
}

func ProvideRouter(p RouterParams) (*gin.Engine, error) {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	corsHandler, err := middleware.CORS(p.Config.CORSAllowedOrigins)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.AccessLog(p.Log))
	r.Use(middleware.Recovery(p.Log))
	r.Use(middleware.Metrics())
	r.Use(corsHandler)

	RegisterRoutes(r, p)

	return r, nil
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})))

	auth := middleware.JWTAuthMiddleware(p.Tokens, p.Revoked)
	v1 := r.Group("/api/v1")

	accountGroup := v1.Group("/accounts")
	accountGroup.POST("/register", p.Accounts.Register)
	accountGroup.POST("/login", p.Accounts.Login)
	accountGroup.POST("/logout", auth, p.Accounts.Logout)
	accountGroup.GET("/me", auth, p.Accounts.Me)
	accountGroup.PUT("/me", auth, p.Accounts.UpdateMe)
	accountGroup.PUT("/me/password", auth, p.Accounts.ChangePassword)

	placeGroup := v1.Group("/places")
	placeGroup.GET("", p.Places.ListPlaces)
	placeGroup.GET("/nearby", p.Places.NearbyPlaces)
	placeGroup.GET("/search", p.Places.SearchPlaces)
	placeGroup.GET("/:id", p.Places.GetPlace)
	placeGroup.GET("/:id/reviews", p.Reviews.ListPlaceReviews)
	placeGroup.POST("/:id/reviews", auth, p.Reviews.CreateReview)

	reviewGroup := v1.Group("/reviews", auth)
	reviewGroup.GET("/me", p.Reviews.ListMyReviews)
	reviewGroup.PUT("/:id", p.Reviews.UpdateReview)
	reviewGroup.DELETE("/:id", p.Reviews.DeleteReview)

	v1.GET("/tags", p.Tags.ListAllTagsHandler)
	v1.GET("/provinces", p.Provinces.GetAllProvinces)
	v1.GET("/plans", p.Subscriptions.ListPlans)

	itineraryGroup := v1.Group("/itineraries", auth)
	itineraryGroup.GET("", p.Itineraries.ListMyItineraries)
	itineraryGroup.POST("", p.Itineraries.CreateItinerary)
	itineraryGroup.GET("/:id", p.Itineraries.GetItinerary)
	itineraryGroup.PUT("/:id", p.Itineraries.UpdateItinerary)
	itineraryGroup.DELETE("/:id", p.Itineraries.DeleteItinerary)
	itineraryGroup.POST("/:id/days", p.Itineraries.AddDay)
	itineraryGroup.POST("/:id/activities", p.Itineraries.AddActivity)
	itineraryGroup.PUT("/:id/activities/:activityId", p.Itineraries.UpdateActivity)
	itineraryGroup.DELETE("/:id/activities/:activityId", p.Itineraries.RemoveActivity)

	aiGroup := v1.Group("/ai/suggestions", auth)
	aiGroup.POST("", p.Suggestions.Suggest)
	aiGroup.GET("/quota", p.Suggestions.Quota)
	aiGroup.GET("/:id", p.Suggestions.GetSuggestion)
	aiGroup.POST("/:id/save", p.Suggestions.SaveSuggestion)

	subGroup := v1.Group("/subscriptions", auth)
	subGroup.GET("/me", p.Subscriptions.GetMySubscription)
	subGroup.POST("/checkout", p.Subscriptions.Checkout)
	subGroup.POST("/cancel", p.Subscriptions.CancelSubscription)

	adminGroup := v1.Group("/admin", auth, middleware.RoleMiddleware(string(db_models.RoleAdmin)))
	adminGroup.GET("/dashboard/stats", p.Dashboard.GetDashboard)
	adminGroup.GET("/accounts", p.Accounts.ListAccounts)
	adminGroup.PUT("/accounts/:id/role", p.Accounts.SetRole)
	adminGroup.PUT("/accounts/:id/status", p.Accounts.SetStatus)
	adminGroup.GET("/places", p.Places.AdminListPlaces)
	adminGroup.POST("/places", p.Places.CreatePlace)
	adminGroup.PUT("/places/:id", p.Places.UpdatePlace)
	adminGroup.DELETE("/places/:id", p.Places.DeletePlace)
	adminGroup.POST("/tags", p.Tags.CreateTagHandler)
	adminGroup.POST("/plans", p.Subscriptions.UpsertPlan)
	adminGroup.GET("/transactions", p.Subscriptions.ListTransactions)
	adminGroup.POST("/transactions/:id/confirm", p.Subscriptions.ConfirmTransaction)
	adminGroup.POST("/transactions/:id/fail", p.Subscriptions.FailTransaction)
	adminGroup.GET("/ai/cache/stats", p.Suggestions.CacheStats)
	adminGroup.DELETE("/ai/cache", p.Suggestions.PurgeCache)
}
