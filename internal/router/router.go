package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/config"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/handlers"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
}

// Handlers bundles the constructed handlers the router wires up.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Drafts  *handlers.DraftHandler
	Surveys *handlers.SurveyHandler
	Public  *handlers.PublicHandler
	Results *handlers.ResultsHandler
	Users   handlers.UserStore
}

func Setup(log *zap.Logger, h Handlers) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("surveysession", store))

	// --- Now that sessions are initialized, other middleware can use them ---
	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware(log, h.Users))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 10,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", limiter, h.Auth.Register)
		auth.POST("/login", limiter, h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/verify", h.Auth.Verify)

		// Signed in, but a verified email is not required yet: the
		// verify-email page itself uses these.
		auth.GET("/me", AuthRequired(false), h.Auth.Me)
		auth.POST("/verify/resend", AuthRequired(false), limiter, h.Auth.ResendVerification)
	}

	public := api.Group("/public/surveys")
	{
		public.GET("/:surveyId", h.Public.Get)
		public.POST("/:surveyId/responses", limiter, h.Public.Submit)
	}

	owner := api.Group("/")
	owner.Use(AuthRequired(true))
	{
		surveyRoutes := owner.Group("/surveys")
		{
			surveyRoutes.GET("", h.Surveys.List)
			surveyRoutes.GET("/:surveyId", h.Surveys.Get)
			surveyRoutes.POST("/:surveyId/publish", h.Surveys.Publish)
			surveyRoutes.DELETE("/:surveyId", h.Surveys.Delete)
			surveyRoutes.GET("/:surveyId/results", h.Results.Show)
		}

		draftRoutes := owner.Group("/draft")
		{
			draftRoutes.POST("", h.Drafts.Init)
			draftRoutes.GET("", h.Drafts.Get)
			draftRoutes.DELETE("", h.Drafts.Clear)
			draftRoutes.POST("/load", h.Drafts.Load)
			draftRoutes.PATCH("", h.Drafts.UpdateMetadata)
			draftRoutes.POST("/save", h.Drafts.Save)

			draftRoutes.POST("/questions", h.Drafts.AddQuestion)
			draftRoutes.POST("/questions/reorder", h.Drafts.Reorder)
			draftRoutes.PUT("/questions/:questionId", h.Drafts.UpdateQuestion)
			draftRoutes.DELETE("/questions/:questionId", h.Drafts.RemoveQuestion)

			draftRoutes.POST("/questions/:questionId/options", h.Drafts.AddOption)
			draftRoutes.PUT("/questions/:questionId/options/:optionId", h.Drafts.UpdateOption)
			draftRoutes.DELETE("/questions/:questionId/options/:optionId", h.Drafts.RemoveOption)
		}
	}

	return router
}
