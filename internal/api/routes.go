package api

import (
	"alcyxob/fitness-community/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	cookies CookieConfig,
	authService service.AuthService,
	planService service.PlanService,
	forumService service.ForumService,
) {
	router.SetHTMLTemplate(loadTemplates())

	authHandler := NewAuthHandler(authService, cookies)
	planHandler := NewPlanHandler(planService)
	forumHandler := NewForumHandler(forumService)
	pageHandler := NewPageHandler(planService, forumService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	site := router.Group("")
	site.Use(SessionMiddleware(authService, cookies))
	{
		// --- Pages ---
		site.GET("/", pageHandler.Home)
		site.GET("/wywiad", pageHandler.Survey)
		site.GET("/forum", pageHandler.Forum)
		site.GET("/plan", RequireSessionRedirect("info", "You need to be logged in to see your plan!"), pageHandler.Plans)

		// --- Auth ---
		site.GET("/register", authHandler.RegisterForm)
		site.POST("/register", authHandler.Register)
		site.GET("/login", authHandler.LoginForm)
		site.POST("/login", authHandler.Login)
		site.GET("/logout", authHandler.Logout)

		// --- Plans (JSON) ---
		plansAuth := RequireSessionJSON("Unauthorized")
		site.POST("/save_plan", plansAuth, planHandler.SavePlan)
		site.POST("/delete_plan/:plan_id", IntParam("plan_id"), plansAuth, planHandler.DeletePlan)
		site.POST("/export_plan/:plan_id", IntParam("plan_id"), plansAuth, planHandler.ExportPlan)

		// --- Forum ---
		site.POST("/add_post", RequireSessionRedirect("error", "Please login to post."), forumHandler.AddPost)
		site.POST("/add_comment/:post_id", IntParam("post_id"), RequireSessionRedirect("error", "Please login to comment."), forumHandler.AddComment)
		site.GET("/react/:post_id/:reaction_type", IntParam("post_id"), RequireSessionJSON("Login required"), forumHandler.React)
		site.POST("/delete_post/:post_id", IntParam("post_id"), RequireSessionRedirect("error", "Login required."), forumHandler.DeletePost)
		site.POST("/delete_comment/:comment_id", IntParam("comment_id"), RequireSessionRedirect("error", "Login required."), forumHandler.DeleteComment)

		apiGroup := site.Group("/api")
		apiGroup.GET("/forum", forumHandler.ForumJSON)
		apiGroup.GET("/plans", plansAuth, planHandler.ListPlans)
	}
}
