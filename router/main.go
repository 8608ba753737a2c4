package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/config"
	"github.com/sahilchouksey/practice-tracker/database"
	"github.com/sahilchouksey/practice-tracker/handlers"
	admin_handlers "github.com/sahilchouksey/practice-tracker/handlers/admin"
	assignment_handlers "github.com/sahilchouksey/practice-tracker/handlers/assignment"
	auth_handlers "github.com/sahilchouksey/practice-tracker/handlers/auth"
	catalog_handlers "github.com/sahilchouksey/practice-tracker/handlers/catalog"
	evaluation_handlers "github.com/sahilchouksey/practice-tracker/handlers/evaluation"
	group_handlers "github.com/sahilchouksey/practice-tracker/handlers/group"
	message_handlers "github.com/sahilchouksey/practice-tracker/handlers/message"
	resource_handlers "github.com/sahilchouksey/practice-tracker/handlers/resource"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils"
	"github.com/sahilchouksey/practice-tracker/utils/auth"
	"github.com/sahilchouksey/practice-tracker/utils/cache"
	"github.com/sahilchouksey/practice-tracker/utils/middleware"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is not set")

// SetupRoutes wires services and handlers onto app. The returned cleanup
// releases the redis connection when one was opened.
func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnvironmentVariable) (func(), error) {
	if env.JWT_SECRET == "" {
		return nil, ErrMissingJWTSecret
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        env.JWT_ISSUER,
	})

	db := store.GetDB()
	cleanup := func() {}

	// Brute force protection needs redis; without it login is unthrottled.
	var bruteForceProtection *middleware.BruteForceProtection
	if env.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(env.REDIS_URL, "practice:")
		if err != nil {
			log.Warnf("Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
		} else {
			bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
			cleanup = func() { redisCache.Close() }
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	staffOnly := middleware.RequireRole(model.RoleStaff)

	// Services
	audit := services.NewAuditService(db)
	access := services.NewAccessService(db, auth.NewBcryptHasher(env.BCRYPT_COST), audit)
	groupService := services.NewGroupService(db, audit)
	orderService := services.NewOrderService(db, audit)
	assignmentService := services.NewAssignmentService(db, audit)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(access, jwtManager, auth.NewBlacklistService(db), bruteForceProtection)
	userHandler := admin_handlers.NewUserHandler(access)
	auditHandler := admin_handlers.NewAuditHandler(audit)
	groupHandler := group_handlers.NewGroupHandler(groupService, orderService)
	baseHandler := catalog_handlers.NewBaseHandler(services.NewBaseService(db, audit))
	stageHandler := catalog_handlers.NewStageHandler(services.NewStageService(db, audit))
	assignmentHandler := assignment_handlers.NewAssignmentHandler(assignmentService)
	evaluationHandler := evaluation_handlers.NewEvaluationHandler(assignmentService, services.NewEvaluationService(db))
	messageHandler := message_handlers.NewMessageHandler(services.NewMessageService(db))
	resourceHandler := resource_handlers.NewResourceHandler(services.NewResourceService(db))

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
		DisableAccessLog:  env.GO_ENV == "test",
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", bruteForceProtection.CheckLockout(), authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Everything below requires a valid access token
	required := authMiddleware.Required()

	authGroup.Post("/logout", required, authHandler.Logout)
	authGroup.Post("/logout-all", required, authHandler.LogoutAll)
	api.Get("/profile", required, authHandler.GetProfile)
	api.Put("/profile", required, authHandler.UpdateProfile)

	// User management (staff)
	users := api.Group("/users", required, staffOnly)
	users.Get("/", userHandler.ListUsers)
	users.Post("/", userHandler.CreateUser)
	users.Put("/:id/role", userHandler.ChangeRole)

	// Groups
	groups := api.Group("/groups", required)
	groups.Get("/", groupHandler.ListGroups)
	groups.Post("/", staffOnly, groupHandler.CreateGroup)
	groups.Get("/:id", groupHandler.GetGroup)
	groups.Put("/:id", staffOnly, groupHandler.UpdateGroup)
	groups.Delete("/:id", staffOnly, groupHandler.DeleteGroup)
	groups.Get("/:id/students", groupHandler.ListStudents)
	groups.Post("/:id/students", staffOnly, groupHandler.AddStudent)
	groups.Delete("/:id/students/:student_id", staffOnly, groupHandler.RemoveStudent)
	groups.Get("/:id/orders", groupHandler.ListOrders)
	groups.Post("/:id/orders", staffOnly, groupHandler.CreateOrder)
	api.Delete("/orders/:id", required, staffOnly, groupHandler.DeleteOrder)

	// Bases
	bases := api.Group("/bases", required)
	bases.Get("/", baseHandler.ListBases)
	bases.Post("/", staffOnly, baseHandler.CreateBase)
	bases.Get("/:id", baseHandler.GetBase)
	bases.Put("/:id", staffOnly, baseHandler.UpdateBase)
	bases.Delete("/:id", staffOnly, baseHandler.DeleteBase)

	// Stages
	stages := api.Group("/stages", required)
	stages.Get("/", stageHandler.ListStages)
	stages.Post("/", staffOnly, stageHandler.CreateStage)
	stages.Get("/:id", stageHandler.GetStage)
	stages.Put("/:id", staffOnly, stageHandler.UpdateStage)
	stages.Delete("/:id", staffOnly, stageHandler.DeleteStage)

	// Assignments, evaluations and reports
	assignments := api.Group("/assignments", required)
	assignments.Get("/", assignmentHandler.ListAssignments)
	assignments.Post("/batch", staffOnly, assignmentHandler.CreateBatch)
	assignments.Get("/:id", assignmentHandler.GetAssignment)
	assignments.Put("/:id", staffOnly, assignmentHandler.UpdateAssignment)
	assignments.Delete("/:id", staffOnly, assignmentHandler.DeleteAssignment)
	assignments.Get("/:id/evaluations", evaluationHandler.ListEvaluations)
	assignments.Post("/:id/evaluations", evaluationHandler.AddEvaluation)
	assignments.Get("/:id/reports", evaluationHandler.ListReports)
	assignments.Post("/:id/reports", evaluationHandler.AddReport)

	// Messages
	messages := api.Group("/messages", required)
	messages.Get("/", messageHandler.Inbox)
	messages.Post("/", messageHandler.Send)
	messages.Get("/:user_id", messageHandler.Conversation)

	// Resources
	resources := api.Group("/resources", required)
	resources.Get("/", resourceHandler.ListResources)
	resources.Post("/", resourceHandler.CreateResource)
	resources.Delete("/:id", resourceHandler.DeleteResource)

	// Audit log (staff)
	api.Get("/audit-logs", required, staffOnly, auditHandler.ListAuditLogs)

	return cleanup, nil
}
