package app

import (
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jdsuarez23/comfachoco/internal/auth"
	"github.com/jdsuarez23/comfachoco/internal/classification"
	"github.com/jdsuarez23/comfachoco/internal/employee"
	"github.com/jdsuarez23/comfachoco/internal/files"
	"github.com/jdsuarez23/comfachoco/internal/leave"
	"github.com/jdsuarez23/comfachoco/internal/messaging/kafka"
	"github.com/jdsuarez23/comfachoco/internal/middleware"
	"github.com/jdsuarez23/comfachoco/internal/notifier"
	"github.com/jdsuarez23/comfachoco/internal/rbac"
	"github.com/jdsuarez23/comfachoco/internal/rbac/infra"
	"github.com/jdsuarez23/comfachoco/internal/report"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Classification pipeline ---
	aiClient := classification.NewAIClient(classification.AIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
	})
	mlClient := classification.NewMLClient(classification.MLConfig{
		BaseURL: os.Getenv("ML_SERVICE_URL"),
	})
	orchestrator := classification.NewOrchestrator(aiClient, mlClient)

	// --- Collaborators ---
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	fileStore, err := files.NewDiskStore(uploadDir)
	if err != nil {
		return err
	}

	// Events only reach kafka when a broker is configured; dev setups get
	// the log notifier instead.
	var notify notifier.Notifier = notifier.NewLogNotifier()
	if os.Getenv("KAFKA_BROKER") != "" {
		notify = notifier.NewOutboxNotifier(outboxRepo)
	} else {
		zap.L().Warn("KAFKA_BROKER not set, decision events go to the log only")
	}

	// --- Services ---
	authService := auth.NewService(employeeRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, orchestrator, fileStore, notify)
	reportService := report.NewService(reportRepo, leaveRepo, mlClient)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	reportHandler := report.NewHandler(reportService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		report.RegisterRoutes(api, reportHandler, rbacService)
	}

	return nil
}
