package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/harshbansal7/bills-lifecycle-system/api/swagger"
	"github.com/harshbansal7/bills-lifecycle-system/internal/dto"
	"github.com/harshbansal7/bills-lifecycle-system/internal/handler"
	"github.com/harshbansal7/bills-lifecycle-system/internal/middleware"
	"github.com/harshbansal7/bills-lifecycle-system/internal/repository"
	"github.com/harshbansal7/bills-lifecycle-system/internal/service"
	"github.com/harshbansal7/bills-lifecycle-system/internal/workflow"
	"github.com/harshbansal7/bills-lifecycle-system/pkg/cache"
	"github.com/harshbansal7/bills-lifecycle-system/pkg/config"
	"github.com/harshbansal7/bills-lifecycle-system/pkg/database"
	"github.com/harshbansal7/bills-lifecycle-system/pkg/logger"
	corsmiddleware "github.com/harshbansal7/bills-lifecycle-system/pkg/middleware/cors"
	reqidmiddleware "github.com/harshbansal7/bills-lifecycle-system/pkg/middleware/requestid"
	"github.com/harshbansal7/bills-lifecycle-system/pkg/storage"
)

// @title Bills Lifecycle API
// @version 1.0.0
// @description Medical reimbursement bill tracking for employees and their dependents
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The filter cache is an optimisation; the API stays up without it.
		logr.Sugar().Warnw("redis unavailable, filter cache disabled", "error", err)
		redisClient = nil
	}

	if err := dto.RegisterValidators(); err != nil {
		logr.Sugar().Fatalw("failed to register validators", "error", err)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	billRepo := repository.NewBillRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	engine := workflow.NewEngine(workflow.NewRegistry())
	metricsSvc := service.NewMetricsService()

	billOpts := []service.BillServiceOption{service.WithCacheMetrics(metricsSvc)}
	if cfg.Cache.Enabled && redisClient != nil {
		billOpts = append(billOpts, service.WithBillCache(cacheRepo, cfg.Cache.TTL))
	}
	billSvc := service.NewBillService(billRepo, employeeRepo, engine, logr, billOpts...)
	employeeSvc := service.NewEmployeeService(employeeRepo, billRepo, logr)
	exportSvc := service.NewExportService(billRepo, cfg.Export.MaxRows)

	var exportJobSvc *service.ExportJobService
	if cfg.Export.SigningSecret != "" {
		exportStore, err := storage.NewLocalStorage(cfg.Export.Dir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export directory", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Export.SigningSecret, cfg.Export.URLTTL)
		exportJobSvc = service.NewExportJobService(exportSvc, exportStore, signer, cfg.Export.Workers, logr)
		exportJobSvc.Start(context.Background())
		defer exportJobSvc.Stop()

		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				exportJobSvc.Cleanup(cfg.Export.URLTTL)
			}
		}()
	} else {
		logr.Sugar().Warnw("EXPORT_SIGNING_SECRET unset, async exports disabled")
	}

	billHandler := handler.NewBillHandler(billSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc, billSvc)
	exportHandler := handler.NewExportHandler(exportSvc, exportJobSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		bills := api.Group("/bills")
		{
			bills.GET("", billHandler.List)
			bills.POST("", billHandler.Create)
			bills.GET("/statuses", billHandler.Statuses)
			bills.GET("/hospitals", billHandler.Hospitals)
			bills.GET("/status/:status", billHandler.ListByStatus)
			bills.POST("/filter", billHandler.Filter)
			bills.GET("/export", exportHandler.Register)
			bills.POST("/export/jobs", exportHandler.EnqueueJob)
			bills.GET("/export/jobs/:jobId", exportHandler.JobStatus)
			bills.GET("/export/download", exportHandler.Download)
			bills.GET("/:id", billHandler.Get)
			bills.PUT("/:id", billHandler.Update)
			bills.DELETE("/:id", billHandler.Delete)
			bills.PUT("/:id/status", billHandler.UpdateStatus)
			bills.GET("/:id/history", billHandler.History)
		}

		employees := api.Group("/employees")
		{
			employees.GET("", employeeHandler.List)
			employees.POST("", employeeHandler.Create)
			employees.GET("/subdivisions", employeeHandler.SubDivisions)
			employees.GET("/:id", employeeHandler.Get)
			employees.PUT("/:id", employeeHandler.Update)
			employees.DELETE("/:id", employeeHandler.Delete)
			employees.GET("/:id/bills", employeeHandler.Bills)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
