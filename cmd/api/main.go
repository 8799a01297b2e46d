package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/DiegoNoguez/Asistencia-RFID/api/swagger"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/handler"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/middleware"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/repository"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/service"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/cache"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/config"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/database"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/logger"
	corsmiddleware "github.com/DiegoNoguez/Asistencia-RFID/pkg/middleware/cors"
	reqidmiddleware "github.com/DiegoNoguez/Asistencia-RFID/pkg/middleware/requestid"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/storage"
)

// @title Asistencia RFID API
// @version 1.0.0
// @description School attendance backend fed by RFID kiosk terminals
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(context.Background(), cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// The summary cache is optional. Without Redis every lookup hits the
	// database, which is fine for a single school.
	var redisClient *redis.Client
	if cfg.Summaries.CacheEnabled {
		redisClient, err = cache.Connect(context.Background(), cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, summary cache disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init report storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	studentRepo := repository.NewStudentRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	teacherAttendanceRepo := repository.NewTeacherAttendanceRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	summarySvc := service.NewSummaryService(summaryRepo, studentRepo, subjectRepo, cacheRepo, cfg.Summaries, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, teacherAttendanceRepo, summarySvc, nil, logr)
	lookupSvc := service.NewLookupService(studentRepo, staffRepo, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, attendanceRepo, cfg.Kiosk.ClassDuration, logr)
	authSvc := service.NewAuthService(studentRepo, staffRepo, nil, logr, cfg.JWT)
	studentSvc := service.NewStudentService(studentRepo, nil, logr, cfg.Kiosk.DefaultGroup)
	staffSvc := service.NewStaffService(staffRepo, subjectRepo, logr)
	reportSvc := service.NewReportService(summaryRepo, store, signer, cfg.Reports, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reportSvc.Start(ctx)
	defer reportSvc.Stop()
	go reportSvc.RunCleanup(ctx)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, summarySvc, studentSvc, scheduleSvc)
	staffHandler := handler.NewStaffHandler(staffSvc, scheduleSvc)
	terminalHandler := handler.NewTerminalHandler(lookupSvc, scheduleSvc, attendanceSvc, metricsSvc)
	reportHandler := handler.NewReportHandler(reportSvc, metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, authSvc, authHandler, studentHandler, attendanceHandler, staffHandler, terminalHandler, reportHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	authSvc *service.AuthService,
	auth *handler.AuthHandler,
	students *handler.StudentHandler,
	attendance *handler.AttendanceHandler,
	staff *handler.StaffHandler,
	terminal *handler.TerminalHandler,
	reports *handler.ReportHandler,
) {
	requireAuth := middleware.JWT(authSvc)
	requireAdmin := middleware.RequireRoles(models.RoleAdmin)

	r.POST("/login", auth.Login)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/alumnos", students.List)
		api.POST("/alumnos", requireAuth, requireAdmin, students.Create)
		api.GET("/alumnos/:matricula", students.Get)
		api.DELETE("/alumnos/:matricula", requireAuth, requireAdmin, students.Delete)

		api.GET("/asistencias", attendance.List)
		api.POST("/asistencias", requireAuth, attendance.Create)
		api.GET("/asistencias/verificar-duplicado/", attendance.CheckDuplicate)
		api.GET("/asistencias/resumen-alumno/:matricula", attendance.StudentSummary)
		api.GET("/asistencias/resumen-materia/:claveM/:numGrup", attendance.SubjectSummary)
		api.GET("/asistencias/pase-lista-grupo/:numGrup", attendance.GroupRollCall)
		api.GET("/asistencias/horario-alumno/:matricula", attendance.WeeklySchedule)

		api.GET("/profesor/:claveP/materias", staff.Subjects)
	}

	r.GET("/profesores/:claveP/horario", staff.Schedule)
	r.GET("/asistencia-profesores/", attendance.TeacherSummaries)

	// Kiosk terminals authenticate by network placement, not tokens.
	terminalGroup := r.Group("/terminal")
	{
		terminalGroup.GET("/buscar-alumno", terminal.FindStudent)
		terminalGroup.GET("/buscar-profesor", terminal.FindTeacher)
		terminalGroup.POST("/registrar-asistencia", terminal.RecordAttendance)
		terminalGroup.POST("/registrar-asistencia-profesor", terminal.RecordTeacherAttendance)
	}

	reportGroup := r.Group("/reportes")
	{
		reportGroup.GET("/excel_asistencias", reports.StudentReport)
		reportGroup.GET("/excel_asistencias_profesor", reports.TeacherReport)
		reportGroup.GET("/descargas/:token", reports.Download)
	}
}
