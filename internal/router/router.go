package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/ttc-bicumbi/portal/api/swagger"
	"github.com/ttc-bicumbi/portal/internal/handler"
	"github.com/ttc-bicumbi/portal/internal/middleware"
	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/internal/service"
	"github.com/ttc-bicumbi/portal/pkg/config"
	"github.com/ttc-bicumbi/portal/pkg/logger"
	corsmiddleware "github.com/ttc-bicumbi/portal/pkg/middleware/cors"
	reqidmiddleware "github.com/ttc-bicumbi/portal/pkg/middleware/requestid"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Session *service.SessionService
	View    *service.ViewService
	Teacher *service.TeacherService
	Student *service.StudentService
	Form    *service.FormService
	Export  *service.ExportService
	Metrics *service.MetricsService
	Ready   func() bool
}

// New builds the gin engine with every portal route.
func New(cfg *config.Config, svc Services, logr *zap.Logger) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, func(c *gin.Context) []zap.Field {
		if identity, ok := middleware.IdentityFromContext(c); ok {
			return []zap.Field{zap.String("role", string(identity.Role))}
		}
		return nil
	}))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	if cfg.Metrics.Enabled && svc.Metrics != nil {
		r.Use(middleware.Metrics(svc.Metrics))
	}

	metricsHandler := handler.NewMetricsHandler(svc.Metrics, svc.Ready)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	sessionHandler := handler.NewSessionHandler(svc.Session, handler.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Env == config.EnvProduction,
	})
	viewHandler := handler.NewViewHandler(svc.View)
	formHandler := handler.NewFormHandler(svc.Form)
	teacherHandler := handler.NewTeacherHandler(svc.Teacher, svc.Export)
	studentHandler := handler.NewStudentHandler(svc.Student)
	exportHandler := handler.NewExportHandler(svc.Export)

	api := r.Group(cfg.APIPrefix)
	entered := middleware.Session(svc.Session, cfg.Session.CookieName)

	session := api.Group("/session")
	session.GET("", sessionHandler.Current)
	session.POST("/login", middleware.Audit(logr, "login", "session"), sessionHandler.Login)
	session.POST("/guest", middleware.Audit(logr, "guest", "session"), sessionHandler.Guest)
	session.POST("/logout", entered, middleware.Audit(logr, "logout", "session"), sessionHandler.Logout)

	api.GET("/views", entered, viewHandler.List)
	api.POST("/views/:view", entered, viewHandler.Navigate)

	pages := api.Group("/pages", entered)
	pages.GET("/:view", viewHandler.Page)
	pages.POST("/communication/messages", formHandler.SendMessage)
	pages.POST("/apply/applications", formHandler.SubmitApplication)

	teacher := api.Group("/teacher", entered, middleware.RequireRole(models.RoleTeacher))
	teacher.GET("/dashboard", teacherHandler.Dashboard)
	teacher.GET("/lessons", teacherHandler.Lessons)
	teacher.POST("/lessons", middleware.Audit(logr, "create", "lesson"), teacherHandler.CreateLesson)
	teacher.GET("/assessments", teacherHandler.Assessments)
	teacher.POST("/assessments", middleware.Audit(logr, "create", "assessment"), teacherHandler.CreateAssessment)
	teacher.DELETE("/assessments/:id", middleware.Audit(logr, "delete", "assessment"), teacherHandler.DeleteAssessment)
	teacher.GET("/assessments/:id/grades", teacherHandler.GradeSheet)
	teacher.GET("/assessments/:id/grades/export-link", teacherHandler.ExportLink)
	teacher.GET("/metrics/summary", metricsHandler.Summary)

	student := api.Group("/student", entered, middleware.RequireRole(models.RoleStudent))
	student.GET("/dashboard", studentHandler.Dashboard)
	student.GET("/assessments", studentHandler.Assessments)
	student.POST("/assessments/:id/score", middleware.Audit(logr, "grade", "assessment"), studentHandler.SubmitScore)

	api.GET("/exports/grades", exportHandler.DownloadGrades)

	return r
}
