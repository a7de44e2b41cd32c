package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/models"
)

// Handlers groups everything mounted under the API prefix. Exports may be nil when disabled.
type Handlers struct {
	Directory *DirectoryHandler
	Skills    *SkillHandler
	Courses   *CourseHandler
	Profiles  *ProfileHandler
	Account   *AccountHandler
	Exports   *ExportHandler
	Metrics   *MetricsHandler
}

// Register mounts the API routes on group. Authentication comes from the auth service's
// session token, read from cookieName or the Authorization header.
func Register(group *gin.RouterGroup, h Handlers, validator middleware.TokenValidator, cookieName string) {
	authn := middleware.JWT(validator, cookieName)

	skills := group.Group("/skills")
	skills.GET("/search", h.Skills.Search)
	skills.GET("", h.Skills.List)
	skills.GET("/:id", h.Skills.Get)
	skills.POST("", authn, h.Skills.Create)

	courses := group.Group("/courses")
	courses.GET("/search", h.Courses.Search)
	courses.GET("/:id", h.Courses.Get)
	courses.POST("", authn, h.Courses.Create)

	students := group.Group("/students", authn)
	students.GET("", h.Directory.List)
	students.GET("/all", h.Directory.All)
	students.GET("/fields", h.Directory.Fields)
	students.GET("/profile", h.Profiles.ByUser)

	student := group.Group("/student", authn, middleware.RequireRoles(models.RoleStudent))
	student.GET("", h.Profiles.Mine)
	student.POST("", h.Profiles.Create)
	student.PUT("", h.Profiles.Update)

	account := group.Group("/account", authn)
	account.GET("", h.Account.Get)
	account.PATCH("", h.Account.Update)

	if h.Exports != nil {
		recruiters := middleware.RequireRoles(models.RoleRecruiter, models.RoleAdmin)
		students.POST("/exports", recruiters, h.Exports.Create)
		students.GET("/exports/:id", recruiters, h.Exports.Status)
		group.GET("/export/:token", h.Exports.Download)
	}

	if h.Metrics != nil {
		group.GET("/admin/metrics", authn, middleware.RequireRoles(models.RoleAdmin), h.Metrics.System)
	}
}
