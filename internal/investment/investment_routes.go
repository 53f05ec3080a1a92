package investment

import (
	"hrms-payroll/internal/middleware"
	"hrms-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	decls := r.Group("/investment-declarations")
	decls.Use(middleware.AuthMiddleware())
	{
		decls.PUT("", middleware.RBACAuthorize(rbacService, "investment", "update"), handler.Declare)
		decls.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "investment", "read"), handler.GetForEmployee)
	}
}
