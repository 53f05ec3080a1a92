package taxslab

import (
	"hrms-payroll/internal/middleware"
	"hrms-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	slabs := r.Group("/tax-slabs")
	slabs.Use(middleware.AuthMiddleware())
	{
		slabs.GET("/active", middleware.RBACAuthorize(rbacService, "taxslab", "read"), handler.GetActive)
		slabs.PUT("", middleware.RBACAuthorize(rbacService, "taxslab", "update"), handler.Upsert)
	}
}
