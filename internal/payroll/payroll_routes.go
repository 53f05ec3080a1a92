package payroll

import (
	"hrms-payroll/internal/middleware"
	"hrms-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		payrolls.GET("/payslip", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.Payslip)
		payrolls.GET("/bank-challan", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.BankChallan)
		payrolls.GET("/annual-report", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.AnnualReport)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetById)
		if redisClient != nil {
			payrolls.POST(
				"/process-attendance",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll", "create"),
				handler.ProcessAttendance,
			)
		} else {
			payrolls.POST("/process-attendance", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.ProcessAttendance)
		}
		payrolls.POST("/:id/payslip/request", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.RequestPayslip)
		payrolls.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.Approve)
		payrolls.POST("/:id/mark-paid", middleware.RBACAuthorize(rbacService, "payroll", "pay"), handler.MarkAsPaid)
	}
}
