package app

import (
	"database/sql"
	"path/filepath"

	"hrms-payroll/internal/attendance"
	"hrms-payroll/internal/auth"
	"hrms-payroll/internal/employee"
	"hrms-payroll/internal/holiday"
	"hrms-payroll/internal/investment"
	"hrms-payroll/internal/leave"
	"hrms-payroll/internal/messaging/kafka"
	"hrms-payroll/internal/payroll"
	"hrms-payroll/internal/rbac"
	"hrms-payroll/internal/rbac/infra"
	"hrms-payroll/internal/rbac/rbac_http"
	"hrms-payroll/internal/shared/counter"
	"hrms-payroll/internal/taxslab"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	taxslabRepo := taxslab.NewRepository(gormDB)
	investmentRepo := investment.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb)
	attendanceService := attendance.NewService(db, attendanceRepo)
	leaveService := leave.NewService(db, leaveRepo)
	holidayService := holiday.NewService(db, holidayRepo)
	taxslabService := taxslab.NewService(db, taxslabRepo, rdb)
	investmentService := investment.NewService(investmentRepo)
	payrollService := payroll.NewService(db, payrollRepo, payroll.Feeds{
		Employees:   employeeRepo,
		Attendance:  attendanceRepo,
		Leaves:      leaveRepo,
		Holidays:    holidayRepo,
		Slabs:       taxslabService,
		Investments: investmentService,
	}, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveHandler := leave.NewHandler(leaveService)
	holidayHandler := holiday.NewHandler(holidayService)
	taxslabHandler := taxslab.NewHandler(taxslabService)
	investmentHandler := investment.NewHandler(investmentService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		taxslab.RegisterRoutes(api, taxslabHandler, rbacService)
		investment.RegisterRoutes(api, investmentHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
