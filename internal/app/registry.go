package app

import (
	"database/sql"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/creditunion"
	"go-payroll/internal/eligibility"
	"go-payroll/internal/employee"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/salaryitem"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/tax"
	"go-payroll/internal/voucher"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	taxRepo := tax.NewRepository(gormDB)
	salaryItemRepo := salaryitem.NewRepository(gormDB)
	creditUnionRepo := creditunion.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath, cfg.RBACPolicyPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	resolver := eligibility.NewResolver(employeeRepo)
	employeeService := employee.NewService(employeeRepo)
	taxService := tax.NewService(db, taxRepo, rdb)
	salaryItemService := salaryitem.NewService(db, salaryItemRepo, employeeRepo, resolver)
	creditUnionService := creditunion.NewService(db, creditUnionRepo, resolver)
	loanService := loan.NewService(db, loanRepo, employeeRepo, outboxRepo)
	payrollService := payroll.NewService(
		db,
		payrollRepo,
		resolver,
		salaryItemRepo,
		creditUnionRepo,
		loanRepo,
		taxService,
		counterRepo,
		payroll.WithOutbox(outboxRepo),
		payroll.WithRunLock(payroll.NewRedisRunLock(redislock.New(rdb), cfg.RunLockTTL)),
		payroll.WithAuditLogger(bootstrap.NewStdoutAuditLogger()),
	)
	voucherService := voucher.NewService(payrollRepo, employeeRepo)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	taxHandler := tax.NewHandler(taxService)
	salaryItemHandler := salaryitem.NewHandler(salaryItemService)
	creditUnionHandler := creditunion.NewHandler(creditUnionService)
	loanHandler := loan.NewHandler(loanService)
	payrollHandler := payroll.NewHandler(payrollService, rdb)
	voucherHandler := voucher.NewHandler(voucherService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		tax.RegisterRoutes(api, taxHandler, rbacService)
		salaryitem.RegisterRoutes(api, salaryItemHandler, rbacService)
		creditunion.RegisterRoutes(api, creditUnionHandler, rbacService)
		loan.RegisterRoutes(api, loanHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		voucher.RegisterRoutes(api, voucherHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
