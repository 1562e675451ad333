package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jobhive/employer-backend-go/internal/config"
	appHTTP "github.com/jobhive/employer-backend-go/internal/handler/http"
	"github.com/jobhive/employer-backend-go/internal/pkg/bank"
	"github.com/jobhive/employer-backend-go/internal/pkg/database"
	"github.com/jobhive/employer-backend-go/internal/pkg/keylock"
	"github.com/jobhive/employer-backend-go/internal/pkg/token"
	"github.com/jobhive/employer-backend-go/internal/repository/postgresql"
	attendanceService "github.com/jobhive/employer-backend-go/internal/service/attendance"
	employeeService "github.com/jobhive/employer-backend-go/internal/service/employee"
	leaveService "github.com/jobhive/employer-backend-go/internal/service/leave"
	overtimeService "github.com/jobhive/employer-backend-go/internal/service/overtime"
	payrollService "github.com/jobhive/employer-backend-go/internal/service/payroll"
	payslipService "github.com/jobhive/employer-backend-go/internal/service/payslip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	settingsRepo := postgresql.NewOvertimeSettingsRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	tokenService := token.NewService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	gateway := bank.NewStubGateway()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Attendance and leave approval write the same per-day records, so they
	// share one lock table.
	dayLocks := keylock.New()

	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	settingsSvc := overtimeService.NewSettingsService(settingsRepo)
	attendanceSvc := attendanceService.NewAttendanceService(dayLocks, attendanceRepo, employeeRepo, settingsRepo)
	leaveSvc := leaveService.NewLeaveService(dayLocks, leaveRequestRepo, attendanceRepo, employeeRepo, logger)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, attendanceRepo, settingsRepo, gateway, logger)
	payslipSvc := payslipService.NewService(cfg.App.CompanyName)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, settingsSvc, payslipSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(
		tokenService,
		attendanceHandler,
		leaveHandler,
		payrollHandler,
		employeeHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
