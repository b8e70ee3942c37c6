package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/peopleops-io/workforce-backend-go/internal/config"
	appHTTP "github.com/peopleops-io/workforce-backend-go/internal/handler/http"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/clock"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/cron"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/database"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/jwt"
	"github.com/peopleops-io/workforce-backend-go/internal/repository/postgresql"
	authService "github.com/peopleops-io/workforce-backend-go/internal/service/auth"
	leaveService "github.com/peopleops-io/workforce-backend-go/internal/service/leave"
	"github.com/peopleops-io/workforce-backend-go/internal/service/master"
	timesheetService "github.com/peopleops-io/workforce-backend-go/internal/service/timesheet"
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
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	breakTypeRepo := postgresql.NewBreakTypeRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	approvalStatusRepo := postgresql.NewApprovalStatusRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveBalanceDefaultRepo := postgresql.NewLeaveBalanceDefaultRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	txRunner := postgresql.NewTxRunner(db)
	orgClock := clock.System(cfg.Location())

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	timesheetSvc := timesheetService.NewService(txRunner, sessionRepo, breakTypeRepo, orgClock)
	ledger := leaveService.NewLedger(leaveBalanceRepo, leaveBalanceDefaultRepo, leaveTypeRepo)
	requestSvc := leaveService.NewRequestService(txRunner, ledger, leaveRequestRepo, approvalStatusRepo, leaveTypeRepo, shiftRepo, orgClock)
	masterSvc := master.NewMasterService(breakTypeRepo, leaveTypeRepo, approvalStatusRepo, shiftRepo)
	authSvc := authService.NewAuthService(employeeRepo, JWTService)

	scheduler := cron.NewScheduler()
	timesheetJobs := cron.NewTimesheetJobs(timesheetSvc, cfg.Timesheet.SessionMaxOpen)
	timesheetJobs.RegisterJobs(scheduler, cfg.Timesheet.SweepInterval)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc, employeeRepo)
	leaveHandler := appHTTP.NewLeaveHandler(requestSvc, ledger, employeeRepo)
	masterHandler := appHTTP.NewMasterHandler(masterSvc)

	router := appHTTP.NewRouter(
		JWTService,
		cfg.App.Env,
		cfg.App.AllowedOrigins,
		authHandler,
		timesheetHandler,
		leaveHandler,
		masterHandler,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: addr, Handler: router}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	fmt.Printf("Server running at http://localhost%s\n", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Println("Server error:", err)
	}
}
