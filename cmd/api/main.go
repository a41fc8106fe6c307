package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/rbac"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/realtime"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/attendance-backend-go/internal/service/notification"
	reminderService "github.com/cmlabs-hris/attendance-backend-go/internal/service/reminder"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const version = "v1.0.0"

type repositories struct {
	employees     employee.EmployeeRepository
	attendance    attendance.AttendanceRepository
	leaveRequests leave.LeaveRequestRepository
	notifications notification.Repository
	reports       report.ReportRepository
	close         func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	routerCfg := appHTTP.RouterConfig{
		AppName:        cfg.App.Name,
		Version:        version,
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	}
	logger := appHTTP.NewLogger(routerCfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	g, gctx := errgroup.WithContext(ctx)

	// Real-time delivery
	hub := sse.NewHub()
	var publisher notification.Publisher = realtime.NewHubPublisher(hub)
	if cfg.RealtimeDriver == config.RealtimeDriverRedis {
		client, err := realtime.NewRedisClient(ctx, &redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, 5, 2*time.Second)
		if err != nil {
			return fmt.Errorf("error connecting to redis: %w", err)
		}
		defer client.Close()

		relay := realtime.NewRedisRelay(client, hub, cfg.Redis.Channel)
		publisher = relay
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("redis relay stopped: %w", err)
			}
			return nil
		})
	}

	// Services
	notifSvc := notificationService.NewNotificationService(repos.notifications, publisher, hub)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.employees, loc)
	leaveSvc := leaveService.NewLeaveService(repos.leaveRequests, repos.employees, notifSvc, loc)
	reportSvc := reportService.NewReportService(repos.reports, repos.employees, loc)
	employeeSvc := employeeService.NewEmployeeService(repos.employees, repos.attendance, loc)

	// Reminder scan
	scheduler := cron.NewScheduler()
	if cfg.Reminder.Enabled {
		reminders := reminderService.NewService(repos.attendance, repos.employees, repos.leaveRequests, notifSvc, reminderService.Config{
			CheckInHour:  cfg.Reminder.CheckInHour,
			CheckOutHour: cfg.Reminder.CheckOutHour,
			Location:     loc,
		})
		cron.NewReminderJobs(reminders).RegisterJobs(scheduler, cfg.Reminder.Interval)
		scheduler.Start(ctx)
	}
	defer scheduler.Stop()

	// HTTP
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	enforcer, err := rbac.NewDefaultEnforcer()
	if err != nil {
		return fmt.Errorf("error creating policy enforcer: %w", err)
	}
	limiter := middleware.NewKeyedRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	clock := appHTTP.NewClock(loc)

	router := appHTTP.NewRouter(routerCfg, logger, JWTService, enforcer, limiter, appHTTP.Handlers{
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, clock),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc, clock),
		Notification: appHTTP.NewNotificationHandler(notifSvc, JWTService),
		Report:       appHTTP.NewReportHandler(reportSvc, clock),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc, clock),
		Permission:   appHTTP.NewPermissionHandler(enforcer),
	})

	server := appHTTP.NewServer(fmt.Sprintf(":%d", cfg.App.Port), router)

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.StorageDriver, "realtime", cfg.RealtimeDriver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server", "open_streams", hub.TotalSubscribers())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		slog.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return repositories{
			employees:     store.Employees,
			attendance:    store.Attendance,
			leaveRequests: store.LeaveRequests,
			notifications: store.Notifications,
			reports:       store.Reports,
			close:         func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDBWithConfig(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns:        cfg.Database.MaxConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return repositories{}, fmt.Errorf("error connecting to database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return repositories{}, fmt.Errorf("error migrating database: %w", err)
		}
	}

	return repositories{
		employees:     postgresql.NewEmployeeRepository(db),
		attendance:    postgresql.NewAttendanceRepository(db),
		leaveRequests: postgresql.NewLeaveRequestRepository(db),
		notifications: postgresql.NewNotificationRepository(db),
		reports:       postgresql.NewReportRepository(db),
		close:         db.Close,
	}, nil
}
