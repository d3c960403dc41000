package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/config"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/http/handler"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/http/middleware"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	domainRepo "github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/repository"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/infrastructure/cache"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/infrastructure/database"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/infrastructure/predictor"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/repository"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/service"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/usecase"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/calendar"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/jwt"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/validator"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	deliveryhttp "github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/http"
)

// Run wires the application together and blocks until shutdown.
func Run() error {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.App.Env == "production" {
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := database.RunMigrations(cfg.DB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	// Repositories
	appointmentRepo := repository.NewAppointmentRepository(db)
	hospitalRepo := repository.NewHospitalRepository(db)
	userRepo := repository.NewUserRepository(db)

	if err := seedAdminUser(userRepo, log); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	// Services
	clock := calendar.SystemClock{}
	jwtService := jwt.NewJWTService(cfg.JWT)
	riskPredictor := predictor.NewHTTPPredictor(cfg.Predictor, log)
	notifier := service.NewMailNotifier(cfg.Mail, log)
	availability := service.NewAvailabilityService(log, appointmentRepo)
	features := service.NewFeatureService(log, appointmentRepo, hospitalRepo, cfg.Scheduling.ReferenceCity)
	search := service.NewSlotSearchService(log, appointmentRepo, availability)
	slotLock := service.NewSlotLockService(redisClient, log)
	sweep := service.NewNoShowSweepService(log, appointmentRepo, availability, features, search, riskPredictor, notifier, slotLock, clock, cfg.Scheduling.SweepHour)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, jwtService, redisClient)
	catalogUsecase := usecase.NewCatalogUsecase(hospitalRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(
		log, appointmentRepo, hospitalRepo,
		availability, features, search,
		riskPredictor, notifier, slotLock, clock,
	)

	validate := validator.NewValidator()
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)

	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(log, authUsecase, validate),
		AppointmentHandler: handler.NewAppointmentHandler(log, appointmentUsecase, validate),
		AdminHandler:       handler.NewAdminHandler(log, appointmentUsecase, sweep, clock, validate),
		CatalogHandler:     handler.NewCatalogHandler(log, catalogUsecase),
		AuthMiddleware:     authMiddleware,
	})

	sweep.Start()

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Infof("Server listening on port %s", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down", sig)
	}

	sweep.Stop()
	slotLock.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// seedAdminUser creates the operator account on first boot. The password is
// taken from the environment so no credential ever lands in a migration file.
func seedAdminUser(userRepo domainRepo.UserRepository, log *logrus.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	ctx := context.Background()
	existing, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := userRepo.Create(ctx, &entity.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     entity.RoleAdmin,
	}); err != nil {
		return err
	}

	log.Infof("Seeded admin user %s", email)
	return nil
}
