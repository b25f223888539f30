package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	bookAppointmentHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/cancel_appointment"
	createExclusionHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/create_exclusion"
	deleteExclusionHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/delete_exclusion"
	getAppointmentHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/get_available_slots"
	getExclusionsHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/get_exclusions"
	getPatientAppointmentsHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/get_patient_appointments"
	getProviderAppointmentsHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/get_provider_appointments"
	getScheduleHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/get_schedule"
	publicBookingHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/public_booking"
	rescheduleAppointmentHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/reschedule_appointment"
	saveScheduleHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/save_schedule"
	updateAppointmentStatusHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/update_appointment_status"
	validateSlotHandler "github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers/validate_slot"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/middleware"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/config"
	appointmentRepo "github.com/m04kA/NutriClinic-SchedulingService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/NutriClinic-SchedulingService/internal/infra/storage/availability"
	exclusionRepo "github.com/m04kA/NutriClinic-SchedulingService/internal/infra/storage/exclusion"
	patientServiceClient "github.com/m04kA/NutriClinic-SchedulingService/internal/integrations/patientservice"
	providerServiceClient "github.com/m04kA/NutriClinic-SchedulingService/internal/integrations/providerservice"
	appointmentsService "github.com/m04kA/NutriClinic-SchedulingService/internal/service/appointments"
	availabilityService "github.com/m04kA/NutriClinic-SchedulingService/internal/service/availability"
	providersService "github.com/m04kA/NutriClinic-SchedulingService/internal/service/providers"
	bookAppointmentUC "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/book_appointment"
	getAvailableSlotsUC "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/get_available_slots"
	publicBookingUC "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/public_booking"
	rescheduleAppointmentUC "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/reschedule_appointment"
	saveWeeklyScheduleUC "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/save_weekly_schedule"
	validateSlotUC "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/validate_slot"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/logger"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/metrics"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/txmanager"
)

const (
	rateLimiterCleanupInterval = time.Minute
	rateLimiterIdleTTL         = 10 * time.Minute
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(*configPath)
		},
	}
}

func runServer(configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting NutriClinic-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	defaultLocation, err := cfg.Scheduling.Location()
	if err != nil {
		return fmt.Errorf("failed to load default timezone: %w", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка БД: с метриками запросов и пула или без
	var executor *dbmetrics.DB
	if cfg.Metrics.Enabled {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		executor = dbmetrics.New(db)
	}

	// Инициализируем репозитории и transaction manager
	appointmentRepository := appointmentRepo.NewRepository(executor)
	availabilityRepository := availabilityRepo.NewRepository(executor)
	exclusionRepository := exclusionRepo.NewRepository(executor)

	txManager := txmanager.NewTransactionManager(
		executor,
		txmanager.WithMaxRetries(cfg.Scheduling.SerializationRetries),
		txmanager.WithRetryBackoff(cfg.Scheduling.SerializationRetryBackoff()),
	)

	// Инициализируем интеграционных клиентов
	providerClient := providerServiceClient.NewClient(cfg.ProviderService.URL, cfg.ProviderService.TimeoutDuration())
	patientClient := patientServiceClient.NewClient(cfg.PatientService.URL, cfg.PatientService.TimeoutDuration(), log)
	log.Info("Integration clients initialized (ProviderService=%s timeout=%ds, PatientService=%s timeout=%ds)",
		cfg.ProviderService.URL, cfg.ProviderService.Timeout, cfg.PatientService.URL, cfg.PatientService.Timeout)

	// Инициализируем сервисы
	providerDirectory := providersService.NewService(providerClient, defaultLocation, log)
	appointmentSvc := appointmentsService.NewService(appointmentRepository, txManager, log)
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		exclusionRepository,
		providerDirectory,
		log,
	)

	// Инициализируем use cases
	maxDuration := cfg.Scheduling.MaxAppointmentDurationMinutes

	slotChecker := validateSlotUC.NewChecker(
		availabilityRepository,
		exclusionRepository,
		appointmentRepository,
	)

	validateSlotUseCase := validateSlotUC.NewUseCase(slotChecker, providerDirectory, metricsCollector, log)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilityRepository,
		exclusionRepository,
		appointmentRepository,
		providerDirectory,
		txManager,
		metricsCollector,
		cfg.Scheduling.OfferedDurations,
		log,
	)

	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		appointmentRepository,
		slotChecker,
		providerDirectory,
		patientClient,
		txManager,
		metricsCollector,
		maxDuration,
		log,
	)

	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		slotChecker,
		providerDirectory,
		txManager,
		metricsCollector,
		maxDuration,
		log,
	)

	saveWeeklyScheduleUseCase := saveWeeklyScheduleUC.NewUseCase(
		availabilityRepository,
		providerDirectory,
		txManager,
		metricsCollector,
		log,
	)

	publicBookingUseCase := publicBookingUC.NewUseCase(
		providerDirectory,
		slotChecker,
		patientClient,
		bookAppointmentUseCase,
		cfg.Scheduling.OfferedDurations,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	validateSlot := validateSlotHandler.NewHandler(validateSlotUseCase, log)
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	saveSchedule := saveScheduleHandler.NewHandler(saveWeeklyScheduleUseCase, log)
	publicBooking := publicBookingHandler.NewHandler(publicBookingUseCase, log)

	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getProviderAppointments := getProviderAppointmentsHandler.NewHandler(appointmentSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentSvc, log)

	getSchedule := getScheduleHandler.NewHandler(availabilitySvc, log)
	getExclusions := getExclusionsHandler.NewHandler(availabilitySvc, log)
	createExclusion := createExclusionHandler.NewHandler(availabilitySvc, log)
	deleteExclusion := deleteExclusionHandler.NewHandler(availabilitySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recovery(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты провайдера на дату
	api.HandleFunc("/providers/{providerId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Повторная проверка выбранного слота
	api.HandleFunc("/providers/{providerId}/slots/validate", validateSlot.Handle).Methods(http.MethodPost)

	// Недельное расписание провайдера
	api.HandleFunc("/providers/{providerId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// --- Публичная запись пациентов (ограничение частоты по IP) ---
	trustedProxies, err := cfg.PublicBooking.TrustedProxyPrefixes()
	if err != nil {
		return fmt.Errorf("failed to parse trusted proxies: %w", err)
	}
	rateLimiter := middleware.NewRateLimiter(
		cfg.PublicBooking.RatePerSecond,
		cfg.PublicBooking.Burst,
		trustedProxies,
		log,
	)
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go rateLimiter.RunCleanup(cleanupCtx, rateLimiterCleanupInterval, rateLimiterIdleTTL)

	public := api.PathPrefix("/public").Subrouter()
	public.Use(rateLimiter.Middleware)

	public.HandleFunc("/organizations/{organizationId}/providers/{providerId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/organizations/{organizationId}/providers/{providerId}/appointments",
		publicBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/providers/{providerId}/appointments", bookAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId}/appointments", getProviderAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// --- Расписание провайдера ---
	protected.HandleFunc("/providers/{providerId}/schedule", saveSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/providers/{providerId}/exclusions", getExclusions.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/exclusions", createExclusion.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId}/exclusions/{exclusionId}", deleteExclusion.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения или падение сервера
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
		close(stopMetricsCh)
		return err
	}

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)
	stopCleanup()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
