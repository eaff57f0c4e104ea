package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/adityasasidhar/quizproject/internal/events"
	"github.com/adityasasidhar/quizproject/internal/llm"
	"github.com/adityasasidhar/quizproject/internal/repositories"
	"github.com/adityasasidhar/quizproject/internal/validator"
)

// ServiceManagerConfig carries the settings services need beyond their
// repository and logger.
type ServiceManagerConfig struct {
	JWTSecret       string
	ContextRoot     string
	RenderRoot      string
	GenerationModel string
	GradingModel    string
}

// serviceManager implements ServiceManager
type serviceManager struct {
	repo           repositories.Repository
	generator      llm.Generator
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
	config         ServiceManagerConfig

	authService         AuthService
	generationService   GenerationService
	renderService       RenderService
	scoringService      ScoringService
	classroomService    ClassroomService
	assignmentService   AssignmentService
	analyticsService    AnalyticsService
	notificationService NotificationService
	reportService       ReportService
	streamService       StreamService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies
func NewServiceManager(repo repositories.Repository, generator llm.Generator, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:           repo,
		generator:      generator,
		eventPublisher: publisher,
		logger:         logger,
		validator:      v,
		config:         config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.config.JWTSecret, sm.logger, sm.validator)
	sm.generationService = NewGenerationService(sm.repo, sm.generator, sm.config.GenerationModel, sm.config.ContextRoot, sm.logger, sm.validator)
	sm.renderService = NewRenderService(sm.repo, sm.config.RenderRoot, sm.logger)
	sm.scoringService = NewScoringService(sm.generator, sm.config.GradingModel, sm.logger)
	sm.classroomService = NewClassroomService(sm.repo, sm.logger, sm.validator)
	sm.notificationService = NewNotificationService(sm.repo, sm.eventPublisher, sm.logger)
	sm.assignmentService = NewAssignmentService(sm.repo, sm.scoringService, sm.notificationService, sm.eventPublisher, sm.logger, sm.validator)
	sm.analyticsService = NewAnalyticsService(sm.repo, sm.logger)
	sm.reportService = NewReportService(sm.repo, sm.logger)
	sm.streamService = NewStreamService(sm.repo, sm.logger, sm.validator)

	sm.initialized = true
	sm.logger.Info("Service manager initialized")
	return nil
}

func (sm *serviceManager) requireInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.requireInitialized()
	return sm.authService
}

func (sm *serviceManager) Generation() GenerationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.requireInitialized()
	return sm.generationService
}

func (sm *serviceManager) Render() RenderService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.requireInitialized()
	return sm.renderService
}

func (sm *serviceManager) Scoring() ScoringService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.requireInitialized()
	return sm.scoringService
}

func (sm *serviceManager) Classroom() ClassroomService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.requireInitialized()
	return sm.classroomService
}

func (sm *serviceManager) Assignment() AssignmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.requireInitialized()
	return sm.assignmentService
}

func (sm *serviceManager) Analytics() AnalyticsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.requireInitialized()
	return sm.analyticsService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.requireInitialized()
	return sm.notificationService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.requireInitialized()
	return sm.reportService
}

func (sm *serviceManager) Stream() StreamService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.requireInitialized()
	return sm.streamService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down")
	return nil
}
