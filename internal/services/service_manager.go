package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/SAP-F-2025/skilltree-service/internal/auth"
	"github.com/SAP-F-2025/skilltree-service/internal/events"
	"github.com/SAP-F-2025/skilltree-service/internal/observability"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/storage"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
	"github.com/SAP-F-2025/skilltree-service/internal/validator"
)

// ServiceDependencies holds everything the services are built from. Only
// Repo, Logger and Validator are required.
type ServiceDependencies struct {
	Repo      repositories.Repository
	Logger    utils.Logger
	Validator *validator.Validator

	Verifier  auth.CredentialVerifier
	Clock     Clock
	Publisher events.EventPublisher
	Metrics   *observability.Metrics
	Blobs     storage.BlobResolver
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps ServiceDependencies

	// Service instances
	identityService     IdentityService
	progressService     ProgressService
	promotionService    PromotionService
	aggregationService  AggregationService
	catalogService      CatalogService
	importExportService ImportExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager, filling optional
// dependencies with their defaults
func NewServiceManager(deps ServiceDependencies) ServiceManager {
	if deps.Verifier == nil {
		deps.Verifier = auth.NewBcryptVerifier(0)
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NoopEventPublisher{}
	}
	if deps.Blobs == nil {
		deps.Blobs = storage.PassthroughResolver{}
	}

	return &serviceManager{deps: deps}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.deps.Repo == nil || sm.deps.Logger == nil || sm.deps.Validator == nil {
		return fmt.Errorf("service manager requires a repository, logger and validator")
	}

	d := sm.deps
	d.Logger.Info("Initializing service manager")

	sm.identityService = NewIdentityService(d.Repo, d.Logger, d.Validator, d.Verifier, d.Clock)
	sm.progressService = NewProgressService(d.Repo, d.Logger, d.Validator, d.Clock, d.Publisher, d.Metrics, d.Blobs)
	sm.promotionService = NewPromotionService(d.Repo, d.Logger, d.Clock, d.Publisher, d.Metrics)
	sm.aggregationService = NewAggregationService(d.Repo, d.Logger)
	sm.catalogService = NewCatalogService(d.Repo, d.Logger, d.Validator, d.Clock)
	sm.importExportService = NewImportExportService(d.Repo, d.Logger)

	sm.initialized = true
	d.Logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Identity() IdentityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.mustBeInitialized()
	return sm.identityService
}

func (sm *serviceManager) Progress() ProgressService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.mustBeInitialized()
	return sm.progressService
}

func (sm *serviceManager) Promotion() PromotionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.mustBeInitialized()
	return sm.promotionService
}

func (sm *serviceManager) Aggregation() AggregationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.mustBeInitialized()
	return sm.aggregationService
}

func (sm *serviceManager) Catalog() CatalogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.mustBeInitialized()
	return sm.catalogService
}

func (sm *serviceManager) ImportExport() ImportExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.mustBeInitialized()
	return sm.importExportService
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

// Shutdown closes the event publisher. The repository belongs to the caller.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if err := sm.deps.Publisher.Close(); err != nil {
		sm.deps.Logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return nil
}
