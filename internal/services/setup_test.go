package services

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/auth"
	"github.com/SAP-F-2025/skilltree-service/internal/events"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/observability"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/skilltree-service/internal/testutil"
	"github.com/SAP-F-2025/skilltree-service/internal/validator"
)

type testEnv struct {
	ctx       context.Context
	db        *gorm.DB
	repo      repositories.Repository
	clock     *FixedClock
	publisher *events.MockEventPublisher
	metrics   *observability.Metrics
	verifier  auth.CredentialVerifier
	validator *validator.Validator
	services  ServiceManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := testutil.Logger(t)
	db := testutil.DB(t)
	env := &testEnv{
		ctx:       context.Background(),
		db:        db,
		repo:      postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, Logger: logger}),
		clock:     NewFixedClock(testutil.Epoch),
		publisher: events.NewMockEventPublisher(logger),
		metrics:   observability.NewMetrics(),
		verifier:  auth.NewBcryptVerifier(bcrypt.MinCost),
		validator: validator.New(),
	}
	env.services = env.managerFor(t, env.repo)
	return env
}

// managerFor builds services over repo, which may wrap env.repo
func (e *testEnv) managerFor(t *testing.T, repo repositories.Repository) ServiceManager {
	t.Helper()

	sm := NewServiceManager(ServiceDependencies{
		Repo:      repo,
		Logger:    testutil.Logger(t),
		Validator: e.validator,
		Verifier:  e.verifier,
		Clock:     e.clock,
		Publisher: e.publisher,
		Metrics:   e.metrics,
	})
	if err := sm.Initialize(e.ctx); err != nil {
		t.Fatalf("initialize services: %v", err)
	}
	return sm
}

func (e *testEnv) user(t *testing.T, username string, role models.UserRole) *models.User {
	return testutil.SeedUser(t, e.ctx, e.db, username, role)
}

// userWithPassword seeds a user whose hash verifies against password
func (e *testEnv) userWithPassword(t *testing.T, username, password string, role models.UserRole) *models.User {
	t.Helper()
	u := e.user(t, username, role)
	hash, err := e.verifier.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := e.db.Model(u).Update("password_hash", hash).Error; err != nil {
		t.Fatalf("set hash: %v", err)
	}
	u.PasswordHash = hash
	return u
}

func (e *testEnv) tree(t *testing.T, name string, order int) *models.SkillTree {
	return testutil.SeedTree(t, e.ctx, e.db, name, order)
}

func (e *testEnv) node(t *testing.T, treeID uint, level, points int) *models.SkillNode {
	return testutil.SeedNode(t, e.ctx, e.db, treeID, level, points)
}

func strPtr(s string) *string { return &s }
