package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/adityasasidhar/quizproject/internal/cache"
	"github.com/adityasasidhar/quizproject/internal/repositories"
	"github.com/adityasasidhar/quizproject/internal/repositories/paperstore"
)

// PostgreSQLRepository implements the aggregate Repository interface.
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	user         repositories.UserRepository
	classroom    repositories.ClassroomRepository
	membership   repositories.MembershipRepository
	assignment   repositories.AssignmentRepository
	submission   repositories.SubmissionRepository
	notification repositories.NotificationRepository
	stream       repositories.StreamRepository
	paper        repositories.PaperRepository
}

// RepositoryConfig holds everything needed to build the repository set.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	PaperRoot   string
	Logger      *slog.Logger
}

func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.user = NewUserPostgreSQL(config.DB)
	repo.classroom = NewClassroomPostgreSQL(config.DB, cacheManager)
	repo.membership = NewMembershipPostgreSQL(config.DB)
	repo.assignment = NewAssignmentPostgreSQL(config.DB, cacheManager)
	repo.submission = NewSubmissionPostgreSQL(config.DB)
	repo.notification = NewNotificationPostgreSQL(config.DB)
	repo.stream = NewStreamPostgreSQL(config.DB)
	repo.paper = paperstore.New(config.PaperRoot, config.Logger)

	return repo
}

func (r *PostgreSQLRepository) User() repositories.UserRepository                 { return r.user }
func (r *PostgreSQLRepository) Classroom() repositories.ClassroomRepository       { return r.classroom }
func (r *PostgreSQLRepository) Membership() repositories.MembershipRepository     { return r.membership }
func (r *PostgreSQLRepository) Assignment() repositories.AssignmentRepository     { return r.assignment }
func (r *PostgreSQLRepository) Submission() repositories.SubmissionRepository     { return r.submission }
func (r *PostgreSQLRepository) Notification() repositories.NotificationRepository { return r.notification }
func (r *PostgreSQLRepository) Stream() repositories.StreamRepository             { return r.stream }
func (r *PostgreSQLRepository) Paper() repositories.PaperRepository               { return r.paper }

// WithTransaction runs fn inside a database transaction. The paper store is
// filesystem-backed and intentionally outside transactional scope.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
			user:         NewUserPostgreSQL(tx),
			classroom:    NewClassroomPostgreSQL(tx, r.cacheManager),
			membership:   NewMembershipPostgreSQL(tx),
			assignment:   NewAssignmentPostgreSQL(tx, r.cacheManager),
			submission:   NewSubmissionPostgreSQL(tx),
			notification: NewNotificationPostgreSQL(tx),
			stream:       NewStreamPostgreSQL(tx),
			paper:        r.paper,
		}
		return fn(txRepo)
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ===== MANAGER =====

type repositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (m *repositoryManager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}
	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
