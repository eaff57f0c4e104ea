package repositories

import "context"

// Repository aggregates every repository interface behind one accessor.
type Repository interface {
	User() UserRepository
	Classroom() ClassroomRepository
	Membership() MembershipRepository
	Assignment() AssignmentRepository
	Submission() SubmissionRepository
	Notification() NotificationRepository
	Stream() StreamRepository
	Paper() PaperRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
