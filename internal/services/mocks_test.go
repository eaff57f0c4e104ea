package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/adityasasidhar/quizproject/internal/llm"
	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

// mockRepository wires function-field sub-mocks into the repository
// aggregate so each test overrides only the calls it cares about.
// Unset functions behave like an empty database.
type mockRepository struct {
	user         *mockUserRepo
	classroom    *mockClassroomRepo
	membership   *mockMembershipRepo
	assignment   *mockAssignmentRepo
	submission   *mockSubmissionRepo
	notification *mockNotificationRepo
	stream       *mockStreamRepo
	paper        *mockPaperRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		user:         &mockUserRepo{},
		classroom:    &mockClassroomRepo{},
		membership:   &mockMembershipRepo{},
		assignment:   &mockAssignmentRepo{},
		submission:   &mockSubmissionRepo{},
		notification: &mockNotificationRepo{},
		stream:       &mockStreamRepo{},
		paper:        &mockPaperRepo{},
	}
}

func (m *mockRepository) User() repositories.UserRepository                 { return m.user }
func (m *mockRepository) Classroom() repositories.ClassroomRepository       { return m.classroom }
func (m *mockRepository) Membership() repositories.MembershipRepository     { return m.membership }
func (m *mockRepository) Assignment() repositories.AssignmentRepository     { return m.assignment }
func (m *mockRepository) Submission() repositories.SubmissionRepository     { return m.submission }
func (m *mockRepository) Notification() repositories.NotificationRepository { return m.notification }
func (m *mockRepository) Stream() repositories.StreamRepository             { return m.stream }
func (m *mockRepository) Paper() repositories.PaperRepository               { return m.paper }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

type mockUserRepo struct {
	CreateFunc           func(ctx context.Context, user *models.User) error
	GetByIDFunc          func(ctx context.Context, id uint) (*models.User, error)
	GetByUsernameFunc    func(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameFunc func(ctx context.Context, username string) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	if m.ExistsByUsernameFunc != nil {
		return m.ExistsByUsernameFunc(ctx, username)
	}
	return false, nil
}

type mockClassroomRepo struct {
	CreateFunc           func(ctx context.Context, classroom *models.Classroom) error
	GetByIDFunc          func(ctx context.Context, id uint) (*models.Classroom, error)
	GetByJoinCodeFunc    func(ctx context.Context, code string) (*models.Classroom, error)
	GetByMemberFunc      func(ctx context.Context, userID uint) ([]*models.Classroom, error)
	ExistsByJoinCodeFunc func(ctx context.Context, code string) (bool, error)
	UpdateFunc           func(ctx context.Context, classroom *models.Classroom) error
	DeleteFunc           func(ctx context.Context, id uint) error
}

func (m *mockClassroomRepo) Create(ctx context.Context, tx *gorm.DB, classroom *models.Classroom) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, classroom)
	}
	return nil
}

func (m *mockClassroomRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Classroom, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockClassroomRepo) GetByJoinCode(ctx context.Context, tx *gorm.DB, code string) (*models.Classroom, error) {
	if m.GetByJoinCodeFunc != nil {
		return m.GetByJoinCodeFunc(ctx, code)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockClassroomRepo) GetByMember(ctx context.Context, tx *gorm.DB, userID uint) ([]*models.Classroom, error) {
	if m.GetByMemberFunc != nil {
		return m.GetByMemberFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockClassroomRepo) ExistsByJoinCode(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	if m.ExistsByJoinCodeFunc != nil {
		return m.ExistsByJoinCodeFunc(ctx, code)
	}
	return false, nil
}

func (m *mockClassroomRepo) Update(ctx context.Context, tx *gorm.DB, classroom *models.Classroom) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, classroom)
	}
	return nil
}

func (m *mockClassroomRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockMembershipRepo struct {
	CreateFunc         func(ctx context.Context, membership *models.Membership) error
	GetFunc            func(ctx context.Context, classroomID, userID uint) (*models.Membership, error)
	GetByClassroomFunc func(ctx context.Context, classroomID uint) ([]*models.Membership, error)
	GetStudentsFunc    func(ctx context.Context, classroomID uint) ([]*models.Membership, error)
	ExistsFunc         func(ctx context.Context, classroomID, userID uint) (bool, error)
	DeleteFunc         func(ctx context.Context, classroomID, userID uint) error
}

func (m *mockMembershipRepo) Create(ctx context.Context, tx *gorm.DB, membership *models.Membership) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, membership)
	}
	return nil
}

func (m *mockMembershipRepo) Get(ctx context.Context, tx *gorm.DB, classroomID, userID uint) (*models.Membership, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, classroomID, userID)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockMembershipRepo) GetByClassroom(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Membership, error) {
	if m.GetByClassroomFunc != nil {
		return m.GetByClassroomFunc(ctx, classroomID)
	}
	return nil, nil
}

func (m *mockMembershipRepo) GetStudents(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Membership, error) {
	if m.GetStudentsFunc != nil {
		return m.GetStudentsFunc(ctx, classroomID)
	}
	return nil, nil
}

func (m *mockMembershipRepo) Exists(ctx context.Context, tx *gorm.DB, classroomID, userID uint) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, classroomID, userID)
	}
	return false, nil
}

func (m *mockMembershipRepo) Delete(ctx context.Context, tx *gorm.DB, classroomID, userID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, classroomID, userID)
	}
	return nil
}

type mockAssignmentRepo struct {
	CreateFunc         func(ctx context.Context, assignment *models.Assignment) error
	GetByIDFunc        func(ctx context.Context, id uint) (*models.Assignment, error)
	ListFunc           func(ctx context.Context, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error)
	GetByClassroomFunc func(ctx context.Context, classroomID uint) ([]*models.Assignment, error)
	DeleteFunc         func(ctx context.Context, id uint) error
}

func (m *mockAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, assignment)
	}
	return nil
}

func (m *mockAssignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockAssignmentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return nil, 0, nil
}

func (m *mockAssignmentRepo) GetByClassroom(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Assignment, error) {
	if m.GetByClassroomFunc != nil {
		return m.GetByClassroomFunc(ctx, classroomID)
	}
	return nil, nil
}

func (m *mockAssignmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockSubmissionRepo struct {
	UpsertFunc               func(ctx context.Context, submission *models.Submission) error
	GetFunc                  func(ctx context.Context, assignmentID, userID uint) (*models.Submission, error)
	GetByAssignmentFunc      func(ctx context.Context, assignmentID uint) ([]*models.Submission, error)
	GetByUserInClassroomFunc func(ctx context.Context, classroomID, userID uint) ([]*models.Submission, error)
	ListFunc                 func(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error)
	UpdateFunc               func(ctx context.Context, submission *models.Submission) error
}

func (m *mockSubmissionRepo) Upsert(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, submission)
	}
	return nil
}

func (m *mockSubmissionRepo) Get(ctx context.Context, tx *gorm.DB, assignmentID, userID uint) (*models.Submission, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, assignmentID, userID)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSubmissionRepo) GetByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Submission, error) {
	if m.GetByAssignmentFunc != nil {
		return m.GetByAssignmentFunc(ctx, assignmentID)
	}
	return nil, nil
}

func (m *mockSubmissionRepo) GetByUserInClassroom(ctx context.Context, tx *gorm.DB, classroomID, userID uint) ([]*models.Submission, error) {
	if m.GetByUserInClassroomFunc != nil {
		return m.GetByUserInClassroomFunc(ctx, classroomID, userID)
	}
	return nil, nil
}

func (m *mockSubmissionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return nil, 0, nil
}

func (m *mockSubmissionRepo) Update(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, submission)
	}
	return nil
}

type mockNotificationRepo struct {
	CreateFunc      func(ctx context.Context, notification *models.Notification) error
	CreateBatchFunc func(ctx context.Context, notifications []*models.Notification) error
	ExistsFunc      func(ctx context.Context, userID, assignmentID uint, kind models.NotificationKind) (bool, error)
	ListFunc        func(ctx context.Context, filters repositories.NotificationFilters) ([]*models.Notification, int64, error)
	MarkReadFunc    func(ctx context.Context, id, userID uint) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, notification)
	}
	return nil
}

func (m *mockNotificationRepo) CreateBatch(ctx context.Context, tx *gorm.DB, notifications []*models.Notification) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, notifications)
	}
	return nil
}

func (m *mockNotificationRepo) Exists(ctx context.Context, tx *gorm.DB, userID, assignmentID uint, kind models.NotificationKind) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, userID, assignmentID, kind)
	}
	return false, nil
}

func (m *mockNotificationRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return nil, 0, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, id, userID uint) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id, userID)
	}
	return repositories.ErrNotFound
}

type mockStreamRepo struct {
	CreatePostFunc          func(ctx context.Context, post *models.Post) error
	GetPostFunc             func(ctx context.Context, id uint) (*models.Post, error)
	GetPostsByClassroomFunc func(ctx context.Context, classroomID uint) ([]*models.Post, error)
	DeletePostFunc          func(ctx context.Context, id uint) error
	CreateCommentFunc       func(ctx context.Context, comment *models.Comment) error
	UpsertReactionFunc      func(ctx context.Context, reaction *models.Reaction) error
	DeleteReactionFunc      func(ctx context.Context, postID, userID uint) error
}

func (m *mockStreamRepo) CreatePost(ctx context.Context, tx *gorm.DB, post *models.Post) error {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, post)
	}
	return nil
}

func (m *mockStreamRepo) GetPost(ctx context.Context, tx *gorm.DB, id uint) (*models.Post, error) {
	if m.GetPostFunc != nil {
		return m.GetPostFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockStreamRepo) GetPostsByClassroom(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Post, error) {
	if m.GetPostsByClassroomFunc != nil {
		return m.GetPostsByClassroomFunc(ctx, classroomID)
	}
	return nil, nil
}

func (m *mockStreamRepo) DeletePost(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.DeletePostFunc != nil {
		return m.DeletePostFunc(ctx, id)
	}
	return nil
}

func (m *mockStreamRepo) CreateComment(ctx context.Context, tx *gorm.DB, comment *models.Comment) error {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, comment)
	}
	return nil
}

func (m *mockStreamRepo) UpsertReaction(ctx context.Context, tx *gorm.DB, reaction *models.Reaction) error {
	if m.UpsertReactionFunc != nil {
		return m.UpsertReactionFunc(ctx, reaction)
	}
	return nil
}

func (m *mockStreamRepo) DeleteReaction(ctx context.Context, tx *gorm.DB, postID, userID uint) error {
	if m.DeleteReactionFunc != nil {
		return m.DeleteReactionFunc(ctx, postID, userID)
	}
	return nil
}

type mockPaperRepo struct {
	SaveFunc   func(ctx context.Context, spec models.ExamSpec, rawJSON []byte) (*models.PaperArtifact, error)
	LoadFunc   func(ctx context.Context, path string) (models.Paper, error)
	ExistsFunc func(path string) bool
	ListFunc   func(ctx context.Context, family models.ExamFamily) ([]string, error)
}

func (m *mockPaperRepo) Save(ctx context.Context, spec models.ExamSpec, rawJSON []byte) (*models.PaperArtifact, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, spec, rawJSON)
	}
	return &models.PaperArtifact{Family: spec.Family, Path: "mock.json"}, nil
}

func (m *mockPaperRepo) Load(ctx context.Context, path string) (models.Paper, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, path)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockPaperRepo) Exists(path string) bool {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(path)
	}
	return false
}

func (m *mockPaperRepo) List(ctx context.Context, family models.ExamFamily) ([]string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, family)
	}
	return nil, nil
}

// mockGenerator returns canned model output.
type mockGenerator struct {
	Response string
	Err      error
	Requests []llm.Request
}

func (m *mockGenerator) GenerateStructured(ctx context.Context, req llm.Request) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
