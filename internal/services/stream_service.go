package services

import (
	"context"
	"log/slog"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
	"github.com/adityasasidhar/quizproject/internal/validator"
)

type streamService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStreamService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) StreamService {
	return &streamService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *streamService) CreatePost(ctx context.Context, classroomID uint, req *PostCreateRequest, userID uint) (*models.Post, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	membership, err := s.requireMembership(ctx, classroomID, userID)
	if err != nil {
		return nil, err
	}
	// Posting to the stream is teacher-only; students respond in comments
	if membership.Role != models.RoleTeacher {
		return nil, NewPermissionError(userID, classroomID, "post", "create", "only teachers can post announcements")
	}

	post := &models.Post{
		ClassroomID: classroomID,
		AuthorID:    userID,
		Body:        req.Body,
	}
	if err := s.repo.Stream().CreatePost(ctx, nil, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *streamService) ListPosts(ctx context.Context, classroomID, userID uint) ([]*models.Post, error) {
	if _, err := s.requireMembership(ctx, classroomID, userID); err != nil {
		return nil, err
	}
	return s.repo.Stream().GetPostsByClassroom(ctx, nil, classroomID)
}

func (s *streamService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != userID {
		classroom, err := s.repo.Classroom().GetByID(ctx, nil, post.ClassroomID)
		if err != nil {
			return err
		}
		if classroom.OwnerID != userID {
			return NewPermissionError(userID, postID, "post", "delete", "not the author or classroom owner")
		}
	}

	return s.repo.Stream().DeletePost(ctx, nil, postID)
}

func (s *streamService) AddComment(ctx context.Context, postID uint, req *CommentCreateRequest, userID uint) (*models.Comment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMembership(ctx, post.ClassroomID, userID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: userID,
		Body:     req.Body,
	}
	if err := s.repo.Stream().CreateComment(ctx, nil, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *streamService) React(ctx context.Context, postID uint, req *ReactionRequest, userID uint) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if _, err := s.requireMembership(ctx, post.ClassroomID, userID); err != nil {
		return err
	}

	return s.repo.Stream().UpsertReaction(ctx, nil, &models.Reaction{
		PostID: postID,
		UserID: userID,
		Emoji:  req.Emoji,
	})
}

func (s *streamService) Unreact(ctx context.Context, postID, userID uint) error {
	if _, err := s.getPost(ctx, postID); err != nil {
		return err
	}
	return s.repo.Stream().DeleteReaction(ctx, nil, postID, userID)
}

func (s *streamService) getPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.repo.Stream().GetPost(ctx, nil, postID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *streamService) requireMembership(ctx context.Context, classroomID, userID uint) (*models.Membership, error) {
	membership, err := s.repo.Membership().Get(ctx, nil, classroomID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return membership, nil
}
