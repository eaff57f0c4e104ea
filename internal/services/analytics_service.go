package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

// trendBand is the dead zone, in percentage points, within which recent
// performance counts as steady.
const trendBand = 2.0

type analyticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger) AnalyticsService {
	return &analyticsService{repo: repo, logger: logger}
}

func (s *analyticsService) ClassroomOverview(ctx context.Context, classroomID, teacherID uint) (*ClassroomAnalytics, error) {
	classroom, err := s.repo.Classroom().GetByID(ctx, nil, classroomID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	if classroom.OwnerID != teacherID {
		return nil, NewPermissionError(teacherID, classroomID, "classroom", "view_analytics", "not the owner")
	}

	students, err := s.repo.Membership().GetStudents(ctx, nil, classroomID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment().GetByClassroom(ctx, nil, classroomID)
	if err != nil {
		return nil, err
	}

	overview := &ClassroomAnalytics{
		ClassroomID:  classroomID,
		StudentCount: len(students),
		Assignments:  make([]AssignmentStats, 0, len(assignments)),
	}

	var sum float64
	var graded int
	for _, a := range assignments {
		submissions, err := s.repo.Submission().GetByAssignment(ctx, nil, a.ID)
		if err != nil {
			return nil, err
		}

		late := 0
		for _, sub := range submissions {
			if sub.Late {
				late++
			}
			sum += sub.Percentage
			graded++
		}

		overview.Assignments = append(overview.Assignments, AssignmentStats{
			AssignmentID:    a.ID,
			Title:           a.Title,
			SubmissionCount: len(submissions),
			StudentCount:    len(students),
			AveragePercent:  averagePercentage(submissions),
			LateCount:       late,
		})
	}

	if graded > 0 {
		overview.AveragePercent = sum / float64(graded)
	}
	return overview, nil
}

func (s *analyticsService) StudentDashboard(ctx context.Context, classroomID, studentID uint) (*StudentAnalytics, error) {
	isMember, err := s.repo.Membership().Exists(ctx, nil, classroomID, studentID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	submissions, err := s.repo.Submission().GetByUserInClassroom(ctx, nil, classroomID, studentID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment().GetByClassroom(ctx, nil, classroomID)
	if err != nil {
		return nil, err
	}

	analytics := &StudentAnalytics{
		UserID:      studentID,
		ClassroomID: classroomID,
		Submissions: submissions,
		Missing:     len(assignments) - len(submissions),
		Trend:       computeTrend(submissions),
	}
	if len(submissions) > 0 {
		last := submissions[len(submissions)-1].SubmittedAt
		analytics.LastSubmittedAt = &last
	}
	analytics.AveragePercent = averagePercentage(submissions)
	analytics.Narrative = narrative(analytics.AveragePercent, analytics.Trend, len(submissions))

	return analytics, nil
}

// computeTrend compares the first and last chronological percentages, with a
// small dead zone. Submissions must be in submitted-at order.
func computeTrend(submissions []*models.Submission) StudentTrend {
	if len(submissions) < 2 {
		return TrendUnknown
	}

	first := submissions[0].Percentage
	last := submissions[len(submissions)-1].Percentage

	switch {
	case last > first+trendBand:
		return TrendImproving
	case last < first-trendBand:
		return TrendDeclining
	default:
		return TrendSteady
	}
}

func narrative(average float64, trend StudentTrend, count int) string {
	if count == 0 {
		return "No graded work yet."
	}

	var band string
	switch {
	case average >= 85:
		band = "Excellent performance"
	case average >= 70:
		band = "Good performance"
	case average >= 50:
		band = "Fair performance, with room to improve"
	default:
		band = "Struggling with the material"
	}

	switch trend {
	case TrendImproving:
		return fmt.Sprintf("%s, and recent scores are improving (average %.1f%%).", band, average)
	case TrendDeclining:
		return fmt.Sprintf("%s, but recent scores are slipping (average %.1f%%).", band, average)
	case TrendSteady:
		return fmt.Sprintf("%s, holding steady (average %.1f%%).", band, average)
	default:
		return fmt.Sprintf("%s (average %.1f%%).", band, average)
	}
}
