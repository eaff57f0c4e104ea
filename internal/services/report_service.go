package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/adityasasidhar/quizproject/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

const gradebookSheet = "Gradebook"

// GradebookXLSX lays out one row per student and one column per assignment,
// with percentages in the cells. Missing submissions stay blank.
func (s *reportService) GradebookXLSX(ctx context.Context, classroomID, teacherID uint) ([]byte, string, error) {
	classroom, err := s.repo.Classroom().GetByID(ctx, nil, classroomID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrClassroomNotFound
		}
		return nil, "", err
	}
	if classroom.OwnerID != teacherID {
		return nil, "", NewPermissionError(teacherID, classroomID, "classroom", "export_gradebook", "not the owner")
	}

	students, err := s.repo.Membership().GetStudents(ctx, nil, classroomID)
	if err != nil {
		return nil, "", err
	}
	assignments, err := s.repo.Assignment().GetByClassroom(ctx, nil, classroomID)
	if err != nil {
		return nil, "", err
	}

	// scores[studentID][assignmentID] = percentage
	scores := make(map[uint]map[uint]float64)
	for _, a := range assignments {
		submissions, err := s.repo.Submission().GetByAssignment(ctx, nil, a.ID)
		if err != nil {
			return nil, "", err
		}
		for _, sub := range submissions {
			if scores[sub.UserID] == nil {
				scores[sub.UserID] = make(map[uint]float64)
			}
			scores[sub.UserID][a.ID] = sub.Percentage
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetIdx, err := f.NewSheet(gradebookSheet)
	if err != nil {
		return nil, "", fmt.Errorf("create gradebook sheet: %w", err)
	}
	f.SetActiveSheet(sheetIdx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", err
	}

	setCell := func(col, row int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(gradebookSheet, cell, v)
	}

	// Header row: Student, one column per assignment, Average
	if err := setCell(1, 1, "Student"); err != nil {
		return nil, "", err
	}
	for i, a := range assignments {
		if err := setCell(i+2, 1, a.Title); err != nil {
			return nil, "", err
		}
	}
	if err := setCell(len(assignments)+2, 1, "Average"); err != nil {
		return nil, "", err
	}

	endHeader, _ := excelize.CoordinatesToCellName(len(assignments)+2, 1)
	if err := f.SetCellStyle(gradebookSheet, "A1", endHeader, headerStyle); err != nil {
		return nil, "", err
	}

	for row, m := range students {
		r := row + 2
		if err := setCell(1, r, m.User.Username); err != nil {
			return nil, "", err
		}

		var sum float64
		var graded int
		for col, a := range assignments {
			pct, ok := scores[m.UserID][a.ID]
			if !ok {
				continue
			}
			if err := setCell(col+2, r, pct); err != nil {
				return nil, "", err
			}
			sum += pct
			graded++
		}
		if graded > 0 {
			if err := setCell(len(assignments)+2, r, sum/float64(graded)); err != nil {
				return nil, "", err
			}
		}
	}

	if err := f.SetColWidth(gradebookSheet, "A", "A", 24); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("serialize gradebook: %w", err)
	}

	filename := fmt.Sprintf("gradebook_classroom_%d.xlsx", classroomID)
	s.logger.Info("Gradebook exported", "classroom_id", classroomID, "students", len(students), "assignments", len(assignments))
	return buf.Bytes(), filename, nil
}
