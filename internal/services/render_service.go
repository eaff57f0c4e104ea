package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

type renderService struct {
	repo       repositories.Repository
	renderRoot string
	logger     *slog.Logger
}

func NewRenderService(repo repositories.Repository, renderRoot string, logger *slog.Logger) RenderService {
	return &renderService{
		repo:       repo,
		renderRoot: renderRoot,
		logger:     logger,
	}
}

// transliterations maps symbols the core PDF fonts cannot draw onto ASCII
// spellings. Anything still non-ASCII afterwards is dropped.
var transliterations = strings.NewReplacer(
	"√", "sqrt",
	"°", " degrees",
	"²", "^2",
	"³", "^3",
	"×", "x",
	"÷", "/",
	"−", "-",
	"±", "+/-",
	"≤", "<=",
	"≥", ">=",
	"≠", "!=",
	"≈", "~",
	"→", "->",
	"–", "-",
	"—", "-",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"α", "alpha",
	"β", "beta",
	"γ", "gamma",
	"δ", "delta",
	"θ", "theta",
	"λ", "lambda",
	"μ", "mu",
	"π", "pi",
	"ρ", "rho",
	"σ", "sigma",
	"ω", "omega",
	"Δ", "Delta",
	"Ω", "Omega",
)

// sanitizeText rewrites mathematical and typographic symbols into ASCII so
// the PDF core fonts can render them.
func sanitizeText(s string) string {
	s = transliterations.Replace(s)
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// groupBySubject partitions questions by subject, preserving first-appearance
// order. Questions without a subject fall under "General".
func groupBySubject(paper models.Paper) ([]string, map[string][]models.PaperQuestion) {
	var order []string
	groups := make(map[string][]models.PaperQuestion)
	for _, q := range paper {
		subject := strings.TrimSpace(q.Subject)
		if subject == "" {
			subject = "General"
		}
		if _, seen := groups[subject]; !seen {
			order = append(order, subject)
		}
		groups[subject] = append(groups[subject], q)
	}
	return order, groups
}

type pdfLine struct {
	text   string
	style  string
	size   float64
	height float64
}

// documentLines flattens the paper into the lines of the PDF body, grouped
// by subject. The question sheet carries full question text with lettered
// options; the answer key is a compact number-to-answer listing.
func documentLines(paper models.Paper, withAnswers bool) []pdfLine {
	var lines []pdfLine
	order, groups := groupBySubject(paper)
	for _, subject := range order {
		lines = append(lines, pdfLine{text: subject, style: "B", size: 13, height: 8})
		for _, q := range groups[subject] {
			if withAnswers {
				lines = append(lines, pdfLine{text: fmt.Sprintf("Q%d: %s", q.QuestionNumber, q.Answer), size: 11, height: 6})
				if q.Solution != "" {
					lines = append(lines, pdfLine{text: "   " + q.Solution, style: "I", size: 10, height: 5})
				}
				continue
			}
			lines = append(lines, pdfLine{text: fmt.Sprintf("Q%d. %s", q.QuestionNumber, q.Question), style: "B", size: 11, height: 6})
			for i, opt := range q.Options {
				label := string(rune('A' + i))
				lines = append(lines, pdfLine{text: fmt.Sprintf("   %s) %s", label, opt), size: 11, height: 6})
			}
		}
	}
	return lines
}

func (s *renderService) RenderQuestionPaper(ctx context.Context, paperPath string) (string, error) {
	return s.render(ctx, paperPath, false)
}

func (s *renderService) RenderAnswerPaper(ctx context.Context, paperPath string) (string, error) {
	return s.render(ctx, paperPath, true)
}

func (s *renderService) render(ctx context.Context, paperPath string, withAnswers bool) (string, error) {
	paper, err := s.repo.Paper().Load(ctx, paperPath)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrPaperNotFound
		}
		return "", err
	}

	suffix := "_questions.pdf"
	title := "Question Paper"
	if withAnswers {
		suffix = "_answers.pdf"
		title = "Answer Paper"
	}
	stem := strings.TrimSuffix(filepath.Base(paperPath), ".json")
	outPath := filepath.Join(s.renderRoot, stem+suffix)

	if err := os.MkdirAll(s.renderRoot, 0o755); err != nil {
		return "", fmt.Errorf("create render root: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Pin the creation date so re-rendering the same artifact yields
	// byte-identical output.
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetModificationDate(time.Unix(0, 0).UTC())
	pdf.SetTitle(sanitizeText(title), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, sanitizeText(title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, line := range documentLines(paper, withAnswers) {
		pdf.SetFont("Helvetica", line.style, line.size)
		pdf.MultiCell(0, line.height, sanitizeText(line.text), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("write pdf %s: %w", outPath, err)
	}

	s.logger.Info("Paper rendered", "path", outPath, "with_answers", withAnswers)
	return outPath, nil
}
