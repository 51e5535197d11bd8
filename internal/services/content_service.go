package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/labedu/compliance-backend/pkg/genai"
	"github.com/sirupsen/logrus"
)

// QuizQuestion is one generated multiple-choice question
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// GeneratedQuiz is the structured quiz the model returns
type GeneratedQuiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// OutlineLesson is one suggested lesson in a generated module outline
type OutlineLesson struct {
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	Description string `json:"description"`
}

// LessonOutline is the structured module outline the model returns
type LessonOutline struct {
	Lessons []OutlineLesson `json:"lessons"`
}

// EffectivenessAnalysis summarizes a compliance report for management review
type EffectivenessAnalysis struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

// ContentService generates training content drafts from the catalog using the
// structured-output model API. Output is a draft for instructor review, never
// published automatically.
type ContentService struct {
	client     *genai.Client
	moduleRepo *database.ModuleRepository
	logger     *logrus.Logger
}

// NewContentService creates a new content service
func NewContentService(client *genai.Client, moduleRepo *database.ModuleRepository, logger *logrus.Logger) *ContentService {
	return &ContentService{client: client, moduleRepo: moduleRepo, logger: logger}
}

var quizSchema = &genai.Schema{
	Type: "object",
	Properties: map[string]*genai.Schema{
		"questions": {
			Type: "array",
			Items: &genai.Schema{
				Type: "object",
				Properties: map[string]*genai.Schema{
					"question":      {Type: "string"},
					"options":       {Type: "array", Items: &genai.Schema{Type: "string"}},
					"correct_index": {Type: "integer"},
					"explanation":   {Type: "string"},
				},
				Required: []string{"question", "options", "correct_index", "explanation"},
			},
		},
	},
	Required: []string{"questions"},
}

var outlineSchema = &genai.Schema{
	Type: "object",
	Properties: map[string]*genai.Schema{
		"lessons": {
			Type: "array",
			Items: &genai.Schema{
				Type: "object",
				Properties: map[string]*genai.Schema{
					"title":        {Type: "string"},
					"content_type": {Type: "string", Enum: []string{"VIDEO", "PDF", "LINK", "TEXT"}},
					"description":  {Type: "string"},
				},
				Required: []string{"title", "content_type", "description"},
			},
		},
	},
	Required: []string{"lessons"},
}

var analysisSchema = &genai.Schema{
	Type: "object",
	Properties: map[string]*genai.Schema{
		"summary":         {Type: "string"},
		"strengths":       {Type: "array", Items: &genai.Schema{Type: "string"}},
		"gaps":            {Type: "array", Items: &genai.Schema{Type: "string"}},
		"recommendations": {Type: "array", Items: &genai.Schema{Type: "string"}},
	},
	Required: []string{"summary", "strengths", "gaps", "recommendations"},
}

// GenerateQuiz drafts a multiple-choice quiz for a module
func (s *ContentService) GenerateQuiz(ctx context.Context, moduleID uuid.UUID, numQuestions int) (*GeneratedQuiz, error) {
	if numQuestions < 1 || numQuestions > 20 {
		return nil, apperrors.Validationf("num_questions", "num_questions must be between 1 and 20")
	}

	module, err := s.moduleRepo.GetByID(moduleID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"You write assessment quizzes for clinical laboratory compliance training under Brazilian RDC 978 regulation.\n"+
			"Create %d multiple-choice questions in Brazilian Portuguese for the training module below. "+
			"Each question has exactly 4 options and one correct answer.\n\n"+
			"Title: %s\nType: %s\nDescription: %s%s",
		numQuestions, module.Title, module.TrainingType, module.Description, objectivesSection(module))

	var quiz GeneratedQuiz
	if err := s.client.GenerateJSON(ctx, prompt, quizSchema, &quiz); err != nil {
		return nil, s.classifyGenErr(err, "quiz generation failed")
	}
	if len(quiz.Questions) == 0 {
		return nil, apperrors.New(apperrors.Internal, "model returned an empty quiz")
	}
	for i, q := range quiz.Questions {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return nil, apperrors.New(apperrors.Internal, fmt.Sprintf("question %d has an out-of-range correct_index", i+1))
		}
	}

	s.logger.WithFields(logrus.Fields{
		"module_id": moduleID,
		"questions": len(quiz.Questions),
	}).Info("Quiz draft generated")

	return &quiz, nil
}

// GenerateLessonOutline drafts a lesson plan for a module
func (s *ContentService) GenerateLessonOutline(ctx context.Context, moduleID uuid.UUID) (*LessonOutline, error) {
	module, err := s.moduleRepo.GetByID(moduleID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"You design training content for clinical laboratory staff under Brazilian RDC 978 regulation.\n"+
			"Propose a lesson plan in Brazilian Portuguese for the module below: 4 to 8 lessons, each with a title, "+
			"a content type (VIDEO, PDF, LINK or TEXT) and a one-paragraph description.\n\n"+
			"Title: %s\nType: %s\nDuration: %d minutes\nDescription: %s%s",
		module.Title, module.TrainingType, module.DurationMinutes, module.Description, objectivesSection(module))

	var outline LessonOutline
	if err := s.client.GenerateJSON(ctx, prompt, outlineSchema, &outline); err != nil {
		return nil, s.classifyGenErr(err, "lesson outline generation failed")
	}
	if len(outline.Lessons) == 0 {
		return nil, apperrors.New(apperrors.Internal, "model returned an empty outline")
	}

	return &outline, nil
}

// SummarizeEffectiveness turns a compliance report into a management summary
func (s *ContentService) SummarizeEffectiveness(ctx context.Context, items []models.ComplianceViewItem) (*EffectivenessAnalysis, error) {
	if len(items) == 0 {
		return nil, apperrors.Validationf("items", "compliance report is empty")
	}

	var b strings.Builder
	b.WriteString("You analyze training program effectiveness for a clinical laboratory under Brazilian RDC 978 regulation.\n")
	b.WriteString("Given the compliance rows below, write a short management summary in Brazilian Portuguese with strengths, gaps and recommendations.\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- employee=%s role=%s module=%s status=%s critical=%t\n",
			item.EmployeeName, item.RoleName, item.ModuleTitle, item.Status, item.IsCriticalFunction)
	}

	var analysis EffectivenessAnalysis
	if err := s.client.GenerateJSON(ctx, b.String(), analysisSchema, &analysis); err != nil {
		return nil, s.classifyGenErr(err, "effectiveness analysis failed")
	}

	return &analysis, nil
}

func objectivesSection(module *models.TrainingModule) string {
	if module.Objectives == nil || *module.Objectives == "" {
		return ""
	}
	return "\nObjectives: " + *module.Objectives
}

// classifyGenErr maps model-client errors onto the service error taxonomy
func (s *ContentService) classifyGenErr(err error, message string) error {
	s.logger.WithError(err).Warn(message)
	switch {
	case errors.Is(err, genai.ErrUnauthorized):
		return &apperrors.Error{Kind: apperrors.PermissionDenied, Message: message, Err: err}
	case errors.Is(err, genai.ErrUnavailable):
		return &apperrors.Error{Kind: apperrors.Transient, Message: message, Err: err}
	default:
		return &apperrors.Error{Kind: apperrors.Internal, Message: message, Err: err}
	}
}
