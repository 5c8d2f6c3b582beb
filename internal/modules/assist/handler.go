package assist

import (
	"context"
	"errors"
	"net/http"

	"github.com/choiben-assist/ai-backend/internal/modules/datastore"
	"github.com/choiben-assist/ai-backend/internal/modules/llm"
	"github.com/choiben-assist/ai-backend/internal/modules/records"
	"github.com/choiben-assist/ai-backend/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgConfiguration = "サービス設定エラーが発生しました。"

// HealthChecker probes the generation backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) llm.Health
}

type Handler struct {
	svc    *Service
	health HealthChecker
	log    *zap.Logger
}

func NewHandler(svc *Service, health HealthChecker, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, health: health, log: log.Named("assist.http")}
}

// RegisterRoutes mounts the endpoints on rg. Auth and rate limiting are applied by the caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/plan", h.plan)
	rg.POST("/todo", h.todo)
	rg.POST("/analysis", h.analysis)
	rg.POST("/advice", h.advice)
	rg.POST("/goals", h.goals)
	rg.POST("/quick/:type", h.quick)

	rg.POST("/notes-todo/:project", h.notesTodo)
	rg.GET("/notes-learning-records/:project", h.notesLearningRecords)
	rg.GET("/users/:userId/learning-records", h.userLearningRecords)
	rg.PUT("/users/:userId/notes-project", h.updateUserProject)

	rg.GET("/health", h.healthCheck)
}

// AIResponse is the body of every successful generation.
type AIResponse struct {
	Success      bool   `json:"success"`
	Content      string `json:"content"`
	ResponseType string `json:"response_type"`
}

type planRequest struct {
	Goal          string   `json:"goal" binding:"required,min=1,max=500"`
	TimeAvailable int      `json:"time_available" binding:"required,gt=0,lte=480"`
	CurrentLevel  string   `json:"current_level"`
	FocusAreas    []string `json:"focus_areas"`
	Difficulty    string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

type todoRequest struct {
	TimeAvailable  int      `json:"time_available" binding:"required,gt=0,lte=480"`
	RecentProgress string   `json:"recent_progress"`
	WeakAreas      []string `json:"weak_areas"`
	DailyGoal      string   `json:"daily_goal"`
}

type analysisRequest struct {
	Period          string   `json:"period" binding:"required,min=1,max=100"`
	LearningRecords string   `json:"learning_records" binding:"required"`
	Goals           string   `json:"goals" binding:"required"`
	ProgressRate    *float64 `json:"progress_rate" binding:"required,gte=0,lte=1"`
}

type adviceRequest struct {
	CurrentIssues  string `json:"current_issues" binding:"required"`
	LearningStatus string `json:"learning_status" binding:"required"`
	Concerns       string `json:"concerns"`
	TargetGoal     string `json:"target_goal"`
}

type goalRequest struct {
	DesiredOutcome     string `json:"desired_outcome" binding:"required"`
	Timeline           string `json:"timeline" binding:"required"`
	CurrentLevel       string `json:"current_level" binding:"required"`
	AvailableResources string `json:"available_resources" binding:"required"`
	Constraints        string `json:"constraints"`
}

type notesTodoRequest struct {
	TimeAvailable int    `json:"time_available" binding:"required,gt=0,lte=480"`
	DailyGoal     string `json:"daily_goal"`
}

type updateProjectRequest struct {
	ProjectName string `json:"project_name" binding:"required,max=100"`
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return false
	}
	return true
}

func (h *Handler) reply(c *gin.Context, responseType, content string, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, AIResponse{Success: true, Content: content, ResponseType: responseType})
}

// writeError maps a service error to a status code. Raw error text is never
// sent for configuration or unclassified failures.
func (h *Handler) writeError(c *gin.Context, err error) {
	var e *llm.Error
	if !errors.As(err, &e) {
		h.log.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c, "unknown_error", err)
		return
	}
	switch e.Kind {
	case llm.KindRateLimited:
		response.TooManyRequests(c, e.Kind.String(), e.Message, e.RetryAfterSeconds)
	case llm.KindQuotaExceeded:
		response.TooManyRequests(c, e.Kind.String(), e.Message, nil)
	case llm.KindEmptyResponse:
		response.BadGateway(c, e.Kind.String(), e.Message, nil)
	case llm.KindConfiguration:
		_ = c.Error(err)
		response.InternalErrorMsg(c, e.Kind.String(), msgConfiguration)
	default:
		response.BadGateway(c, e.Kind.String(), e.Message, e.StatusCode)
	}
}

func (h *Handler) plan(c *gin.Context) {
	var req planRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.svc.GeneratePlan(c.Request.Context(), PlanInput{
		Goal:          req.Goal,
		TimeAvailable: req.TimeAvailable,
		CurrentLevel:  req.CurrentLevel,
		FocusAreas:    req.FocusAreas,
		Difficulty:    req.Difficulty,
	})
	h.reply(c, "learning_plan", out, err)
}

func (h *Handler) todo(c *gin.Context) {
	var req todoRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.svc.GenerateTodo(c.Request.Context(), TodoInput(req))
	h.reply(c, "todo_list", out, err)
}

func (h *Handler) analysis(c *gin.Context) {
	var req analysisRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.svc.AnalyzeProgress(c.Request.Context(), AnalysisInput{
		Period:          req.Period,
		LearningRecords: req.LearningRecords,
		Goals:           req.Goals,
		ProgressRate:    *req.ProgressRate,
	})
	h.reply(c, "progress_analysis", out, err)
}

func (h *Handler) advice(c *gin.Context) {
	var req adviceRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.svc.GiveAdvice(c.Request.Context(), AdviceInput(req))
	h.reply(c, "learning_advice", out, err)
}

func (h *Handler) goals(c *gin.Context) {
	var req goalRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.svc.SetGoals(c.Request.Context(), GoalInput(req))
	h.reply(c, "smart_goals", out, err)
}

func (h *Handler) quick(c *gin.Context) {
	kind := c.Param("type")
	out, err := h.svc.Quick(c.Request.Context(), kind)
	if errors.Is(err, ErrUnknownQuickType) {
		response.BadRequest(c, err.Error())
		return
	}
	h.reply(c, "quick_"+kind, out, err)
}

func (h *Handler) notesTodo(c *gin.Context) {
	var req notesTodoRequest
	if !bind(c, &req) {
		return
	}
	out, _, err := h.svc.NotesTodo(c.Request.Context(), c.Param("project"), req.TimeAvailable, req.DailyGoal)
	h.reply(c, "notes_todo_list", out, err)
}

type learningRecordsResponse struct {
	ProjectName     string          `json:"project_name"`
	UserID          string          `json:"user_id,omitempty"`
	LearningRecords records.Summary `json:"learning_records"`
}

func (h *Handler) notesLearningRecords(c *gin.Context) {
	project := c.Param("project")
	response.OK(c, learningRecordsResponse{
		ProjectName:     project,
		LearningRecords: h.svc.LearningRecords(c.Request.Context(), project),
	})
}

func (h *Handler) userLearningRecords(c *gin.Context) {
	userID := c.Param("userId")
	project, summary := h.svc.UserLearningRecords(c.Request.Context(), userID)
	response.OK(c, learningRecordsResponse{ProjectName: project, UserID: userID, LearningRecords: summary})
}

func (h *Handler) updateUserProject(c *gin.Context) {
	var req updateProjectRequest
	if !bind(c, &req) {
		return
	}
	userID := c.Param("userId")
	err := h.svc.UpdateUserProject(c.Request.Context(), userID, req.ProjectName)
	switch {
	case err == nil:
		response.OK(c, gin.H{"success": true, "user_id": userID, "project_name": req.ProjectName})
	case errors.Is(err, datastore.ErrProfileNotFound):
		response.NotFoundMsg(c, "ユーザープロファイルが見つかりません")
	case errors.Is(err, datastore.ErrNotConfigured):
		_ = c.Error(err)
		response.InternalErrorMsg(c, "configuration_error", msgConfiguration)
	default:
		h.log.Error("failed to update notes project", zap.String("user_id", userID), zap.Error(err))
		response.BadGateway(c, "datastore_error", "プロファイルの更新に失敗しました", nil)
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	res := h.health.HealthCheck(c.Request.Context())
	code := http.StatusOK
	if res.Status == llm.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, res)
}
