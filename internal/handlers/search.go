package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/dto"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/services"
	"github.com/yukikurage/board-api/internal/utils"
)

type SearchHandler struct {
	searchService *services.SearchService
	statsService  *services.StatsService
	auditService  *services.AuditService
}

func NewSearchHandler(searchService *services.SearchService, statsService *services.StatsService, auditService *services.AuditService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		statsService:  statsService,
		auditService:  auditService,
	}
}

// Search runs the global search
func (h *SearchHandler) Search(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), actor, c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSearchResponse(result.Boards, result.Tasks, result.Users))
}

// GlobalTaskStats counts boards, tasks and completed tasks
func (h *SearchHandler) GlobalTaskStats(c *gin.Context) {
	stats, err := h.statsService.GlobalTaskStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// UserActivity counts what a user has created and updated
func (h *SearchHandler) UserActivity(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "Invalid user ID")
	if !ok {
		return
	}

	activity, err := h.statsService.UserActivity(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// ListAuditLogs returns audit entries filtered by user_id, action and entity_type
func (h *SearchHandler) ListAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := repository.AuditLogFilter{
		Offset: params.Offset,
		Limit:  params.Limit,
	}

	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id")
			return
		}
		filter.ActorID = &userID
	}
	if action := c.Query("action"); action != "" {
		filter.Action = &action
	}
	if entityType := c.Query("entity_type"); entityType != "" {
		filter.EntityType = &entityType
	}

	entries, err := h.auditService.Query(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditLogDTOs(entries))
}
