package transport

import (
	"fmt"
	"net/http"

	"github.com/markmanipula/QuickCourt-Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ParticipationHandler struct {
	participationService service.ParticipationService
}

func NewParticipationHandler(participationService service.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participationService: participationService}
}

func (h *ParticipationHandler) Join(c *gin.Context) {
	var req service.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.participationService.Join(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Joined event successfully"
	if result.Outcome == service.JoinOutcomeWaitlisted {
		message = "Event is full, added to waitlist"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "event": result.Event})
}

func (h *ParticipationHandler) Leave(c *gin.Context) {
	var req service.LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.participationService.Leave(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Left event successfully"
	if result.FromWaitlist {
		message = "Left waitlist successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "event": result.Event})
}

func (h *ParticipationHandler) TogglePaid(c *gin.Context) {
	result, err := h.participationService.TogglePaid(c.Request.Context(), c.Param("id"), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	status := "Not Paid"
	if result.Paid {
		status = "Paid"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Participant's payment status updated to %s", status),
		"event":   result.Event,
	})
}
