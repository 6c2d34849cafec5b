package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/adapters/rtc"
	"github.com/healbridge/consult/internal/app"
	"github.com/healbridge/consult/internal/domain"
	"github.com/healbridge/consult/internal/store"
)

// API is the REST surface next to the websocket: display/admin reads plus
// the synchronous scheduling path used by the provider UI.
type API struct {
	Orch     *app.Orchestrator
	Mirror   store.PresenceMirror
	Store    store.ConsultationStore
	STUNURLs []string
}

func (a *API) handleRTCConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"iceServers": rtc.ICEServers(a.STUNURLs),
	})
}

// handleAvailability answers from the durable mirror, not the in-memory
// registry. It is a display check for the admin surface; live routing never
// goes through here.
func (a *API) handleAvailability(c *gin.Context) {
	summary, err := a.Mirror.FindOneReachableProvider(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("availability query")
		c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
		return
	}
	if summary == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"status":  "pending",
			"message": "No providers available for instant call. A provider will suggest a time shortly.",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"status":   "provider-available",
		"message":  "Provider found! Connecting...",
		"provider": summary,
	})
}

type scheduleRequest struct {
	SeekerID      string `json:"seekerId"`
	ProviderID    string `json:"providerId"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
	RecordID      string `json:"recordId"`
}

func (a *API) handleSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}
	if req.SeekerID == "" || req.ProviderID == "" || req.ScheduledDate == "" || req.ScheduledTime == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Missing required fields"})
		return
	}
	if req.RecordID == "" {
		req.RecordID = genClientToken()
	}

	err := a.Store.CreateScheduledConsultation(c.Request.Context(), store.ScheduledConsultation{
		ID:         req.RecordID,
		SeekerID:   domain.SeekerID(req.SeekerID),
		ProviderID: domain.ProviderID(req.ProviderID),
		Date:       req.ScheduledDate,
		Time:       req.ScheduledTime,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("schedule consultation")
		c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Consultation scheduled successfully",
	})
}

func (a *API) handleNotifications(c *gin.Context) {
	seekerID := c.Param("seekerId")
	if seekerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "seeker id required"})
		return
	}
	notifications, err := a.Store.Notifications(c.Request.Context(), domain.SeekerID(seekerID))
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list notifications")
		c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
}

func (a *API) handleRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": a.Orch.Rooms.List()})
}
