package handlers

import (
	"chanmod/internal/app/ports"
	"chanmod/pkg/logger"
	"github.com/gin-gonic/gin"
	"net/http"
	"time"
)

type Status interface {
	CurrentNickname() string
	Joined() []string
}

type Members interface {
	Members(channel string) []ports.Member
}

type Handlers struct {
	log       logger.Logger
	status    Status
	scheduler ports.SchedulerPort
	members   Members
}

func New(log logger.Logger, status Status, scheduler ports.SchedulerPort, members Members) *Handlers {
	return &Handlers{
		log:       log,
		status:    status,
		scheduler: scheduler,
		members:   members,
	}
}

type healthResponse struct {
	Nickname string   `json:"nickname"`
	Channels []string `json:"channels"`
}

func (h *Handlers) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Nickname: h.status.CurrentNickname(),
		Channels: h.status.Joined(),
	})
}

type reversalResponse struct {
	ID     uint64         `json:"id"`
	FireAt time.Time      `json:"fire_at"`
	In     string         `json:"in"`
	Args   map[string]any `json:"args"`
}

// ReversalsHandler lists the scheduled ban reversals, soonest first.
func (h *Handlers) ReversalsHandler(c *gin.Context) {
	pending := h.scheduler.Pending()

	now := time.Now()
	out := make([]reversalResponse, 0, len(pending))
	for _, p := range pending {
		out = append(out, reversalResponse{
			ID:     uint64(p.ID),
			FireAt: p.FireAt,
			In:     p.FireAt.Sub(now).Round(time.Second).String(),
			Args:   p.Args,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handlers) MembersHandler(c *gin.Context) {
	channel := c.Param("channel")
	members := h.members.Members(channel)

	h.log.Trace("Members requested", "channel", channel, "count", len(members))
	c.JSON(http.StatusOK, members)
}
