package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/mindguide/internal/common"
	"github.com/suPer8Hu/mindguide/internal/mood"
)

type logMoodReq struct {
	UserID   common.FlexID `json:"user_id"`
	Mood     int           `json:"mood"`
	Activity string        `json:"activity"`
	Date     string        `json:"date"`
}

func (h *Handler) GetMoodLogs(c *gin.Context) {
	uid := userID(c, common.ParseID(c.Query("user_id"), defaultID))
	days := 0
	if v := c.Query("days"); v != "" {
		// non-numeric means default, as the browser sends whatever the select holds
		days, _ = strconv.Atoi(v)
	}

	logs, err := h.Mood.List(c.Request.Context(), uid, days)
	if err != nil {
		h.fail(c, err, "")
		return
	}
	common.OK(c, gin.H{"logs": mood.Views(logs)})
}

func (h *Handler) LogMood(c *gin.Context) {
	var req logMoodReq
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.Mood.Record(c.Request.Context(), userID(c, uint64(req.UserID)), req.Mood, req.Activity, req.Date)
	if err != nil {
		h.fail(c, err, "")
		return
	}
	common.OK(c, gin.H{"log": l.View()})
}
