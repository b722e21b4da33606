package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/mindguide/internal/chat"
	"github.com/suPer8Hu/mindguide/internal/common"
)

type sendMessageReq struct {
	ConversationID common.FlexID `json:"conversation_id"`
	UserID         common.FlexID `json:"user_id"`
	Content        string        `json:"content"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageReq
	if !bindJSON(c, &req) {
		return
	}

	ex, err := h.Chat.SendMessage(c.Request.Context(),
		req.ConversationID.Or(defaultID),
		userID(c, uint64(req.UserID)),
		req.Content,
	)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	common.OK(c, gin.H{
		"user_message": ex.User.View(),
		"bot_message":  ex.Bot.View(),
	})
}

func (h *Handler) GetChats(c *gin.Context) {
	uid := userID(c, common.ParseID(c.Query("user_id"), defaultID))
	convID := common.ParseID(c.Query("conversation_id"), defaultID)

	page := chat.Page{BeforeID: common.ParseID(c.Query("before_id"), 0)}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.fail(c, common.Invalid("limit must be a non-negative integer"), "")
			return
		}
		page.Limit = n
	}

	msgs, err := h.Chat.GetHistory(c.Request.Context(), uid, convID, page)
	if err != nil {
		h.fail(c, err, "")
		return
	}
	common.OK(c, gin.H{"messages": chat.Views(msgs)})
}
