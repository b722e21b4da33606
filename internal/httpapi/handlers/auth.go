package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/mindguide/internal/auth"
	"github.com/suPer8Hu/mindguide/internal/common"
	"github.com/suPer8Hu/mindguide/internal/models"
)

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logoutReq struct {
	UserID common.FlexID `json:"user_id"`
}

type userView struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func viewUser(u models.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name}
}

func sessionBody(s *auth.Session) gin.H {
	return gin.H{"user": viewUser(s.User), "token": s.Token}
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupReq
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.Auth.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.fail(c, err, "")
		return
	}
	common.OK(c, sessionBody(sess))
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "User not found")
		return
	}
	common.OK(c, sessionBody(sess))
}

func (h *Handler) Logout(c *gin.Context) {
	var req logoutReq
	if !bindJSON(c, &req) {
		return
	}
	uid := userID(c, uint64(req.UserID))
	if err := h.Auth.Logout(c.Request.Context(), uid); err != nil {
		status, _ := common.Classify(err, "")
		if status >= http.StatusInternalServerError {
			h.Log.Error("logout failed", "uid", uid, "err", err)
			common.Fail(c, status, "Failed to save logout")
			return
		}
		h.fail(c, err, "")
		return
	}
	common.OK(c, gin.H{
		"message": "Logout saved successfully",
		"user_id": uid,
	})
}
