package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"campus-events/internal/attendance"
	"campus-events/internal/auth"
	"campus-events/internal/config"
	"campus-events/internal/directory"
	"campus-events/internal/event"
	"campus-events/internal/notification"
	"campus-events/internal/queue"
	"campus-events/internal/registration"
	"campus-events/internal/status"
)

type server struct {
	cfg      config.App
	users    *directory.Service
	userRepo *directory.Repository
	events   *event.Service
	regs     *registration.Service
	att      *attendance.Service
	inbox    *notification.Repository
	queue    queue.Queue
}

// fail maps workflow error kinds onto HTTP codes; kinds are never conflated.
func fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, status.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, status.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, status.ErrCapacityExceeded):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, status.ErrPrecondition):
		code = http.StatusPreconditionFailed
	case errors.Is(err, status.ErrInvalidFormat):
		code = http.StatusBadRequest
	case errors.Is(err, status.ErrUnauthorized):
		code = http.StatusUnauthorized
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func callerID(c *gin.Context) (int64, bool) {
	claims, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return 0, false
	}
	id, err := claims.UserID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
		return 0, false
	}
	return id, true
}

func (s *server) registerRoutes(r *gin.Engine) {
	v1 := r.Group("/v1")

	v1.POST("/auth/register", s.handleRegister)
	v1.POST("/auth/login", s.handleLogin)
	v1.POST("/auth/refresh", s.handleRefresh)

	authed := v1.Group("", auth.UserAuth(s.cfg.JWTSigningKey, s.cfg.JWTIssuer))
	authed.POST("/auth/logout", s.handleLogout)
	staff := authed.Group("", auth.RequireRole(string(directory.RoleAdmin), string(directory.RoleFaculty)))
	admin := authed.Group("", auth.RequireRole(string(directory.RoleAdmin)))

	authed.GET("/users", s.handleListUsers)
	authed.GET("/users/:id", s.handleGetUser)
	authed.PUT("/users/:id", s.handleUpdateUser)
	authed.POST("/users/:id/password", s.handleChangePassword)
	authed.GET("/users/:id/registrations", s.handleUserRegistrations)
	authed.GET("/users/:id/events", s.handleOrganizerEvents)
	authed.GET("/users/:id/attendance", s.handleUserAttendance)
	admin.POST("/users/:id/deactivate", s.handleDeactivateUser)
	admin.POST("/users/:id/activate", s.handleActivateUser)

	authed.GET("/events", s.handleListEvents)
	authed.GET("/events/upcoming", s.handleUpcomingEvents)
	authed.GET("/events/stats", s.handleEventCounts)
	authed.GET("/events/:id", s.handleGetEvent)
	authed.POST("/events", s.handleCreateEvent)
	authed.PUT("/events/:id", s.handleUpdateEvent)
	staff.POST("/events/:id/approve", s.handleApproveEvent)
	staff.POST("/events/:id/reject", s.handleRejectEvent)
	admin.POST("/events/:id/complete", s.handleCompleteEvent)
	admin.POST("/events/:id/cancel", s.handleCancelEvent)
	admin.DELETE("/events/:id", s.handleDeleteEvent)
	admin.POST("/events/:id/remind", s.handleRemindEvent)

	authed.POST("/events/:id/registrations", s.handleRegisterForEvent)
	authed.DELETE("/events/:id/registrations", s.handleUnregisterFromEvent)
	authed.GET("/events/:id/registrations", s.handleEventRegistrations)

	staff.POST("/events/:id/checkin", s.handleCheckIn)
	staff.POST("/events/:id/checkout", s.handleCheckOut)
	authed.GET("/events/:id/attendance", s.handleEventAttendance)
	authed.GET("/events/:id/attendance/stats", s.handleAttendanceStats)
	authed.GET("/events/:id/checkin-token", s.handleCheckInToken)
	authed.POST("/checkin/scan", s.handleScanToken)

	authed.GET("/notifications", s.handleListNotifications)
	authed.GET("/notifications/unread-count", s.handleUnreadCount)
	authed.POST("/notifications/:id/read", s.handleMarkRead)
	authed.POST("/notifications/read-all", s.handleMarkAllRead)
}

func (s *server) handleRegister(c *gin.Context) {
	var req struct {
		Name       string  `json:"name" binding:"required"`
		Email      string  `json:"email" binding:"required,email"`
		Password   string  `json:"password" binding:"required,min=8"`
		Role       string  `json:"role" binding:"required"`
		Department string  `json:"department"`
		StudentID  *string `json:"student_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := s.users.Create(c.Request.Context(), directory.CreateUser{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       directory.Role(req.Role),
		Department: req.Department,
		StudentID:  req.StudentID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *server) issueTokens(c *gin.Context, u *directory.User) {
	tokens, err := auth.Issue(u.ID, string(u.Role), s.cfg.JWTIssuer, s.cfg.JWTSigningKey,
		s.cfg.AccessTTL, s.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	if err := s.userRepo.SaveRefreshToken(c.Request.Context(), uuid.New().String(),
		u.ID, auth.HashToken(tokens.RefreshToken), tokens.RefreshExp); err != nil {
		log.Printf("saving refresh token failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
		"user":          u,
	})
}

func (s *server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// unknown email and wrong password get the same answer
		if errors.Is(err, status.ErrNotFound) || errors.Is(err, status.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		fail(c, err)
		return
	}
	s.issueTokens(c, u)
}

func (s *server) handleRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := auth.Parse(req.RefreshToken, s.cfg.JWTSigningKey, s.cfg.JWTIssuer); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	rt, err := s.userRepo.RefreshTokenByHash(c.Request.Context(), auth.HashToken(req.RefreshToken))
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	u, err := s.users.Get(c.Request.Context(), rt.UserID)
	if err != nil || !u.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	// rotate: the presented token is single-use
	if err := s.userRepo.RevokeRefreshToken(c.Request.Context(), rt.ID); err != nil {
		log.Printf("revoking refresh token failed: %v", err)
	}
	s.issueTokens(c, u)
}

func (s *server) handleListUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context(),
		directory.Role(c.Query("role")), c.Query("department"), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (s *server) handleGetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := s.users.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *server) handleUpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name       string  `json:"name"`
		Email      string  `json:"email"`
		Department string  `json:"department"`
		StudentID  *string `json:"student_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := s.users.Update(c.Request.Context(), id, directory.UpdateUser{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		StudentID:  req.StudentID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *server) handleChangePassword(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if caller != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "can only change own password"})
		return
	}
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.users.ChangePassword(c.Request.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) handleLogout(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := s.userRepo.RevokeAllRefreshTokens(c.Request.Context(), caller); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) handleDeactivateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.users.Deactivate(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	// a disabled account keeps no live sessions
	if err := s.userRepo.RevokeAllRefreshTokens(c.Request.Context(), id); err != nil {
		log.Printf("revoking tokens for user %d failed: %v", id, err)
	}
	c.Status(http.StatusNoContent)
}

func (s *server) handleActivateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.users.Activate(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) handleListEvents(c *gin.Context) {
	f := event.Filter{
		Status:   event.Status(c.Query("status")),
		Category: event.Category(c.Query("category")),
		Search:   c.Query("q"),
	}
	if v := c.Query("organizer_id"); v != "" {
		f.OrganizerID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be an RFC 3339 timestamp"})
			return
		}
		f.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be an RFC 3339 timestamp"})
			return
		}
		f.To = t
	}
	if v := c.Query("limit"); v != "" {
		f.Limit, _ = strconv.Atoi(v)
	}
	if v := c.Query("offset"); v != "" {
		f.Offset, _ = strconv.Atoi(v)
	}
	list, err := s.events.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}

func (s *server) handleUpcomingEvents(c *gin.Context) {
	list, err := s.events.Upcoming(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}

func (s *server) handleOrganizerEvents(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := s.events.ByOrganizer(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}

func (s *server) handleEventCounts(c *gin.Context) {
	byStatus, err := s.events.CountByStatus(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	byCategory, err := s.events.CountByCategory(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"by_status": byStatus, "by_category": byCategory})
}

func (s *server) handleGetEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ev, err := s.events.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

type eventBody struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	EventDate   *time.Time       `json:"event_date"`
	Location    string           `json:"location"`
	Capacity    *int             `json:"capacity"`
	Budget      *decimal.Decimal `json:"budget"`
	Category    string           `json:"category"`
}

func (s *server) handleCreateEvent(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req eventBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := event.CreateEvent{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Budget:      req.Budget,
		Category:    event.Category(req.Category),
		OrganizerID: caller,
	}
	if req.EventDate != nil {
		in.EventDate = *req.EventDate
	}
	if req.Capacity != nil {
		in.Capacity = *req.Capacity
	}
	ev, err := s.events.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (s *server) handleUpdateEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req eventBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := event.UpdateEvent{
		EventDate: req.EventDate,
		Capacity:  req.Capacity,
		Budget:    req.Budget,
	}
	if req.Title != "" {
		in.Title = &req.Title
	}
	if req.Description != "" {
		in.Description = &req.Description
	}
	if req.Location != "" {
		in.Location = &req.Location
	}
	if req.Category != "" {
		cat := event.Category(req.Category)
		in.Category = &cat
	}
	ev, err := s.events.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *server) decideEvent(c *gin.Context, approve bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var (
		ev  *event.Event
		err error
	)
	if approve {
		ev, err = s.events.Approve(c.Request.Context(), id, caller, req.Comments)
	} else {
		ev, err = s.events.Reject(c.Request.Context(), id, caller, req.Comments)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *server) handleApproveEvent(c *gin.Context) { s.decideEvent(c, true) }
func (s *server) handleRejectEvent(c *gin.Context)  { s.decideEvent(c, false) }

func (s *server) handleCompleteEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ev, err := s.events.Complete(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *server) handleCancelEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ev, err := s.events.Cancel(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *server) handleDeleteEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.events.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) handleRemindEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := s.events.Get(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	if err := s.queue.Publish(c.Request.Context(), queue.Message{Type: queue.TypeReminder, EventID: id}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue failed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"event_id": id})
}

func (s *server) handleRegisterForEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	reg, err := s.regs.Register(c.Request.Context(), id, caller)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (s *server) handleUnregisterFromEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := s.regs.Unregister(c.Request.Context(), id, caller); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) handleEventRegistrations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := s.regs.ListByEvent(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	count, err := s.regs.CountRegistered(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": list, "registered_count": count})
}

func (s *server) handleUserRegistrations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := s.regs.ListByUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": list})
}

func (s *server) handleCheckIn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		UserID int64  `json:"user_id" binding:"required"`
		Method string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := s.att.CheckIn(c.Request.Context(), id, req.UserID, attendance.Method(req.Method))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *server) handleCheckOut(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		UserID int64 `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := s.att.CheckOut(c.Request.Context(), id, req.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *server) handleEventAttendance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := s.att.ListByEvent(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": list})
}

func (s *server) handleUserAttendance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := s.att.ListByUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": list})
}

func (s *server) handleAttendanceStats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := s.att.EventStats(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *server) handleCheckInToken(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if _, err := s.events.Get(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": s.att.GenerateCheckInToken(id, caller)})
}

func (s *server) handleScanToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := s.att.ProcessScannedToken(c.Request.Context(), req.Token)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *server) handleListNotifications(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := s.inbox.ByUser(c.Request.Context(), caller, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (s *server) handleUnreadCount(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	n, err := s.inbox.UnreadCount(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (s *server) handleMarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := s.inbox.MarkRead(c.Request.Context(), id, caller); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) handleMarkAllRead(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := s.inbox.MarkAllRead(c.Request.Context(), caller); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
