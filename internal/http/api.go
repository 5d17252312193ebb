package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	expenses service.ExpenseService
	logger   *logrus.Logger
	now      func() time.Time
}

func NewHandler(users service.UserService, expenses service.ExpenseService, logger *logrus.Logger) *Handler {
	return &Handler{
		users:    users,
		expenses: expenses,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.POST("/users/", h.createUser)
	router.GET("/users/", h.listUsers)
	router.GET("/users/:id", h.getUser)
	router.PATCH("/users/:id/", h.updateUser)
	router.DELETE("/users/:id/", h.deleteUser)

	router.POST("/users/:id/expenses/", h.createExpense)
	router.GET("/users/:id/expenses/", h.listUserExpenses)

	router.GET("/expenses/", h.searchExpenses)
	router.PATCH("/expenses/:id/", h.updateExpense)
	router.PATCH("/expenses/:id/payment/", h.togglePayment)
	router.DELETE("/expenses/:id/", h.deleteExpense)

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
}

// corsMiddleware allows any origin with credentials, mirroring the fully
// open policy of the original deployment. The Origin header is echoed back
// because browsers reject "*" together with credentials.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type createUserRequest struct {
	Username string   `json:"username" binding:"required"`
	Income   *float64 `json:"income"`
}

type updateUserRequest struct {
	Username *string  `json:"username"`
	Income   *float64 `json:"income"`
}

type createExpenseRequest struct {
	Title string   `json:"title" binding:"required"`
	Cost  *float64 `json:"cost"`
	Due   *int     `json:"due"`
}

type updateExpenseRequest struct {
	Title *string  `json:"title"`
	Cost  *float64 `json:"cost"`
	Due   *int     `json:"due"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Username, req.Income)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.userToResponse(*user))
}

func (h *Handler) listUsers(c *gin.Context) {
	skip, limit, ok := parsePage(c)
	if !ok {
		return
	}

	users, err := h.users.List(c.Request.Context(), skip, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = h.userToResponse(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.userToResponse(*user))
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, service.UserPatch{
		Username: req.Username,
		Income:   req.Income,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.userToResponse(*user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) createExpense(c *gin.Context) {
	ownerID, ok := parseID(c, "user")
	if !ok {
		return
	}

	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), ownerID, req.Title, req.Cost, req.Due)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.expenseToResponse(*expense))
}

func (h *Handler) listUserExpenses(c *gin.Context) {
	ownerID, ok := parseID(c, "user")
	if !ok {
		return
	}
	skip, limit, ok := parsePage(c)
	if !ok {
		return
	}

	expenses, err := h.expenses.ListByOwner(c.Request.Context(), ownerID, skip, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.expensesToResponse(expenses))
}

// searchExpenses resolves the search term once at the boundary: a term
// that parses as an integer fetches that single expense by id (404 when
// absent); any other term returns the exact-title filtered list.
func (h *Handler) searchExpenses(c *gin.Context) {
	term := c.Query("search")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search term is required"})
		return
	}
	skip, limit, ok := parsePage(c)
	if !ok {
		return
	}

	query := service.SearchByTitle(term)
	if id, err := strconv.ParseInt(term, 10, 64); err == nil {
		query = service.SearchByID(id)
	}

	expenses, err := h.expenses.Search(c.Request.Context(), query, skip, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.expensesToResponse(expenses))
}

func (h *Handler) updateExpense(c *gin.Context) {
	id, ok := parseID(c, "expense")
	if !ok {
		return
	}

	var req updateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.expenses.Update(c.Request.Context(), id, service.ExpensePatch{
		Title: req.Title,
		Cost:  req.Cost,
		Due:   req.Due,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.expenseToResponse(*expense))
}

func (h *Handler) togglePayment(c *gin.Context) {
	id, ok := parseID(c, "expense")
	if !ok {
		return
	}

	expense, err := h.expenses.TogglePaid(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.expenseToResponse(*expense))
}

func (h *Handler) deleteExpense(c *gin.Context) {
	id, ok := parseID(c, "expense")
	if !ok {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " id"})
		return 0, false
	}
	return id, true
}

func parsePage(c *gin.Context) (skip, limit int, ok bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skip"})
		return 0, 0, false
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, 0, false
	}
	return skip, limit, true
}

type UserResponse struct {
	ID       int64             `json:"id"`
	Username string            `json:"username"`
	Income   float64           `json:"income"`
	NetWorth float64           `json:"net_worth"`
	Expenses []ExpenseResponse `json:"expenses"`
}

type ExpenseResponse struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Cost    *float64 `json:"cost"`
	Due     *int     `json:"due"`
	Paid    bool     `json:"paid"`
	OwnerID int64    `json:"owner_id"`
	Overdue bool     `json:"overdue"`
}

// userToResponse computes net worth and per-expense overdue at
// serialization time; neither value is ever stored.
func (h *Handler) userToResponse(user service.UserWithExpenses) UserResponse {
	income := 0.0
	if user.User.Income != nil {
		income = *user.User.Income
	}
	return UserResponse{
		ID:       user.User.ID,
		Username: user.User.Username,
		Income:   income,
		NetWorth: domain.NetWorth(user.User.Income, user.Expenses),
		Expenses: h.expensesToResponse(user.Expenses),
	}
}

func (h *Handler) expenseToResponse(expense domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:      expense.ID,
		Title:   expense.Title,
		Cost:    expense.Cost,
		Due:     expense.Due,
		Paid:    expense.Paid,
		OwnerID: expense.OwnerID,
		Overdue: domain.Overdue(expense, h.now()),
	}
}

func (h *Handler) expensesToResponse(expenses []domain.Expense) []ExpenseResponse {
	resp := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		resp[i] = h.expenseToResponse(expenses[i])
	}
	return resp
}
