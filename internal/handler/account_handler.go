package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cuentix/inventory_api/internal/confirm"
	"github.com/cuentix/inventory_api/internal/listing"
	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/service"
	"github.com/cuentix/inventory_api/internal/utils"
)

// AccountHandler handles the inventory HTTP endpoints for both pools.
type AccountHandler struct {
	accountService *service.AccountService
	gate           *confirm.Gate
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(accountService *service.AccountService, gate *confirm.Gate) *AccountHandler {
	return &AccountHandler{accountService: accountService, gate: gate}
}

func poolParam(c *gin.Context) (models.Pool, bool) {
	pool := models.Pool(c.Param("pool"))
	if !pool.Valid() {
		utils.Error(c, 400, "INVALID_POOL", "Unknown account pool")
		return "", false
	}
	return pool, true
}

// accountRequest is the JSON body for account create and update. Dates
// arrive as YYYY-MM-DD strings.
type accountRequest struct {
	CategoryID   int      `json:"categoryId" binding:"required"`
	Email        string   `json:"email" binding:"required"`
	Password     string   `json:"password"`
	Supplier     string   `json:"supplier"`
	Cost         int      `json:"cost"`
	PIN          string   `json:"pin"`
	CreationDate string   `json:"creationDate"`
	ServiceDays  int      `json:"serviceDays"`
	EndDate      string   `json:"endDate"`
	Profiles     []string `json:"profiles"`
	Observation  string   `json:"observation"`
}

func (r *accountRequest) toInput() (*service.AccountInput, error) {
	in := &service.AccountInput{
		CategoryID:  r.CategoryID,
		Email:       r.Email,
		Password:    r.Password,
		Supplier:    r.Supplier,
		Cost:        r.Cost,
		PIN:         r.PIN,
		ServiceDays: r.ServiceDays,
		Observation: r.Observation,
	}
	for i, name := range r.Profiles {
		if i >= len(in.Profiles) {
			break
		}
		in.Profiles[i] = name
	}
	var err error
	if in.CreationDate, err = parseDate(r.CreationDate); err != nil {
		return nil, err
	}
	if in.EndDate, err = parseDate(r.EndDate); err != nil {
		return nil, err
	}
	return in, nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List handles GET /v1/accounts/:pool/categories/:categoryId
func (h *AccountHandler) List(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}
	categoryID, err := strconv.Atoi(c.Param("categoryId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid category ID")
		return
	}

	f := listing.Filter{
		Status: models.AccountStatus(c.Query("status")),
		Bucket: models.ExpiryBucket(c.Query("bucket")),
		Search: c.Query("search"),
		Page:   1,
	}
	if f.Status != "" && !f.Status.Valid() {
		utils.Error(c, 400, "INVALID_STATUS", "Unknown account status")
		return
	}
	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			f.Page = p
		}
	}
	if size := c.Query("pageSize"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			f.PageSize = s
		}
	}

	var expanded []int
	if raw := c.Query("expanded"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				expanded = append(expanded, id)
			}
		}
	}

	result, err := h.accountService.List(c.Request.Context(), c.GetString("principal"), pool, categoryID, f, expanded)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Accounts retrieved", result.Rows, result.Page, result.PageSize, result.TotalItems)
}

// Get handles GET /v1/accounts/:pool/:id
func (h *AccountHandler) Get(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid account ID")
		return
	}
	account, err := h.accountService.Get(pool, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Account retrieved", account)
}

// Create handles POST /v1/accounts/:pool
func (h *AccountHandler) Create(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Password == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "Password is required")
		return
	}
	in, err := req.toInput()
	if err != nil {
		utils.Error(c, 400, "INVALID_DATE", "Dates must be YYYY-MM-DD")
		return
	}
	account, err := h.accountService.Create(c.Request.Context(), c.GetString("principal"), pool, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Account created", account)
}

// Update handles PUT /v1/accounts/:pool/:id
func (h *AccountHandler) Update(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid account ID")
		return
	}
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		utils.Error(c, 400, "INVALID_DATE", "Dates must be YYYY-MM-DD")
		return
	}
	account, err := h.accountService.Update(c.Request.Context(), c.GetString("principal"), pool, id, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Account updated", account)
}

// Delete handles DELETE /v1/accounts/:pool/:id. The deletion is staged
// behind the confirmation gate, never executed directly.
func (h *AccountHandler) Delete(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid account ID")
		return
	}
	account, err := h.accountService.Get(pool, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	principal := c.GetString("principal")
	title := "Eliminar cuenta"
	message := fmt.Sprintf("La cuenta %s será eliminada permanentemente.", account.Email)
	h.gate.Stage(principal, title, message, func(ctx context.Context) error {
		return h.accountService.Delete(ctx, principal, pool, id)
	})

	utils.Success(c, 200, "Deletion staged, confirmation required", gin.H{
		"title":   title,
		"message": message,
	})
}

// SendToSupport handles POST /v1/accounts/:pool/:id/support. Transfers only
// leave the admin pool; like deletion this is staged behind the confirmation
// gate.
func (h *AccountHandler) SendToSupport(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}
	if pool != models.PoolAdmin {
		utils.Error(c, 400, "INVALID_POOL", "Transfers only leave the admin pool")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid account ID")
		return
	}
	account, err := h.accountService.Get(models.PoolAdmin, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	principal := c.GetString("principal")
	title := "Enviar a soporte"
	message := fmt.Sprintf("La cuenta %s será movida al inventario de soporte.", account.Email)
	h.gate.Stage(principal, title, message, func(ctx context.Context) error {
		return h.accountService.SendToSupport(ctx, principal, id)
	})

	utils.Success(c, 200, "Transfer staged, confirmation required", gin.H{
		"title":   title,
		"message": message,
	})
}

// Report handles POST /v1/accounts/:pool/:id/report
func (h *AccountHandler) Report(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid account ID")
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	account, err := h.accountService.ReportIssue(c.Request.Context(), c.GetString("principal"), pool, id, req.Note)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Account reported", account)
}

// Reveal handles POST /v1/accounts/:pool/:id/reveal
func (h *AccountHandler) Reveal(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid account ID")
		return
	}
	creds, err := h.accountService.Reveal(pool, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Credentials revealed", creds)
}

// Listings handles GET /v1/accounts/:pool/:id/listings
func (h *AccountHandler) Listings(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid account ID")
		return
	}
	listings, err := h.accountService.Listings(pool, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Listings retrieved", listings)
}

// importRequest is the JSON body for bulk imports.
type importRequest struct {
	CategoryID int `json:"categoryId" binding:"required"`
	Rows       []struct {
		Email        string   `json:"email" binding:"required"`
		Password     string   `json:"password" binding:"required"`
		Supplier     string   `json:"supplier"`
		Cost         int      `json:"cost"`
		PIN          string   `json:"pin"`
		CreationDate string   `json:"creationDate"`
		ServiceDays  int      `json:"serviceDays"`
		Profiles     []string `json:"profiles"`
	} `json:"rows" binding:"required,min=1"`
}

// Import handles POST /v1/accounts/:pool/import
func (h *AccountHandler) Import(c *gin.Context) {
	pool, ok := poolParam(c)
	if !ok {
		return
	}
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	rows := make([]service.ImportRow, 0, len(req.Rows))
	for _, r := range req.Rows {
		row := service.ImportRow{
			Email:       r.Email,
			Password:    r.Password,
			Supplier:    r.Supplier,
			Cost:        r.Cost,
			PIN:         r.PIN,
			ServiceDays: r.ServiceDays,
		}
		creation, err := parseDate(r.CreationDate)
		if err != nil {
			utils.Error(c, 400, "INVALID_DATE", "Dates must be YYYY-MM-DD")
			return
		}
		row.CreationDate = creation
		for i, name := range r.Profiles {
			if i >= len(row.Profiles) {
				break
			}
			row.Profiles[i] = name
		}
		rows = append(rows, row)
	}

	count, err := h.accountService.Import(c.Request.Context(), c.GetString("principal"), pool, req.CategoryID, rows)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Accounts imported", gin.H{"imported": count})
}
