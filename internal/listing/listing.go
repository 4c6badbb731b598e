package listing

import (
	"strconv"
	"strings"
	"time"

	"github.com/cuentix/inventory_api/internal/models"
)

// PageSizes are the selectable page sizes for the inventory table.
var PageSizes = []int{5, 10, 25, 50}

// DefaultPageSize is used when the requested size is not one of PageSizes.
const DefaultPageSize = 10

// Filter describes the view state applied to a category snapshot. A zero
// value for Status, Bucket or Search disables that filter; all three are
// ANDed. Page resets on filter changes are the caller's responsibility.
type Filter struct {
	Status   models.AccountStatus
	Bucket   models.ExpiryBucket
	Search   string
	Page     int
	PageSize int
}

// RowKind discriminates parent rows from synthesized detail rows so a flat
// renderer can handle both.
type RowKind string

const (
	KindRow    RowKind = "row"
	KindDetail RowKind = "detail"
)

// Row is one visible table row.
type Row struct {
	Kind        RowKind         `json:"kind"`
	Account     *models.Account `json:"account"`
	Remaining   *int            `json:"remainingDays,omitempty"`
	Bucket      string          `json:"bucket,omitempty"`
	ExpiryLabel string          `json:"expiryLabel"`
}

// Result is the computed page plus pagination metadata. TotalItems counts
// parent rows after filtering; detail rows do not affect pagination.
type Result struct {
	Rows       []Row `json:"rows"`
	TotalItems int   `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

// Apply computes the visible page for the full in-memory category snapshot.
// Filtering order: status, then expiration bucket, then free-text search.
// Expanded ids get a detail row synthesized immediately after their parent.
func Apply(accounts []models.Account, f Filter, expanded map[int]bool, now time.Time) Result {
	filtered := make([]*models.Account, 0, len(accounts))
	for i := range accounts {
		a := &accounts[i]
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Bucket != "" && a.Bucket(now) != f.Bucket {
			continue
		}
		if !matchesSearch(a, f.Search, now) {
			continue
		}
		filtered = append(filtered, a)
	}

	size := normalizePageSize(f.PageSize)
	page := f.Page
	if page <= 0 {
		page = 1
	}
	total := len(filtered)
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	rows := make([]Row, 0, (end-start)*2)
	for _, a := range filtered[start:end] {
		rows = append(rows, makeRow(KindRow, a, now))
		if expanded[a.ID] {
			rows = append(rows, makeRow(KindDetail, a, now))
		}
	}

	return Result{
		Rows:       rows,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   size,
	}
}

func makeRow(kind RowKind, a *models.Account, now time.Time) Row {
	row := Row{
		Kind:        kind,
		Account:     a,
		Bucket:      string(a.Bucket(now)),
		ExpiryLabel: a.ExpiryLabel(now),
	}
	if days, ok := a.RemainingDays(now); ok {
		row.Remaining = &days
	}
	return row
}

func normalizePageSize(size int) int {
	for _, s := range PageSizes {
		if size == s {
			return size
		}
	}
	return DefaultPageSize
}

// matchesSearch performs a case-insensitive substring match of needle
// against the string form of every account field. An empty needle matches
// everything, so searching "" leaves the status/bucket-filtered set intact.
func matchesSearch(a *models.Account, needle string, now time.Time) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, field := range searchFields(a, now) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func searchFields(a *models.Account, now time.Time) []string {
	fields := []string{
		strconv.Itoa(a.ID),
		strconv.Itoa(a.CategoryID),
		a.Email,
		a.Supplier,
		a.PIN,
		strconv.Itoa(a.Cost),
		strconv.Itoa(a.ServiceDays),
		string(a.Status),
		a.Observation,
		a.ExpiryLabel(now),
	}
	if a.CreationDate != nil {
		fields = append(fields, a.CreationDate.Format("2006-01-02"))
	}
	if a.EndDate != nil {
		fields = append(fields, a.EndDate.Format("2006-01-02"))
	}
	for _, slot := range models.ProfileSlots {
		if name := a.ProfileName(slot); name != "" {
			fields = append(fields, name)
		}
	}
	return fields
}
