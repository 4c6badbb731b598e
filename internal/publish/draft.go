package publish

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cuentix/inventory_api/internal/models"
)

// Step enumerates the wizard states.
type Step string

const (
	StepConfig  Step = "config"
	StepConfirm Step = "confirm"
)

var (
	// ErrCannotProceed is returned when advancing a draft that fails its
	// validity gate.
	ErrCannotProceed = errors.New("draft configuration incomplete")
	// ErrWrongStep is returned when an operation is not valid for the
	// draft's current step.
	ErrWrongStep = errors.New("operation not valid in current step")
)

// Draft is the server-held state of one publish wizard session. Entries for
// both sell modes are retained in parallel so toggling the mode never loses
// what the operator already typed. Prices are kept raw and parsed at the
// validity gate, matching form-input semantics.
type Draft struct {
	ID         string      `json:"id"`
	AccountID  int         `json:"accountId"`
	Origin     models.Pool `json:"origin"`
	CategoryID int         `json:"categoryId"`
	Cost       int         `json:"cost"`

	Step     Step            `json:"step"`
	SellType models.SellType `json:"sellType"`

	ActiveProfiles []string        `json:"activeProfiles"`
	Selected       map[string]bool `json:"selected"`

	ProfilePrices map[string]string `json:"profilePrices"`
	ProfilePINs   map[string]string `json:"profilePins"`
	ProfileNames  map[string]string `json:"profileNames"`

	FullPrice string `json:"fullPrice"`
	FullPIN   string `json:"fullPin"`
	FullName  string `json:"fullName"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewDraft opens a wizard on a source account. All named profile slots start
// selected, with each slot's pin seeded from the account's shared pin and
// its name from the stored slot name.
func NewDraft(acc *models.Account, origin models.Pool) *Draft {
	d := &Draft{
		ID:            uuid.New().String(),
		AccountID:     acc.ID,
		Origin:        origin,
		CategoryID:    acc.CategoryID,
		Cost:          acc.Cost,
		Step:          StepConfig,
		SellType:      models.SellByProfile,
		Selected:      make(map[string]bool),
		ProfilePrices: make(map[string]string),
		ProfilePINs:   make(map[string]string),
		ProfileNames:  make(map[string]string),
		FullPIN:       acc.PIN,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	d.ActiveProfiles = acc.ActiveProfiles()
	for _, slot := range d.ActiveProfiles {
		d.Selected[slot] = true
		d.ProfilePINs[slot] = acc.PIN
		d.ProfileNames[slot] = acc.ProfileName(slot)
	}
	return d
}

// SelectedProfiles returns the selected slots in slot order.
func (d *Draft) SelectedProfiles() []string {
	var out []string
	for _, slot := range d.ActiveProfiles {
		if d.Selected[slot] {
			out = append(out, slot)
		}
	}
	return out
}

// CanProceed is the validity gate for leaving the config step: in profile
// mode at least one profile must be selected and every selected profile
// must carry a positive integer price; in full mode the full price must be
// a positive integer.
func (d *Draft) CanProceed() bool {
	if d.SellType == models.SellFull {
		_, ok := parsePositiveInt(d.FullPrice)
		return ok
	}
	selected := d.SelectedProfiles()
	if len(selected) == 0 {
		return false
	}
	for _, slot := range selected {
		if _, ok := parsePositiveInt(d.ProfilePrices[slot]); !ok {
			return false
		}
	}
	return true
}

// Advance moves config -> confirm when the gate passes.
func (d *Draft) Advance() error {
	if d.Step != StepConfig {
		return ErrWrongStep
	}
	if !d.CanProceed() {
		return ErrCannotProceed
	}
	d.Step = StepConfirm
	d.UpdatedAt = time.Now()
	return nil
}

// Back returns to the config step without resetting any entered values.
func (d *Draft) Back() error {
	if d.Step != StepConfirm {
		return ErrWrongStep
	}
	d.Step = StepConfig
	d.UpdatedAt = time.Now()
	return nil
}

// Total sums the selected profile prices in profile mode or returns the
// full price. Only meaningful once the gate has passed; unparsable entries
// count as zero.
func (d *Draft) Total() int {
	if d.SellType == models.SellFull {
		n, _ := parsePositiveInt(d.FullPrice)
		return n
	}
	total := 0
	for _, slot := range d.SelectedProfiles() {
		n, _ := parsePositiveInt(d.ProfilePrices[slot])
		total += n
	}
	return total
}

// Margin returns total minus source cost, and whether it should be shown
// (only when the source cost is a positive number).
func (d *Draft) Margin() (int, bool) {
	if d.Cost <= 0 {
		return 0, false
	}
	return d.Total() - d.Cost, true
}

// Package builds the publish payload from the current state. It re-checks
// the gate so a draft can never be packaged in an invalid configuration.
func (d *Draft) Package() (*models.PublishRequest, error) {
	if !d.CanProceed() {
		return nil, ErrCannotProceed
	}
	req := &models.PublishRequest{
		ID:       d.AccountID,
		Type:     d.Origin,
		SellType: d.SellType,
		Prices:   make(map[string]int),
		PINs:     make(map[string]string),
		Names:    make(map[string]string),
	}
	if d.SellType == models.SellFull {
		price, _ := parsePositiveInt(d.FullPrice)
		req.Prices[models.FullUnit] = price
		req.PINs[models.FullUnit] = d.FullPIN
		req.Names[models.FullUnit] = d.FullName
		return req, nil
	}
	for _, slot := range d.SelectedProfiles() {
		price, _ := parsePositiveInt(d.ProfilePrices[slot])
		req.Prices[slot] = price
		req.PINs[slot] = d.ProfilePINs[slot]
		req.Names[slot] = d.ProfileNames[slot]
		req.ProfilesToSell = append(req.ProfilesToSell, slot)
	}
	return req, nil
}

func parsePositiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
