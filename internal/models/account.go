package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Pool identifies which account pool a record belongs to.
type Pool string

const (
	PoolAdmin   Pool = "admin"
	PoolSupport Pool = "support"
)

// Valid reports whether p is one of the two known pools.
func (p Pool) Valid() bool {
	return p == PoolAdmin || p == PoolSupport
}

// Table returns the backing table for the pool.
func (p Pool) Table() string {
	if p == PoolSupport {
		return "support_accounts"
	}
	return "admin_accounts"
}

// AccountStatus enumerates account lifecycle states.
type AccountStatus string

const (
	StatusDisponible AccountStatus = "disponible"
	StatusOcupada    AccountStatus = "ocupada"
	StatusCaida      AccountStatus = "caida"
)

// Valid reports whether s is a known status.
func (s AccountStatus) Valid() bool {
	return s == StatusDisponible || s == StatusOcupada || s == StatusCaida
}

// ExpiryBucket classifies an account by remaining service days.
type ExpiryBucket string

const (
	BucketVencido ExpiryBucket = "vencido"
	BucketProximo ExpiryBucket = "proximo"
	BucketVigente ExpiryBucket = "vigente"

	// BucketNone marks accounts without an end date; they are exempt from
	// the vencido/proximo/vigente classification.
	BucketNone ExpiryBucket = ""
)

// ProfileSlots lists the profile slot keys in order.
var ProfileSlots = []string{"profile1", "profile2", "profile3", "profile4", "profile5"}

// Account is a credential record in either the admin or support pool.
// The two pools are structurally identical and stored in separate tables.
// Password holds the AES-CBC ciphertext; plaintext is only produced by an
// explicit reveal in display contexts.
type Account struct {
	ID         int    `db:"id" json:"id"`
	CategoryID int    `db:"category_id" json:"categoryId"`
	Email      string `db:"email" json:"email"`
	Password   string `db:"password" json:"-"`
	Supplier   string `db:"supplier" json:"supplier"`
	Cost       int    `db:"cost" json:"cost"`
	PIN        string `db:"pin" json:"pin"`

	CreationDate *time.Time `db:"creation_date" json:"creationDate"`
	ServiceDays  int        `db:"service_days" json:"serviceDays"`
	EndDate      *time.Time `db:"end_date" json:"endDate"`

	Status AccountStatus `db:"status" json:"status"`

	Profile1 string `db:"profile1" json:"profile1"`
	Profile2 string `db:"profile2" json:"profile2"`
	Profile3 string `db:"profile3" json:"profile3"`
	Profile4 string `db:"profile4" json:"profile4"`
	Profile5 string `db:"profile5" json:"profile5"`

	Observation string `db:"observation" json:"observation"`

	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ProfileName returns the stored name for a slot key ("profile1".."profile5"),
// or empty if the slot key is unknown.
func (a *Account) ProfileName(slot string) string {
	switch slot {
	case "profile1":
		return a.Profile1
	case "profile2":
		return a.Profile2
	case "profile3":
		return a.Profile3
	case "profile4":
		return a.Profile4
	case "profile5":
		return a.Profile5
	}
	return ""
}

// ActiveProfiles returns the slot keys whose name is non-empty. A slot with
// no name is absent for publishing purposes.
func (a *Account) ActiveProfiles() []string {
	var active []string
	for _, slot := range ProfileSlots {
		if strings.TrimSpace(a.ProfileName(slot)) != "" {
			active = append(active, slot)
		}
	}
	return active
}

// ComputeEndDate derives the end date from creation date and service days.
// Returns nil when the creation date is missing.
func ComputeEndDate(creation *time.Time, serviceDays int) *time.Time {
	if creation == nil {
		return nil
	}
	end := creation.AddDate(0, 0, serviceDays)
	return &end
}

// RemainingDays returns ceil((end_date - now) / 24h) and true, or 0 and
// false when the account has no end date.
func (a *Account) RemainingDays(now time.Time) (int, bool) {
	if a.EndDate == nil {
		return 0, false
	}
	diff := a.EndDate.Sub(now)
	return int(math.Ceil(diff.Hours() / 24)), true
}

// Bucket classifies the account: vencido when remaining days <= 0, proximo
// for 1-7, vigente above that. Accounts without an end date fall in no
// bucket.
func (a *Account) Bucket(now time.Time) ExpiryBucket {
	days, ok := a.RemainingDays(now)
	if !ok {
		return BucketNone
	}
	switch {
	case days <= 0:
		return BucketVencido
	case days <= 7:
		return BucketProximo
	default:
		return BucketVigente
	}
}

// ExpiryLabel renders the remaining-days display: "VENCIDO" for expired
// accounts, "N DÍAS" otherwise, and a dash for indeterminate accounts.
func (a *Account) ExpiryLabel(now time.Time) string {
	days, ok := a.RemainingDays(now)
	if !ok {
		return "—"
	}
	if days <= 0 {
		return "VENCIDO"
	}
	return fmt.Sprintf("%d DÍAS", days)
}
