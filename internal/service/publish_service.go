package service

import (
	"context"
	"database/sql"

	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/publish"
	"github.com/cuentix/inventory_api/internal/repository"
	"github.com/cuentix/inventory_api/internal/utils"
)

// PublishService orchestrates the publish wizard: it opens drafts on source
// accounts, applies edits, steps the wizard and hands the packaged result to
// the account service on confirm.
type PublishService struct {
	registry    *publish.Registry
	accountRepo *repository.AccountRepository
	accounts    *AccountService
}

// NewPublishService constructs a PublishService.
func NewPublishService(registry *publish.Registry, accountRepo *repository.AccountRepository, accounts *AccountService) *PublishService {
	return &PublishService{
		registry:    registry,
		accountRepo: accountRepo,
		accounts:    accounts,
	}
}

// Open starts a wizard session on an account and returns the seeded draft.
func (s *PublishService) Open(pool models.Pool, accountID int) (*publish.Draft, error) {
	if !pool.Valid() {
		return nil, utils.ErrInvalidPool
	}
	a, err := s.accountRepo.GetByID(pool, accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	return s.registry.Open(a, pool), nil
}

// Get returns a copy of the draft's current state.
func (s *PublishService) Get(id string) (*publish.Draft, error) {
	var out publish.Draft
	err := s.registry.With(id, func(d *publish.Draft) error {
		out = *d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DraftUpdate carries partial wizard edits. Nil fields are left untouched;
// map entries are merged key by key.
type DraftUpdate struct {
	SellType      *models.SellType  `json:"sellType"`
	Selected      map[string]bool   `json:"selected"`
	ProfilePrices map[string]string `json:"profilePrices"`
	ProfilePINs   map[string]string `json:"profilePins"`
	ProfileNames  map[string]string `json:"profileNames"`
	FullPrice     *string           `json:"fullPrice"`
	FullPIN       *string           `json:"fullPin"`
	FullName      *string           `json:"fullName"`
}

// Update applies edits to a draft in the config step. Edits never clear the
// entries of the inactive sell mode, so toggling back restores them.
func (s *PublishService) Update(id string, upd *DraftUpdate) (*publish.Draft, error) {
	var out publish.Draft
	err := s.registry.With(id, func(d *publish.Draft) error {
		if d.Step != publish.StepConfig {
			return publish.ErrWrongStep
		}
		active := make(map[string]bool, len(d.ActiveProfiles))
		for _, slot := range d.ActiveProfiles {
			active[slot] = true
		}
		if upd.SellType != nil {
			d.SellType = *upd.SellType
		}
		for slot, sel := range upd.Selected {
			if !active[slot] {
				return utils.ErrUnitNotSellable
			}
			d.Selected[slot] = sel
		}
		for slot, price := range upd.ProfilePrices {
			if !active[slot] {
				return utils.ErrUnitNotSellable
			}
			d.ProfilePrices[slot] = price
		}
		for slot, pin := range upd.ProfilePINs {
			if !active[slot] {
				return utils.ErrUnitNotSellable
			}
			d.ProfilePINs[slot] = pin
		}
		for slot, name := range upd.ProfileNames {
			if !active[slot] {
				return utils.ErrUnitNotSellable
			}
			d.ProfileNames[slot] = name
		}
		if upd.FullPrice != nil {
			d.FullPrice = *upd.FullPrice
		}
		if upd.FullPIN != nil {
			d.FullPIN = *upd.FullPIN
		}
		if upd.FullName != nil {
			d.FullName = *upd.FullName
		}
		out = *d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Advance moves the draft to the confirm step when its gate passes.
func (s *PublishService) Advance(id string) (*publish.Draft, error) {
	var out publish.Draft
	err := s.registry.With(id, func(d *publish.Draft) error {
		if err := d.Advance(); err != nil {
			return err
		}
		out = *d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Back returns the draft to the config step, keeping all entered values.
func (s *PublishService) Back(id string) (*publish.Draft, error) {
	var out publish.Draft
	err := s.registry.With(id, func(d *publish.Draft) error {
		if err := d.Back(); err != nil {
			return err
		}
		out = *d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Confirm packages the draft and publishes it. The draft is discarded only
// after the publish lands.
func (s *PublishService) Confirm(ctx context.Context, principal, id string) ([]models.StockListing, error) {
	var req *models.PublishRequest
	err := s.registry.With(id, func(d *publish.Draft) error {
		if d.Step != publish.StepConfirm {
			return publish.ErrWrongStep
		}
		packaged, err := d.Package()
		if err != nil {
			return err
		}
		req = packaged
		return nil
	})
	if err != nil {
		return nil, err
	}
	listings, err := s.accounts.Publish(ctx, principal, req)
	if err != nil {
		return nil, err
	}
	s.registry.Discard(id)
	return listings, nil
}

// Discard abandons a wizard session.
func (s *PublishService) Discard(id string) {
	s.registry.Discard(id)
}
