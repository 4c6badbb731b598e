package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/cache"
	"github.com/cuentix/inventory_api/internal/crypto"
	"github.com/cuentix/inventory_api/internal/listing"
	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/repository"
	"github.com/cuentix/inventory_api/internal/sse"
	"github.com/cuentix/inventory_api/internal/utils"
	"github.com/cuentix/inventory_api/pkg/storefront"
)

// AccountService handles the inventory lifecycle for both account pools:
// listing views, mutations, imports, pool transfers and publishing to stock.
type AccountService struct {
	accountRepo  *repository.AccountRepository
	categoryRepo *repository.CategoryRepository
	stockRepo    *repository.StockRepository
	callbackRepo *repository.CallbackRepository
	snapshots    *cache.SnapshotCache
	dashboards   *DashboardService
	cipher       *crypto.CredentialCipher
	notifier     *sse.Notifier

	mu    sync.Mutex
	views map[string]listing.Filter
}

// NewAccountService constructs an AccountService.
func NewAccountService(
	accountRepo *repository.AccountRepository,
	categoryRepo *repository.CategoryRepository,
	stockRepo *repository.StockRepository,
	callbackRepo *repository.CallbackRepository,
	snapshots *cache.SnapshotCache,
	dashboards *DashboardService,
	cipher *crypto.CredentialCipher,
	notifier *sse.Notifier,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		stockRepo:    stockRepo,
		callbackRepo: callbackRepo,
		snapshots:    snapshots,
		dashboards:   dashboards,
		cipher:       cipher,
		notifier:     notifier,
		views:        make(map[string]listing.Filter),
	}
}

// snapshot returns the full category snapshot, serving from cache when
// possible. On a miss the generation is read before the database load so a
// mutation racing the load invalidates the result instead of being masked.
func (s *AccountService) snapshot(ctx context.Context, pool models.Pool, categoryID int) ([]models.Account, error) {
	accounts, hit, err := s.snapshots.Get(ctx, pool, categoryID)
	if err != nil {
		log.Warn().Err(err).Str("pool", string(pool)).Int("category_id", categoryID).
			Msg("Snapshot cache read failed, falling back to database")
	}
	if hit {
		return accounts, nil
	}

	gen, err := s.snapshots.Generation(ctx, pool, categoryID)
	if err != nil {
		gen = -1
	}
	accounts, err = s.accountRepo.GetByCategory(pool, categoryID)
	if err != nil {
		return nil, err
	}
	if gen >= 0 {
		if err := s.snapshots.Store(ctx, pool, categoryID, gen, accounts); err != nil && err != cache.ErrStaleSnapshot {
			log.Warn().Err(err).Str("pool", string(pool)).Int("category_id", categoryID).
				Msg("Failed to store snapshot")
		}
	}
	return accounts, nil
}

// invalidate drops the cached snapshot and the pool's dashboard stats, then
// eagerly reloads the snapshot under the new generation. A reload superseded
// by yet another mutation is discarded.
func (s *AccountService) invalidate(ctx context.Context, pool models.Pool, categoryID int) {
	s.dashboards.Invalidate(ctx, pool)
	gen, err := s.snapshots.Invalidate(ctx, pool, categoryID)
	if err != nil {
		log.Warn().Err(err).Str("pool", string(pool)).Int("category_id", categoryID).
			Msg("Snapshot invalidation failed")
		return
	}
	accounts, err := s.accountRepo.GetByCategory(pool, categoryID)
	if err != nil {
		log.Warn().Err(err).Msg("Snapshot reload failed")
		return
	}
	if err := s.snapshots.Store(ctx, pool, categoryID, gen, accounts); err != nil && err != cache.ErrStaleSnapshot {
		log.Warn().Err(err).Msg("Failed to store reloaded snapshot")
	}
}

// notifyFailure queues an error event for the principal when a mutation
// returned an error. Deferred with a named error return so every failure
// path surfaces in the notification queue, not just the HTTP response.
func (s *AccountService) notifyFailure(principal, message string, err *error) {
	if *err != nil {
		s.notifier.Error(principal, message)
	}
}

// List computes the visible table page for a principal. The admin table
// starts back at page one whenever status, bucket or search change; the
// support table keeps whatever page was requested.
func (s *AccountService) List(ctx context.Context, principal string, pool models.Pool, categoryID int, f listing.Filter, expandedIDs []int) (*listing.Result, error) {
	if !pool.Valid() {
		return nil, utils.ErrInvalidPool
	}
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrInvalidCategory
		}
		return nil, err
	}

	key := fmt.Sprintf("%s|%s|%d", principal, pool, categoryID)
	s.mu.Lock()
	if prev, ok := s.views[key]; ok && pool == models.PoolAdmin {
		if prev.Status != f.Status || prev.Bucket != f.Bucket || prev.Search != f.Search {
			f.Page = 1
		}
	}
	s.views[key] = f
	s.mu.Unlock()

	accounts, err := s.snapshot(ctx, pool, categoryID)
	if err != nil {
		return nil, err
	}

	expanded := make(map[int]bool, len(expandedIDs))
	for _, id := range expandedIDs {
		expanded[id] = true
	}
	result := listing.Apply(accounts, f, expanded, time.Now())
	return &result, nil
}

// Get returns a single account.
func (s *AccountService) Get(pool models.Pool, id int) (*models.Account, error) {
	if !pool.Valid() {
		return nil, utils.ErrInvalidPool
	}
	a, err := s.accountRepo.GetByID(pool, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

// AccountInput carries the writable account fields shared by create and
// update. Prices and days arrive as integers; dates as ISO strings parsed by
// the handler.
type AccountInput struct {
	CategoryID   int
	Email        string
	Password     string
	Supplier     string
	Cost         int
	PIN          string
	CreationDate *time.Time
	ServiceDays  int
	EndDate      *time.Time
	Profiles     [5]string
	Observation  string
}

func (s *AccountService) applyInput(a *models.Account, in *AccountInput) error {
	a.CategoryID = in.CategoryID
	a.Email = in.Email
	a.Supplier = in.Supplier
	a.Cost = in.Cost
	a.PIN = in.PIN
	a.CreationDate = in.CreationDate
	a.ServiceDays = in.ServiceDays
	a.Profile1 = in.Profiles[0]
	a.Profile2 = in.Profiles[1]
	a.Profile3 = in.Profiles[2]
	a.Profile4 = in.Profiles[3]
	a.Profile5 = in.Profiles[4]
	a.Observation = in.Observation

	// An explicit end date wins; otherwise it is derived from creation date
	// plus service days.
	if in.EndDate != nil {
		a.EndDate = in.EndDate
	} else {
		a.EndDate = models.ComputeEndDate(in.CreationDate, in.ServiceDays)
	}

	if in.Password != "" {
		encrypted, err := s.cipher.Encrypt(in.Password)
		if err != nil {
			return err
		}
		a.Password = encrypted
	}
	return nil
}

// Create registers a new account in the pool. New accounts always start
// disponible.
func (s *AccountService) Create(ctx context.Context, principal string, pool models.Pool, in *AccountInput) (account *models.Account, err error) {
	defer s.notifyFailure(principal, "No se pudo registrar la cuenta", &err)
	if !pool.Valid() {
		return nil, utils.ErrInvalidPool
	}
	if _, err := s.categoryRepo.GetByID(in.CategoryID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrInvalidCategory
		}
		return nil, err
	}

	a := &models.Account{Status: models.StatusDisponible}
	if err := s.applyInput(a, in); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Create(pool, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx, pool, a.CategoryID)
	s.notifier.Success(principal, fmt.Sprintf("Cuenta %s registrada", a.Email))

	log.Info().Int("account_id", a.ID).Str("pool", string(pool)).Msg("Account created")
	return a, nil
}

// Update rewrites an account's editable fields. An empty password keeps the
// stored ciphertext; status never changes here.
func (s *AccountService) Update(ctx context.Context, principal string, pool models.Pool, id int, in *AccountInput) (account *models.Account, err error) {
	defer s.notifyFailure(principal, "No se pudo actualizar la cuenta", &err)
	if !pool.Valid() {
		return nil, utils.ErrInvalidPool
	}
	a, err := s.accountRepo.GetByID(pool, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	if in.CategoryID != a.CategoryID {
		if _, err := s.categoryRepo.GetByID(in.CategoryID); err != nil {
			if err == sql.ErrNoRows {
				return nil, utils.ErrInvalidCategory
			}
			return nil, err
		}
	}
	oldCategory := a.CategoryID

	if err := s.applyInput(a, in); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Update(pool, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx, pool, a.CategoryID)
	if oldCategory != a.CategoryID {
		s.invalidate(ctx, pool, oldCategory)
	}
	s.notifier.Success(principal, fmt.Sprintf("Cuenta %s actualizada", a.Email))
	return a, nil
}

// Delete removes an account permanently. Callers stage this behind the
// confirmation gate; by the time it runs the operator has already confirmed.
func (s *AccountService) Delete(ctx context.Context, principal string, pool models.Pool, id int) (err error) {
	defer s.notifyFailure(principal, "No se pudo eliminar la cuenta", &err)
	if !pool.Valid() {
		return utils.ErrInvalidPool
	}
	a, err := s.accountRepo.GetByID(pool, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrAccountNotFound
		}
		return err
	}
	if err := s.accountRepo.Delete(pool, id); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrAccountNotFound
		}
		return err
	}
	s.invalidate(ctx, pool, a.CategoryID)
	s.notifier.Success(principal, fmt.Sprintf("Cuenta %s eliminada", a.Email))

	log.Info().Int("account_id", id).Str("pool", string(pool)).Msg("Account deleted")
	return nil
}

// ReportIssue marks an account caida and appends the reported note to its
// observation. This is the only path that reaches caida.
func (s *AccountService) ReportIssue(ctx context.Context, principal string, pool models.Pool, id int, note string) (account *models.Account, err error) {
	defer s.notifyFailure(principal, "No se pudo reportar la cuenta", &err)
	if !pool.Valid() {
		return nil, utils.ErrInvalidPool
	}
	a, err := s.accountRepo.GetByID(pool, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	if a.Status == models.StatusCaida {
		return nil, utils.ErrStatusNotEditable
	}
	if err := s.accountRepo.UpdateStatus(pool, id, models.StatusCaida); err != nil {
		return nil, err
	}
	a.Status = models.StatusCaida
	if note = strings.TrimSpace(note); note != "" {
		stamped := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02"), note)
		if a.Observation != "" {
			a.Observation += "\n"
		}
		a.Observation += stamped
		if err := s.accountRepo.Update(pool, a); err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx, pool, a.CategoryID)
	s.notifier.Error(principal, fmt.Sprintf("Cuenta %s marcada como caída", a.Email))
	return a, nil
}

// SendToSupport moves an admin account into the support pool. Both pool
// snapshots for the category are invalidated.
func (s *AccountService) SendToSupport(ctx context.Context, principal string, id int) (err error) {
	defer s.notifyFailure(principal, "No se pudo enviar la cuenta a soporte", &err)
	a, err := s.accountRepo.GetByID(models.PoolAdmin, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrAccountNotFound
		}
		return err
	}
	if err := s.accountRepo.MoveToSupport(id); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrAccountNotFound
		}
		return err
	}
	s.invalidate(ctx, models.PoolAdmin, a.CategoryID)
	s.invalidate(ctx, models.PoolSupport, a.CategoryID)
	s.notifier.Success(principal, fmt.Sprintf("Cuenta %s enviada a soporte", a.Email))

	log.Info().Int("account_id", id).Msg("Account moved to support pool")
	return nil
}

// ImportRow is one line of a bulk import.
type ImportRow struct {
	Email        string
	Password     string
	Supplier     string
	Cost         int
	PIN          string
	CreationDate *time.Time
	ServiceDays  int
	Profiles     [5]string
}

// Import bulk-creates accounts in one category. The whole batch lands or
// none of it does.
func (s *AccountService) Import(ctx context.Context, principal string, pool models.Pool, categoryID int, rows []ImportRow) (count int, err error) {
	defer s.notifyFailure(principal, "No se pudo importar el lote de cuentas", &err)
	if !pool.Valid() {
		return 0, utils.ErrInvalidPool
	}
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		if err == sql.ErrNoRows {
			return 0, utils.ErrInvalidCategory
		}
		return 0, err
	}

	accounts := make([]models.Account, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		encrypted, err := s.cipher.Encrypt(r.Password)
		if err != nil {
			return 0, err
		}
		accounts = append(accounts, models.Account{
			CategoryID:   categoryID,
			Email:        r.Email,
			Password:     encrypted,
			Supplier:     r.Supplier,
			Cost:         r.Cost,
			PIN:          r.PIN,
			CreationDate: r.CreationDate,
			ServiceDays:  r.ServiceDays,
			EndDate:      models.ComputeEndDate(r.CreationDate, r.ServiceDays),
			Status:       models.StatusDisponible,
			Profile1:     r.Profiles[0],
			Profile2:     r.Profiles[1],
			Profile3:     r.Profiles[2],
			Profile4:     r.Profiles[3],
			Profile5:     r.Profiles[4],
		})
	}
	if err := s.accountRepo.BulkCreate(pool, accounts); err != nil {
		return 0, err
	}
	s.invalidate(ctx, pool, categoryID)
	s.notifier.Success(principal, fmt.Sprintf("%d cuentas importadas", len(accounts)))
	return len(accounts), nil
}

// Credentials is the plaintext reveal of an account's secrets.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	PIN      string `json:"pin"`
}

// Reveal decrypts an account's stored password for display.
func (s *AccountService) Reveal(pool models.Pool, id int) (*Credentials, error) {
	if !pool.Valid() {
		return nil, utils.ErrInvalidPool
	}
	a, err := s.accountRepo.GetByID(pool, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	plain, err := s.cipher.Decrypt(a.Password)
	if err != nil {
		return nil, err
	}
	return &Credentials{Email: a.Email, Password: plain, PIN: a.PIN}, nil
}

// Publish converts a packaged wizard payload into stock listings and queues
// the storefront announcement. The source account itself is untouched.
func (s *AccountService) Publish(ctx context.Context, principal string, req *models.PublishRequest) (_ []models.StockListing, err error) {
	defer s.notifyFailure(principal, "No se pudo publicar al stock", &err)
	if !req.Type.Valid() {
		return nil, utils.ErrInvalidPool
	}
	a, err := s.accountRepo.GetByID(req.Type, req.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}

	var units []string
	if req.SellType == models.SellFull {
		units = []string{models.FullUnit}
	} else {
		active := make(map[string]bool)
		for _, slot := range a.ActiveProfiles() {
			active[slot] = true
		}
		for _, slot := range req.ProfilesToSell {
			if !active[slot] {
				return nil, utils.ErrUnitNotSellable
			}
		}
		units = req.ProfilesToSell
	}
	if len(units) == 0 {
		return nil, utils.ErrNothingToPublish
	}

	listings := make([]models.StockListing, 0, len(units))
	for _, unit := range units {
		price, ok := req.Prices[unit]
		if !ok || price <= 0 {
			return nil, utils.ErrInvalidPrice
		}
		listings = append(listings, models.StockListing{
			SourceID:    a.ID,
			SourceType:  req.Type,
			CategoryID:  a.CategoryID,
			SellType:    req.SellType,
			Unit:        unit,
			Price:       price,
			PIN:         req.PINs[unit],
			DisplayName: req.Names[unit],
		})
	}
	if err := s.stockRepo.CreateBatch(listings); err != nil {
		return nil, err
	}

	if err := s.queueAnnouncement(a, req.SellType, listings); err != nil {
		log.Error().Err(err).Int("account_id", a.ID).Msg("Failed to queue stock announcement")
	}

	s.notifier.Success(principal, fmt.Sprintf("%d unidades publicadas al stock", len(listings)))
	log.Info().Int("account_id", a.ID).Int("units", len(listings)).
		Str("sell_type", string(req.SellType)).Msg("Stock published")
	return listings, nil
}

// queueAnnouncement writes the storefront webhook into the outbox; the
// callback worker handles delivery and retries.
func (s *AccountService) queueAnnouncement(a *models.Account, sellType models.SellType, listings []models.StockListing) error {
	items := make([]storefront.ListingItem, 0, len(listings))
	for _, l := range listings {
		items = append(items, storefront.ListingItem{
			ListingID:   l.ID,
			Unit:        l.Unit,
			Price:       l.Price,
			DisplayName: l.DisplayName,
		})
	}
	payload, err := json.Marshal(&storefront.StockAnnouncement{
		Event:      storefront.EventStockPublished,
		SourceID:   a.ID,
		SourceType: string(listings[0].SourceType),
		CategoryID: a.CategoryID,
		SellType:   string(sellType),
		Listings:   items,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	now := time.Now()
	return s.callbackRepo.Create(&models.StockCallback{
		SourceID:    a.ID,
		SourceType:  listings[0].SourceType,
		Event:       storefront.EventStockPublished,
		Payload:     payload,
		NextRetryAt: &now,
	})
}

// Listings returns everything published from one source account.
func (s *AccountService) Listings(pool models.Pool, id int) ([]models.StockListing, error) {
	if !pool.Valid() {
		return nil, utils.ErrInvalidPool
	}
	return s.stockRepo.GetBySource(pool, id)
}
