package publish

import (
	"testing"

	"github.com/cuentix/inventory_api/internal/models"
)

func sourceAccount() *models.Account {
	return &models.Account{
		ID:         7,
		CategoryID: 2,
		Cost:       100,
		PIN:        "4321",
		Profile1:   "Juan",
		Profile2:   "Ana",
		Profile4:   "Luis",
	}
}

func TestNewDraft_SeedsFromAccount(t *testing.T) {
	d := NewDraft(sourceAccount(), models.PoolAdmin)

	if d.Step != StepConfig {
		t.Errorf("expected config step, got %q", d.Step)
	}
	if d.SellType != models.SellByProfile {
		t.Errorf("expected profile mode, got %q", d.SellType)
	}
	if len(d.ActiveProfiles) != 3 {
		t.Fatalf("expected 3 active profiles, got %v", d.ActiveProfiles)
	}
	for _, slot := range d.ActiveProfiles {
		if !d.Selected[slot] {
			t.Errorf("slot %s should start selected", slot)
		}
		if d.ProfilePINs[slot] != "4321" {
			t.Errorf("slot %s pin should seed from account, got %q", slot, d.ProfilePINs[slot])
		}
	}
	if d.ProfileNames["profile2"] != "Ana" {
		t.Errorf("expected seeded name Ana, got %q", d.ProfileNames["profile2"])
	}
	if d.FullPIN != "4321" {
		t.Errorf("full pin should seed from account, got %q", d.FullPIN)
	}
}

func TestCanProceed_ProfileMode(t *testing.T) {
	d := NewDraft(sourceAccount(), models.PoolAdmin)
	if d.CanProceed() {
		t.Fatal("no prices entered: gate must fail")
	}

	d.ProfilePrices["profile1"] = "50"
	d.ProfilePrices["profile2"] = "60"
	d.ProfilePrices["profile4"] = "40"
	if !d.CanProceed() {
		t.Fatal("all selected priced: gate must pass")
	}

	d.ProfilePrices["profile2"] = "abc"
	if d.CanProceed() {
		t.Fatal("non-numeric price: gate must fail")
	}
	d.ProfilePrices["profile2"] = "0"
	if d.CanProceed() {
		t.Fatal("zero price: gate must fail")
	}

	// deselecting the bad slot removes it from the gate
	d.Selected["profile2"] = false
	if !d.CanProceed() {
		t.Fatal("deselected slot must not block the gate")
	}

	d.Selected["profile1"] = false
	d.Selected["profile4"] = false
	if d.CanProceed() {
		t.Fatal("nothing selected: gate must fail")
	}
}

func TestCanProceed_PartialPricing(t *testing.T) {
	acc := &models.Account{ID: 1, PIN: "0000", Profile1: "Juan", Profile3: "Ana"}
	d := NewDraft(acc, models.PoolAdmin)

	if len(d.ActiveProfiles) != 2 || d.ActiveProfiles[0] != "profile1" || d.ActiveProfiles[1] != "profile3" {
		t.Fatalf("expected active slots profile1/profile3, got %v", d.ActiveProfiles)
	}
	if !d.Selected["profile1"] || !d.Selected["profile3"] {
		t.Fatal("both active slots must start selected")
	}

	d.ProfilePrices["profile1"] = "40"
	if d.CanProceed() {
		t.Fatal("unpriced selected slot must block the gate")
	}
	d.ProfilePrices["profile3"] = "45"
	if !d.CanProceed() {
		t.Fatal("all selected slots priced: gate must pass")
	}
}

func TestCanProceed_FullMode(t *testing.T) {
	d := NewDraft(sourceAccount(), models.PoolAdmin)
	d.SellType = models.SellFull
	if d.CanProceed() {
		t.Fatal("no full price: gate must fail")
	}
	d.FullPrice = "-5"
	if d.CanProceed() {
		t.Fatal("negative full price: gate must fail")
	}
	d.FullPrice = "250"
	if !d.CanProceed() {
		t.Fatal("positive full price: gate must pass")
	}
}

func TestModeToggle_KeepsBothEntrySets(t *testing.T) {
	d := NewDraft(sourceAccount(), models.PoolAdmin)
	d.ProfilePrices["profile1"] = "50"
	d.FullPrice = "300"

	d.SellType = models.SellFull
	if d.ProfilePrices["profile1"] != "50" {
		t.Error("profile entries lost on mode switch")
	}
	d.SellType = models.SellByProfile
	if d.FullPrice != "300" {
		t.Error("full entries lost on mode switch")
	}
}

func TestAdvanceAndBack(t *testing.T) {
	d := NewDraft(sourceAccount(), models.PoolAdmin)

	if err := d.Advance(); err != ErrCannotProceed {
		t.Fatalf("expected ErrCannotProceed, got %v", err)
	}
	if d.Step != StepConfig {
		t.Fatal("failed advance must not change step")
	}
	if err := d.Back(); err != ErrWrongStep {
		t.Fatalf("back from config: expected ErrWrongStep, got %v", err)
	}

	d.SellType = models.SellFull
	d.FullPrice = "200"
	if err := d.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Step != StepConfirm {
		t.Fatalf("expected confirm step, got %q", d.Step)
	}
	if err := d.Advance(); err != ErrWrongStep {
		t.Fatalf("advance from confirm: expected ErrWrongStep, got %v", err)
	}

	if err := d.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Step != StepConfig || d.FullPrice != "200" {
		t.Fatal("back must return to config with entries intact")
	}
}

func TestTotalAndMargin(t *testing.T) {
	d := NewDraft(sourceAccount(), models.PoolAdmin)
	d.ProfilePrices["profile1"] = "50"
	d.ProfilePrices["profile2"] = "60"
	d.ProfilePrices["profile4"] = "40"

	if got := d.Total(); got != 150 {
		t.Errorf("expected total 150, got %d", got)
	}
	margin, show := d.Margin()
	if !show || margin != 50 {
		t.Errorf("expected margin 50 shown, got %d shown=%v", margin, show)
	}

	d.Selected["profile2"] = false
	if got := d.Total(); got != 90 {
		t.Errorf("deselected slot must not count, got %d", got)
	}

	d.Cost = 0
	if _, show := d.Margin(); show {
		t.Error("margin must be hidden when source cost is absent")
	}

	d.SellType = models.SellFull
	d.FullPrice = "250"
	if got := d.Total(); got != 250 {
		t.Errorf("full mode total: expected 250, got %d", got)
	}
}

func TestPackage_ProfileMode(t *testing.T) {
	d := NewDraft(sourceAccount(), models.PoolSupport)
	d.ProfilePrices["profile1"] = "50"
	d.ProfilePrices["profile2"] = "60"
	d.ProfilePrices["profile4"] = "40"
	d.Selected["profile2"] = false
	d.ProfilePINs["profile1"] = "1111"
	d.ProfileNames["profile1"] = "Juan P"

	req, err := d.Package()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ID != 7 || req.Type != models.PoolSupport || req.SellType != models.SellByProfile {
		t.Errorf("wrong source reference: %+v", req)
	}
	if len(req.ProfilesToSell) != 2 {
		t.Fatalf("expected 2 profiles, got %v", req.ProfilesToSell)
	}
	if req.ProfilesToSell[0] != "profile1" || req.ProfilesToSell[1] != "profile4" {
		t.Errorf("expected slot order, got %v", req.ProfilesToSell)
	}
	if req.Prices["profile1"] != 50 || req.PINs["profile1"] != "1111" || req.Names["profile1"] != "Juan P" {
		t.Errorf("profile1 payload wrong: %+v", req)
	}
	if _, ok := req.Prices["profile2"]; ok {
		t.Error("deselected slot must not be packaged")
	}
}

func TestPackage_FullMode(t *testing.T) {
	d := NewDraft(sourceAccount(), models.PoolAdmin)
	d.SellType = models.SellFull
	d.FullPrice = "250"
	d.FullName = "Cuenta completa"

	req, err := d.Package()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Prices[models.FullUnit] != 250 {
		t.Errorf("expected full price 250, got %d", req.Prices[models.FullUnit])
	}
	if req.PINs[models.FullUnit] != "4321" || req.Names[models.FullUnit] != "Cuenta completa" {
		t.Errorf("full payload wrong: %+v", req)
	}
	if len(req.ProfilesToSell) != 0 {
		t.Errorf("full mode must not list profiles, got %v", req.ProfilesToSell)
	}
}

func TestPackage_RejectsInvalidConfig(t *testing.T) {
	d := NewDraft(sourceAccount(), models.PoolAdmin)
	if _, err := d.Package(); err != ErrCannotProceed {
		t.Fatalf("expected ErrCannotProceed, got %v", err)
	}
}
