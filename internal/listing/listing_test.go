package listing

import (
	"testing"
	"time"

	"github.com/cuentix/inventory_api/internal/models"
)

func testNow() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func daysFromNow(n int) *time.Time {
	d := testNow().AddDate(0, 0, n)
	return &d
}

func sampleAccounts() []models.Account {
	return []models.Account{
		{ID: 1, CategoryID: 3, Email: "uno@mail.com", Supplier: "ProveedorA", Status: models.StatusDisponible, EndDate: daysFromNow(30)},
		{ID: 2, CategoryID: 3, Email: "dos@mail.com", Supplier: "ProveedorB", Status: models.StatusOcupada, EndDate: daysFromNow(3)},
		{ID: 3, CategoryID: 3, Email: "tres@mail.com", Supplier: "ProveedorA", Status: models.StatusCaida, EndDate: daysFromNow(-2)},
		{ID: 4, CategoryID: 3, Email: "cuatro@mail.com", Supplier: "ProveedorC", Status: models.StatusDisponible},
		{ID: 5, CategoryID: 3, Email: "cinco@mail.com", Supplier: "ProveedorB", Status: models.StatusDisponible, EndDate: daysFromNow(5)},
	}
}

func parentIDs(res Result) []int {
	var ids []int
	for _, row := range res.Rows {
		if row.Kind == KindRow {
			ids = append(ids, row.Account.ID)
		}
	}
	return ids
}

func TestApply_NoFilters(t *testing.T) {
	res := Apply(sampleAccounts(), Filter{}, nil, testNow())
	if res.TotalItems != 5 {
		t.Fatalf("expected 5 items, got %d", res.TotalItems)
	}
	if res.TotalPages != 1 {
		t.Errorf("expected 1 page, got %d", res.TotalPages)
	}
	ids := parentIDs(res)
	for i, want := range []int{1, 2, 3, 4, 5} {
		if ids[i] != want {
			t.Errorf("row %d: expected id %d, got %d", i, want, ids[i])
		}
	}
}

func TestApply_FiltersAreANDed(t *testing.T) {
	f := Filter{Status: models.StatusDisponible, Bucket: models.BucketProximo}
	res := Apply(sampleAccounts(), f, nil, testNow())
	if res.TotalItems != 1 {
		t.Fatalf("expected 1 item, got %d", res.TotalItems)
	}
	if res.Rows[0].Account.ID != 5 {
		t.Errorf("expected account 5, got %d", res.Rows[0].Account.ID)
	}
}

func TestApply_SearchMatchesAnyField(t *testing.T) {
	cases := []struct {
		search string
		want   []int
	}{
		{"proveedora", []int{1, 3}},
		{"CUATRO", []int{4}},
		{"vencido", []int{3}},
		{"", []int{1, 2, 3, 4, 5}},
	}
	for _, tc := range cases {
		res := Apply(sampleAccounts(), Filter{Search: tc.search}, nil, testNow())
		ids := parentIDs(res)
		if len(ids) != len(tc.want) {
			t.Fatalf("search %q: expected %v, got %v", tc.search, tc.want, ids)
		}
		for i := range tc.want {
			if ids[i] != tc.want[i] {
				t.Errorf("search %q: expected %v, got %v", tc.search, tc.want, ids)
			}
		}
	}
}

func TestApply_SearchCombinesWithStatus(t *testing.T) {
	f := Filter{Status: models.StatusDisponible, Search: "ProveedorB"}
	res := Apply(sampleAccounts(), f, nil, testNow())
	if res.TotalItems != 1 || res.Rows[0].Account.ID != 5 {
		t.Fatalf("expected only account 5, got %v", parentIDs(res))
	}
}

func TestApply_Pagination(t *testing.T) {
	accounts := make([]models.Account, 12)
	for i := range accounts {
		accounts[i] = models.Account{ID: i + 1, Status: models.StatusDisponible}
	}

	res := Apply(accounts, Filter{Page: 1, PageSize: 5}, nil, testNow())
	if res.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", res.TotalPages)
	}
	if len(res.Rows) != 5 {
		t.Errorf("page 1: expected 5 rows, got %d", len(res.Rows))
	}

	res = Apply(accounts, Filter{Page: 3, PageSize: 5}, nil, testNow())
	if len(res.Rows) != 2 {
		t.Errorf("page 3: expected 2 rows, got %d", len(res.Rows))
	}
	if res.Rows[0].Account.ID != 11 {
		t.Errorf("page 3: expected first id 11, got %d", res.Rows[0].Account.ID)
	}

	res = Apply(accounts, Filter{Page: 9, PageSize: 5}, nil, testNow())
	if len(res.Rows) != 0 {
		t.Errorf("page past end: expected 0 rows, got %d", len(res.Rows))
	}
	if res.TotalItems != 12 {
		t.Errorf("page past end: expected totalItems 12, got %d", res.TotalItems)
	}
}

func TestApply_NormalizesPageSize(t *testing.T) {
	for _, size := range []int{0, -1, 7, 100} {
		res := Apply(sampleAccounts(), Filter{PageSize: size}, nil, testNow())
		if res.PageSize != DefaultPageSize {
			t.Errorf("size %d: expected normalized %d, got %d", size, DefaultPageSize, res.PageSize)
		}
	}
	res := Apply(sampleAccounts(), Filter{PageSize: 25}, nil, testNow())
	if res.PageSize != 25 {
		t.Errorf("expected 25 kept, got %d", res.PageSize)
	}
}

func TestApply_DetailRows(t *testing.T) {
	expanded := map[int]bool{2: true, 4: true}
	res := Apply(sampleAccounts(), Filter{}, expanded, testNow())

	if res.TotalItems != 5 {
		t.Fatalf("detail rows must not affect pagination, got totalItems %d", res.TotalItems)
	}
	if len(res.Rows) != 7 {
		t.Fatalf("expected 7 rows incl details, got %d", len(res.Rows))
	}
	for i, row := range res.Rows {
		if row.Kind != KindDetail {
			continue
		}
		if i == 0 || res.Rows[i-1].Account.ID != row.Account.ID {
			t.Errorf("detail row at %d is not adjacent to its parent", i)
		}
	}
}

func TestApply_RowLabels(t *testing.T) {
	res := Apply(sampleAccounts(), Filter{}, nil, testNow())

	byID := map[int]Row{}
	for _, row := range res.Rows {
		byID[row.Account.ID] = row
	}

	if byID[3].ExpiryLabel != "VENCIDO" {
		t.Errorf("expected VENCIDO, got %q", byID[3].ExpiryLabel)
	}
	if byID[4].ExpiryLabel != "—" {
		t.Errorf("expected dash for no end date, got %q", byID[4].ExpiryLabel)
	}
	if byID[4].Remaining != nil {
		t.Errorf("expected nil remaining for no end date, got %d", *byID[4].Remaining)
	}
	if byID[2].Bucket != string(models.BucketProximo) {
		t.Errorf("expected proximo, got %q", byID[2].Bucket)
	}
}
