package storefront

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAnnounce_SignsAndDeliversPayload(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"received":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "shhh")
	payload := &StockAnnouncement{
		Event:      EventStockPublished,
		SourceID:   7,
		SourceType: "admin",
		CategoryID: 2,
		SellType:   "profile",
		Listings: []ListingItem{
			{ListingID: 12, Unit: "profile1", Price: 50, DisplayName: "Juan"},
		},
		Timestamp: time.Now().UTC(),
	}

	status, respBody, err := client.Announce(context.Background(), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
	if respBody != `{"received":true}` {
		t.Errorf("unexpected response body: %q", respBody)
	}

	if gotHeaders.Get("Content-Type") != "application/json" {
		t.Errorf("wrong content type: %q", gotHeaders.Get("Content-Type"))
	}
	if gotHeaders.Get("X-Callback-Event") != EventStockPublished {
		t.Errorf("wrong event header: %q", gotHeaders.Get("X-Callback-Event"))
	}
	if gotHeaders.Get("X-Callback-Timestamp") == "" {
		t.Error("timestamp header missing")
	}

	mac := hmac.New(sha256.New, []byte("shhh"))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if got := gotHeaders.Get("X-Callback-Signature"); got != want {
		t.Errorf("signature mismatch: expected %q, got %q", want, got)
	}

	var decoded StockAnnouncement
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("body is not valid json: %v", err)
	}
	if decoded.SourceID != 7 || len(decoded.Listings) != 1 || decoded.Listings[0].Price != 50 {
		t.Errorf("payload not delivered intact: %+v", decoded)
	}
}

func TestDeliver_SignsExactBytes(t *testing.T) {
	var gotBody []byte
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Callback-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "shhh")
	stored := []byte(`{"event":"stock.published","sourceId":7}`)

	if _, _, err := client.Deliver(context.Background(), EventStockPublished, stored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(gotBody) != string(stored) {
		t.Errorf("stored payload must be delivered verbatim, got %q", gotBody)
	}

	mac := hmac.New(sha256.New, []byte("shhh"))
	mac.Write(stored)
	if want := "sha256=" + hex.EncodeToString(mac.Sum(nil)); gotSig != want {
		t.Errorf("signature must cover the stored bytes: expected %q, got %q", want, gotSig)
	}
}

func TestDeliver_ReportsNon200Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "shhh")
	status, body, err := client.Deliver(context.Background(), EventStockPublished, []byte(`{}`))
	if err != nil {
		t.Fatalf("a non-200 response is not a transport error: %v", err)
	}
	if status != http.StatusBadGateway || body != "upstream down" {
		t.Errorf("expected 502/upstream down, got %d/%q", status, body)
	}
}
