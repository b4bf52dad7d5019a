package workers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetChangedPlans(t *testing.T) {
	since := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/public/subscriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("since"); got != "2026-03-10T08:00:00Z" {
			t.Errorf("since = %s", got)
		}
		if r.Header.Get("X-Service-Token") != "svc" {
			t.Errorf("missing service token")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"subscriptions":[{"user_id":"u1","plan":"unlimited","status":"active"},{"user_id":"u2","plan":"family","status":"canceled"}]}`))
	}))
	defer srv.Close()

	plans, err := NewPlanSyncClient(srv.URL, "svc").GetChangedPlans(context.Background(), since)
	if err != nil {
		t.Fatalf("GetChangedPlans: %v", err)
	}
	if len(plans) != 2 || plans[0].UserID != "u1" || plans[0].Plan != "unlimited" || plans[1].Status != "canceled" {
		t.Fatalf("plans = %+v", plans)
	}
	if plans[0].EffectivePlan(since) != "unlimited" || plans[1].EffectivePlan(since) != "free" {
		t.Fatalf("effective plans wrong: %+v", plans)
	}
}

func TestGetChangedPlansErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewPlanSyncClient(srv.URL, "svc").GetChangedPlans(context.Background(), time.Now()); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestUpsertPlansEmpty(t *testing.T) {
	if err := UpsertPlans(nil, nil); err != nil {
		t.Fatalf("UpsertPlans(nil) = %v", err)
	}
}
