// internal/webhook/server_test.go
package webhook

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/user/campaignforge/internal/gateway"
	"github.com/user/campaignforge/internal/state"
	"github.com/user/campaignforge/internal/types"
)

// newTestServer wires a Server to a real file-backed store and a
// gateway whose processor fakes the orchestrator.
func newTestServer(t *testing.T) (*Server, *state.CampaignStore) {
	t.Helper()
	store := state.NewCampaignStore(t.TempDir())

	gw := gateway.New(store)
	gw.Start(context.Background())
	t.Cleanup(gw.Stop)

	gw.Queue.SetProcessor(func(j *gateway.Job) error {
		switch j.Kind {
		case gateway.JobGenerate:
			m := &types.Manifest{
				CampaignID: j.CampaignID,
				Brief:      j.Brief,
				CreatedAt:  "2026-08-31T00:00:00Z",
				Status:     types.StatusReady,
				AssetPlan: []*types.Asset{
					{ID: "caption_1", Type: types.AssetCaption, Version: 1, Content: "Fresh caption"},
				},
			}
			if err := store.Put(j.Ctx, m); err != nil {
				return err
			}
			if j.OnComplete != nil {
				j.OnComplete(m, nil)
			}
		case gateway.JobRegenerate:
			m, err := store.Get(j.Ctx, j.CampaignID)
			if err != nil {
				return err
			}
			m.AssetPlan[0].Version++
			if err := store.Put(j.Ctx, m); err != nil {
				return err
			}
			if j.OnComplete != nil {
				j.OnComplete(m, nil)
			}
		}
		return nil
	})

	return NewServer(store, gw, ""), store
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestGenerateCampaign(t *testing.T) {
	srv, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"brief": "Launch the summer sale"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/campaigns", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp campaignResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Campaign == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Campaign.Brief != "Launch the summer sale" {
		t.Errorf("brief not carried: %q", resp.Campaign.Brief)
	}
	if resp.Campaign.Status != types.StatusReady {
		t.Errorf("expected ready, got %s", resp.Campaign.Status)
	}
}

func TestGenerateCampaignValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/campaigns", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty brief: expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/campaigns", strings.NewReader(`not json`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json: expected 400, got %d", rec.Code)
	}
}

func TestGetCampaign(t *testing.T) {
	srv, store := newTestServer(t)

	m := &types.Manifest{CampaignID: "camp-1", Brief: "b", Status: types.StatusReady}
	if err := store.Put(context.Background(), m); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/campaigns/camp-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/campaigns/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestListCampaigns(t *testing.T) {
	srv, store := newTestServer(t)

	for _, id := range []types.CampaignID{"a", "b"} {
		if err := store.Put(context.Background(), &types.Manifest{CampaignID: id, Status: types.StatusReady}); err != nil {
			t.Fatal(err)
		}
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/campaigns", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success   bool                     `json:"success"`
		Campaigns []*types.CampaignSummary `json:"campaigns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Campaigns) != 2 {
		t.Errorf("expected 2 campaigns, got %d", len(resp.Campaigns))
	}
}

func TestRegenerateAsset(t *testing.T) {
	srv, store := newTestServer(t)

	m := &types.Manifest{
		CampaignID: "camp-1",
		Status:     types.StatusReady,
		AssetPlan:  []*types.Asset{{ID: "caption_1", Type: types.AssetCaption, Version: 1}},
	}
	if err := store.Put(context.Background(), m); err != nil {
		t.Fatal(err)
	}

	body := strings.NewReader(`{"modify_instructions": "make it funnier"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/assets/caption_1/regenerate", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp campaignResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Campaign.AssetPlan[0].Version != 2 {
		t.Errorf("expected version 2, got %d", resp.Campaign.AssetPlan[0].Version)
	}
}

func TestRegenerateUnknownAsset(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/assets/nope/regenerate", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestExportCampaign(t *testing.T) {
	srv, store := newTestServer(t)

	m := &types.Manifest{
		CampaignID: "camp-1",
		Status:     types.StatusReady,
		AssetPlan: []*types.Asset{
			{ID: "caption_1", Type: types.AssetCaption, Version: 1, Content: "Big sale caption"},
		},
	}
	if err := store.Put(context.Background(), m); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/campaigns/camp-1/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("expected zip content type, got %q", ct)
	}

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}

	names := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		names[f.Name] = string(data)
	}

	if _, ok := names["campaign_manifest.json"]; !ok {
		t.Error("manifest missing from archive")
	}
	if got := names["assets/caption_1.txt"]; got != "Big sale caption" {
		t.Errorf("caption content %q", got)
	}
}
