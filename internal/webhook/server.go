// internal/webhook/server.go
package webhook

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/user/campaignforge/internal/gateway"
	"github.com/user/campaignforge/internal/types"
)

// Server is a lightweight HTTP handler for the campaign API.
type Server struct {
	store     types.CampaignStore
	gw        *gateway.Gateway
	assetsDir string
	mux       *http.ServeMux
}

// NewServer creates a new webhook Server over the campaign store and
// gateway. assetsDir may be empty to disable static asset serving.
func NewServer(store types.CampaignStore, gw *gateway.Gateway, assetsDir string) *Server {
	s := &Server{
		store:     store,
		gw:        gw,
		assetsDir: assetsDir,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/campaigns", s.handleGenerate)
	s.mux.HandleFunc("GET /api/campaigns", s.handleList)
	s.mux.HandleFunc("GET /api/campaigns/{id}", s.handleGet)
	s.mux.HandleFunc("GET /api/campaigns/{id}/export", s.handleExport)
	s.mux.HandleFunc("POST /api/assets/{assetID}/regenerate", s.handleRegenerate)
	if assetsDir != "" {
		s.mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(assetsDir))))
	}
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// generateRequest is the JSON body for POST /api/campaigns.
type generateRequest struct {
	Brief string `json:"brief"`
}

type campaignResponse struct {
	Success  bool            `json:"success"`
	Campaign *types.Manifest `json:"campaign"`
}

// handleGenerate runs a campaign generation job to completion and
// returns the ready manifest. The request context bounds the wait.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Brief == "" {
		http.Error(w, `{"error":"brief is required"}`, http.StatusBadRequest)
		return
	}

	type outcome struct {
		m   *types.Manifest
		err error
	}
	done := make(chan outcome, 1)
	_, err := s.gw.SubmitBrief(r.Context(), req.Brief, gateway.WithOnComplete(func(m *types.Manifest, err error) {
		done <- outcome{m, err}
	}))
	if err != nil {
		slog.Error("submit brief failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	select {
	case out := <-done:
		if out.err != nil {
			slog.Error("campaign generation failed", "error", out.err)
			http.Error(w, `{"error":"campaign generation failed"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(campaignResponse{Success: true, Campaign: out.m})
	case <-r.Context().Done():
		http.Error(w, `{"error":"request cancelled"}`, http.StatusServiceUnavailable)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		slog.Error("list campaigns failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt > summaries[j].CreatedAt
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "campaigns": summaries})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := types.CampaignID(r.PathValue("id"))
	m, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"campaign not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaignResponse{Success: true, Campaign: m})
}

// regenerateRequest is the JSON body for POST /api/assets/{assetID}/regenerate.
type regenerateRequest struct {
	ModifyInstructions string `json:"modify_instructions"`
}

// handleRegenerate runs an asset regeneration job to completion and
// returns the updated manifest.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	assetID := r.PathValue("assetID")

	var req regenerateRequest
	// Body is optional; a missing or empty body means plain re-roll.
	_ = json.NewDecoder(r.Body).Decode(&req)

	type outcome struct {
		m   *types.Manifest
		err error
	}
	done := make(chan outcome, 1)
	_, err := s.gw.SubmitRegenerate(r.Context(), assetID, req.ModifyInstructions, gateway.WithOnComplete(func(m *types.Manifest, err error) {
		done <- outcome{m, err}
	}))
	if err != nil {
		http.Error(w, `{"error":"asset not found"}`, http.StatusNotFound)
		return
	}

	select {
	case out := <-done:
		if out.err != nil {
			slog.Error("asset regeneration failed", "asset_id", assetID, "error", out.err)
			http.Error(w, `{"error":"asset regeneration failed"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(campaignResponse{Success: true, Campaign: out.m})
	case <-r.Context().Done():
		http.Error(w, `{"error":"request cancelled"}`, http.StatusServiceUnavailable)
	}
}

// handleExport streams the campaign as a ZIP archive: the manifest
// plus stored image blobs and text asset contents.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := types.CampaignID(r.PathValue("id"))
	m, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"campaign not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=campaign_%s.zip", id))

	zw := zip.NewWriter(w)
	defer zw.Close()

	manifestJSON, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		slog.Error("marshal manifest for export", "campaign_id", string(id), "error", err)
		return
	}
	f, err := zw.Create("campaign_manifest.json")
	if err != nil {
		return
	}
	f.Write(manifestJSON)

	for _, asset := range m.AssetPlan {
		if asset.URL != "" {
			data, err := os.ReadFile(asset.URL)
			if err != nil {
				slog.Warn("export: blob unreadable", "asset_id", asset.ID, "path", asset.URL, "error", err)
			} else {
				f, err := zw.Create("assets/" + filepath.Base(asset.URL))
				if err != nil {
					return
				}
				f.Write(data)
			}
		}
		if asset.Content != "" {
			f, err := zw.Create("assets/" + asset.ID + ".txt")
			if err != nil {
				return
			}
			f.Write([]byte(asset.Content))
		}
	}
}
