// internal/state/campaign.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/user/campaignforge/internal/types"
)

// CampaignStore is a JSON-file-backed campaign manifest store. Each
// campaign is stored at campaigns/<campaignID>.json.
type CampaignStore struct {
	root string
	mu   sync.RWMutex
}

// NewCampaignStore creates a new file-backed CampaignStore rooted at
// the given directory.
func NewCampaignStore(root string) *CampaignStore {
	return &CampaignStore{root: root}
}

func (s *CampaignStore) campaignsDir() string {
	return filepath.Join(s.root, "campaigns")
}

func (s *CampaignStore) campaignPath(id types.CampaignID) string {
	return filepath.Join(s.campaignsDir(), string(id)+".json")
}

// Put persists the manifest, overwriting any prior version.
func (s *CampaignStore) Put(_ context.Context, m *types.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.CampaignID == "" {
		return fmt.Errorf("manifest has no campaign_id")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.MkdirAll(s.campaignsDir(), 0o755); err != nil {
		return fmt.Errorf("create campaigns dir: %w", err)
	}

	// Atomic write: write to temp file then rename
	target := s.campaignPath(m.CampaignID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp manifest: %w", err)
	}
	return nil
}

// Get returns the campaign with the given ID.
func (s *CampaignStore) Get(_ context.Context, id types.CampaignID) (*types.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.read(id)
}

func (s *CampaignStore) read(id types.CampaignID) (*types.Manifest, error) {
	data, err := os.ReadFile(s.campaignPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("campaign not found: %s", id)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m types.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// List returns a summary of every stored campaign.
func (s *CampaignStore) List(_ context.Context) ([]*types.CampaignSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.campaignsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []*types.CampaignSummary{}, nil
		}
		return nil, fmt.Errorf("read campaigns dir: %w", err)
	}

	summaries := make([]*types.CampaignSummary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		m, err := s.read(types.CampaignID(strings.TrimSuffix(name, ".json")))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &types.CampaignSummary{
			CampaignID: m.CampaignID,
			Brief:      m.Brief,
			CreatedAt:  m.CreatedAt,
			Status:     m.Status,
		})
	}
	return summaries, nil
}

// FindByAsset returns the campaign whose asset plan contains the given
// asset id, scanning all stored campaigns.
func (s *CampaignStore) FindByAsset(ctx context.Context, assetID string) (*types.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.campaignsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("asset not found: %s", assetID)
		}
		return nil, fmt.Errorf("read campaigns dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		m, err := s.read(types.CampaignID(strings.TrimSuffix(name, ".json")))
		if err != nil {
			return nil, err
		}
		for _, asset := range m.AssetPlan {
			if asset.ID == assetID {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("asset not found: %s", assetID)
}
