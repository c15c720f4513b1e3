// Package state provides filesystem-backed storage implementations.
package state

import "github.com/user/campaignforge/internal/types"

// Compile-time interface compliance checks.
var _ types.CampaignStore = (*CampaignStore)(nil)
var _ types.BlobStore = (*BlobStore)(nil)
