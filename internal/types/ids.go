// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

type CampaignID string
type JobID string

func NewCampaignID() CampaignID {
	return CampaignID(uuid.New().String())
}

func NewJobID() JobID {
	return JobID(uuid.New().String())
}
