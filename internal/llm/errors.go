package llm

import (
	"bytes"
	"fmt"

	"github.com/dkazlauskas/bendrija-ingest/internal/common"
)

// MapUpstreamStatus classifies a non-2xx generative-service response so the
// caller can surface a targeted message per failure mode.
func MapUpstreamStatus(status int, body []byte) error {
	switch {
	case status == 429 && bytes.Contains(body, []byte("insufficient_quota")):
		return fmt.Errorf("status %d: %w", status, common.ErrUpstreamQuota)
	case status == 402:
		return fmt.Errorf("status %d: %w", status, common.ErrUpstreamQuota)
	case status == 429:
		return fmt.Errorf("status %d: %w", status, common.ErrUpstreamRateLimited)
	default:
		return fmt.Errorf("status %d: %w", status, common.ErrUpstreamUnavailable)
	}
}
