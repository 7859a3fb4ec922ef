package risk

import (
	"github.com/rs/zerolog"

	"github.com/aristath/riskwatch/internal/domain"
)

// Service computes correlation and value-at-risk analytics from market
// price history.
type Service struct {
	client domain.MarketData
	log    zerolog.Logger
}

// NewService creates a new risk analytics service.
func NewService(client domain.MarketData, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		log:    log.With().Str("component", "risk").Logger(),
	}
}
