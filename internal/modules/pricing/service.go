// README: Pricing service: loads the rate card and runs the quote engine.
package pricing

import "context"

// ConfigSource supplies the effective pricing configuration. Implemented
// by *Store; tests supply a stub.
type ConfigSource interface {
	Config(ctx context.Context) (Config, error)
}

type Service struct {
	source ConfigSource
}

func NewService(source ConfigSource) *Service {
	return &Service{source: source}
}

// Quote prices one consignment with the current rate card. Every order
// surface goes through here so the formula cannot drift between forms.
func (s *Service) Quote(ctx context.Context, in QuoteInput) (Breakdown, error) {
	cfg, err := s.source.Config(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	return Calculate(in, cfg)
}
