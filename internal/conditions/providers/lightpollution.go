package providers

import (
	"context"

	"github.com/skywatch/stargazing-api/internal/conditions"
	"github.com/skywatch/stargazing-api/internal/geo"
)

// HeuristicLightProvider implements conditions.LightPollutionGateway with the
// in-process estimator. A real tile or raster lookup can be dropped in behind
// the same interface.
type HeuristicLightProvider struct{}

func NewHeuristicLightProvider() HeuristicLightProvider {
	return HeuristicLightProvider{}
}

func (HeuristicLightProvider) Fetch(_ context.Context, pt geo.Point) (*conditions.LightPollution, error) {
	return conditions.EstimateLightPollution(pt), nil
}
