package domain

import (
	"context"
	"log/slog"
)

// EnrichHometown fills in missing hometown coordinates by forward geocoding the
// recruit's "City, ST". The recruit is returned unchanged when it already has
// coordinates, when geocoder is nil, or when the lookup fails or comes back
// empty; callers decide what to do with rows that still lack coordinates.
func EnrichHometown(ctx context.Context, r Recruit, geocoder Geocoder, logger *slog.Logger) Recruit {
	if geocoder == nil || !r.Hometown.IsZero() {
		return r
	}

	name, state := SplitCity(r.City)
	if name == "" {
		return r
	}

	result, err := geocoder.ForwardGeocode(ctx, name, state)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"recruit", r.Name,
			"city", name,
			"state", state,
			"error", err,
		)
		return r
	}
	if result.Lat == 0 && result.Lon == 0 {
		return r
	}

	r.Hometown = Geo{Lat: result.Lat, Lon: result.Lon}
	return r
}
