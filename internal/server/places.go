package server

import (
	"context"
	"encoding/json"
	"net/http"
)

func (s *Service) handlePlacesAutocomplete(w http.ResponseWriter, r *http.Request) {
	input := queryParam(r, "input")
	if input == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Input parameter is required"})
		return
	}

	s.proxyPlaces(w, r, "Failed to fetch suggestions", func(ctx context.Context) (json.RawMessage, error) {
		return s.places.Autocomplete(ctx, input, queryParam(r, "components"))
	})
}

func (s *Service) handlePlacesDetails(w http.ResponseWriter, r *http.Request) {
	placeID := queryParam(r, "place_id")
	if placeID == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "place_id parameter is required"})
		return
	}

	s.proxyPlaces(w, r, "Failed to fetch place details", func(ctx context.Context) (json.RawMessage, error) {
		return s.places.Details(ctx, placeID, queryParam(r, "fields"))
	})
}

func (s *Service) handlePlacesGeocode(w http.ResponseWriter, r *http.Request) {
	address := queryParam(r, "address")
	if address == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "address parameter is required"})
		return
	}

	s.proxyPlaces(w, r, "Failed to geocode address", func(ctx context.Context) (json.RawMessage, error) {
		return s.places.Geocode(ctx, address)
	})
}

func (s *Service) proxyPlaces(w http.ResponseWriter, r *http.Request, failure string, call func(context.Context) (json.RawMessage, error)) {
	body, err := call(r.Context())
	if err != nil {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("places request failed")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": failure})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
