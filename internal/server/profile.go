package server

import (
	"net/http"

	"giventake/pkg/types"
)

type addressQuery struct {
	ID      string         `form:"id"`
	Context types.UserType `form:"context"`
}

func (s *Service) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	var q addressQuery
	if err := decodeQuery(r, &q); err != nil {
		s.writeError(w, r, err)
		return
	}

	address, err := s.profiles.Address(r.Context(), q.ID, q.Context)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(address)
}

func (s *Service) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	var in types.AddressInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	row, err := s.profiles.UpdateAddress(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Address updated successfully",
		"data":    row,
	})
}

func (s *Service) handleUpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	var in types.ProfileImageInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	row, err := s.profiles.UpdateProfileImage(r.Context(), r.PathValue("user"), r.PathValue("userid"), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile image updated successfully",
		"data":    row,
	})
}
