package server

import (
	"net/http"

	"giventake/pkg/types"
)

func (s *Service) handleRegisterDonor(w http.ResponseWriter, r *http.Request) {
	var in types.RegisterDonorInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	userID, err := s.accounts.RegisterDonor(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Donor registered successfully",
		"user_id": userID,
	})
}

func (s *Service) handleRegisterOrganization(w http.ResponseWriter, r *http.Request) {
	var in types.RegisterOrganizationInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	userID, err := s.accounts.RegisterOrganization(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Organization registered successfully",
		"user_id": userID,
	})
}

func (s *Service) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var in types.RegisterAdminInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	userID, err := s.accounts.RegisterAdmin(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Admin registered successfully",
		"user_id": userID,
	})
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in types.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.accounts.Login(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var in types.RefreshInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.accounts.Refresh(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	var in types.ChangePasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.ChangePassword(r.Context(), claims.Email, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, http.StatusOK, "Password changed successfully")
}

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	profile, err := s.accounts.Profile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}
