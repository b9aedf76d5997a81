package server

import (
	"net/http"

	"giventake/pkg/types"
)

func (s *Service) handleDonate(w http.ResponseWriter, r *http.Request) {
	var in types.DonationInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	donationID, err := s.donations.Submit(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Donation request sent successfully",
		"donation_id": donationID,
	})
}

func (s *Service) handleCampaignDonate(w http.ResponseWriter, r *http.Request) {
	var in types.CampaignDonationInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	donationID, err := s.donations.SubmitCampaignDonation(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Campaign donation submitted successfully",
		"donation_id": donationID,
	})
}

func (s *Service) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	donationID := queryParam(r, "donation_id")

	if err := s.donations.Delete(r.Context(), donationID); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, http.StatusOK, "Donation deleted successfully")
}

func (s *Service) handleDonationDetails(w http.ResponseWriter, r *http.Request) {
	detail, err := s.donations.Details(r.Context(), queryParam(r, "donationId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Service) handleMyDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := s.donations.ByDonor(r.Context(), queryParam(r, "donor_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, donations)
}

func (s *Service) handleActiveCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaigns.Active(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, campaigns)
}

func (s *Service) handleDonorCampaignDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := s.donations.CampaignDonations(r.Context(), queryParam(r, "donor_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, donations)
}

func (s *Service) handleDonorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.donations.Stats(r.Context(), queryParam(r, "donor_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Service) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := s.donations.Feedback(r.Context(), queryParam(r, "donation_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, feedback)
}

func (s *Service) handleGetDonorDetail(w http.ResponseWriter, r *http.Request) {
	donor, err := s.profiles.Donor(r.Context(), queryParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, donor)
}
