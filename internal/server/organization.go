package server

import (
	"fmt"
	"net/http"

	"giventake/pkg/types"
)

type statusChangeResponse struct {
	Message       string                `json:"message"`
	Donation      *types.Donation       `json:"donation"`
	Notifications []*types.Notification `json:"notifications"`
}

func (s *Service) handleAcceptPost(w http.ResponseWriter, r *http.Request) {
	var in types.AcceptPostInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	donation, notifications, err := s.donations.AcceptPost(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, &statusChangeResponse{
		Message:       "Donation accepted successfully",
		Donation:      donation,
		Notifications: notifications,
	})
}

func (s *Service) handleUpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	var in types.StatusUpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	donation, notifications, err := s.donations.UpdateStatus(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, &statusChangeResponse{
		Message:       fmt.Sprintf("Donation %s and notification sent.", donation.Status),
		Donation:      donation,
		Notifications: notifications,
	})
}

func (s *Service) handleReviewCampaignDonation(w http.ResponseWriter, r *http.Request) {
	var in types.CampaignReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	donation, notifications, err := s.donations.ReviewCampaignDonation(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, &statusChangeResponse{
		Message:       fmt.Sprintf("Campaign donation %s", donation.Status),
		Donation:      donation,
		Notifications: notifications,
	})
}

func (s *Service) handleDonationStatus(w http.ResponseWriter, r *http.Request) {
	donation, err := s.donations.Status(r.Context(), r.PathValue("requestId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":         donation.ID,
		"status":     donation.Status,
		"updated_at": donation.UpdatedAt,
	})
}

func (s *Service) handleOrgRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.donations.Requests(r.Context(), r.PathValue("organizationId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, requests)
}

func (s *Service) handleAllRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.donations.AllRequests(r.Context(), queryParam(r, "org_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, requests)
}

func (s *Service) handleOrgPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.donations.OrgPosts(r.Context(), queryParam(r, "org_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, posts)
}

func (s *Service) handlePendingPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.donations.PendingPosts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, posts)
}

func (s *Service) handleVerifyDonations(w http.ResponseWriter, r *http.Request) {
	proofs, err := s.donations.VerifyCampaignDonations(r.Context(), queryParam(r, "campaign_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, proofs)
}

func (s *Service) handleRecordFeedback(w http.ResponseWriter, r *http.Request) {
	var in types.FeedbackInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	feedback, err := s.donations.RecordFeedback(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Feedback recorded successfully",
		"feedback": feedback,
	})
}

func (s *Service) handleUpdatePeopleHelped(w http.ResponseWriter, r *http.Request) {
	var in types.PeopleHelpedInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	feedback, err := s.donations.UpdatePeopleHelped(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "People helped updated successfully",
		"feedback": feedback,
	})
}

func (s *Service) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in types.CampaignInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	campaign, err := s.campaigns.Create(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Campaign created successfully",
		"campaign": campaign,
	})
}

func (s *Service) handleAddFunds(w http.ResponseWriter, r *http.Request) {
	var in types.AddFundsInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	total, err := s.campaigns.AddFunds(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":               "Funds added successfully",
		"updated_amount_raised": total,
	})
}

func (s *Service) handleAllCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaigns.All(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, campaigns)
}

func (s *Service) handleOrgCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaigns.ByOrg(r.Context(), queryParam(r, "org_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, campaigns)
}

func (s *Service) handleGetOrgInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.orgs.Info(r.Context(), queryParam(r, "org_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, info)
}

func (s *Service) handleUpdateOrgInfo(w http.ResponseWriter, r *http.Request) {
	var in types.OrganizationInfoInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	org, err := s.orgs.UpdateInfo(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Organization info updated successfully",
		"data":    org,
	})
}

func (s *Service) handleAddBankDetail(w http.ResponseWriter, r *http.Request) {
	var in types.BankDetailInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	detail, err := s.orgs.AddBankDetail(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Bank details added successfully",
		"data":    detail,
	})
}

func (s *Service) handleGetOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.orgs.Organizations(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, orgs)
}

func (s *Service) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := s.orgs.Organization(r.Context(), queryParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, org)
}

func (s *Service) handleVerifyOrganization(w http.ResponseWriter, r *http.Request) {
	var in types.OrganizationStatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	org, err := s.orgs.SetStatus(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":      fmt.Sprintf("Organization %s", org.Status),
		"organization": org,
	})
}
