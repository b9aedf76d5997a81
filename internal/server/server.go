package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"giventake/internal/auth"
	"giventake/internal/places"
	"giventake/internal/service"
	"giventake/internal/storage"
	"giventake/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-chi/cors"
	"github.com/go-playground/form/v4"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config
	tokens *auth.TokenManager

	accounts      *service.AccountService
	donations     *service.DonationService
	campaigns     *service.CampaignService
	orgs          *service.OrganizationService
	profiles      *service.ProfileService
	notifications *service.NotificationService

	objects storage.ObjectStore
	places  *places.Client

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	tokens *auth.TokenManager,
	accounts *service.AccountService,
	donations *service.DonationService,
	campaigns *service.CampaignService,
	orgs *service.OrganizationService,
	profiles *service.ProfileService,
	notifications *service.NotificationService,
	objects storage.ObjectStore,
	placesClient *places.Client,
) *Service {
	mux := flow.New()

	s := &Service{
		logger:        logger,
		config:        config,
		tokens:        tokens,
		accounts:      accounts,
		donations:     donations,
		campaigns:     campaigns,
		orgs:          orgs,
		profiles:      profiles,
		notifications: notifications,
		objects:       objects,
		places:        placesClient,
	}

	s.buildRouter(mux)

	handler := cors.Handler(cors.Options{
		AllowedOrigins: config.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})(s.LoggingMiddleware(s.StripTrailingSlash(mux)))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.ServerPort),
		Handler:           handler,
		ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the full middleware chain, mostly for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/donor/register", s.handleRegisterDonor, http.MethodPost)
	r.HandleFunc("/api/organization/register", s.handleRegisterOrganization, http.MethodPost)
	r.HandleFunc("/api/admin/register", s.handleRegisterAdmin, http.MethodPost)
	r.HandleFunc("/api/login", s.handleLogin, http.MethodPost)
	r.HandleFunc("/api/refresh-token", s.handleRefreshToken, http.MethodPost)

	r.HandleFunc("/api/places/autocomplete", s.handlePlacesAutocomplete, http.MethodGet)
	r.HandleFunc("/api/places/details", s.handlePlacesDetails, http.MethodGet)
	r.HandleFunc("/api/places/geocode", s.handlePlacesGeocode, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/change-password", s.handleChangePassword, http.MethodPost)
		r.HandleFunc("/api/profile/:id", s.handleGetProfile, http.MethodGet)
		r.HandleFunc("/api/get_address", s.handleGetAddress, http.MethodGet)
		r.HandleFunc("/api/update_address", s.handleUpdateAddress, http.MethodPost)
		r.HandleFunc("/api/file_upload", s.handleFileUpload, http.MethodPost)

		r.HandleFunc("/api/get_all_organizations", s.handleGetOrganizations, http.MethodGet)
		r.HandleFunc("/api/get_organisation_detail", s.handleGetOrganization, http.MethodGet)

		r.HandleFunc("/api/notifications", s.handleCreateNotification, http.MethodPost)
		r.HandleFunc("/api/get_notifications", s.handleGetNotifications, http.MethodGet)
		r.HandleFunc("/api/get_notification_description", s.handleGetNotificationDescription, http.MethodGet)
		r.HandleFunc("/api/update_notifications_to_read", s.handleMarkNotificationsRead, http.MethodPut)

		r.HandleFunc("/api/donor/donation-details", s.handleDonationDetails, http.MethodGet)
		r.HandleFunc("/api/donor/my-donations", s.handleMyDonations, http.MethodGet)
		r.HandleFunc("/api/donor/get_all_campaigns", s.handleActiveCampaigns, http.MethodGet)
		r.HandleFunc("/api/donor/get_campaign_details", s.handleDonorCampaignDonations, http.MethodGet)
		r.HandleFunc("/api/donor/get_stats", s.handleDonorStats, http.MethodGet)
		r.HandleFunc("/api/donor/get_feedback", s.handleGetFeedback, http.MethodGet)
		r.HandleFunc("/api/donor/get_donor_detail", s.handleGetDonorDetail, http.MethodGet)

		r.HandleFunc("/api/organization/:organizationId/requests", s.handleOrgRequests, http.MethodGet)
		r.HandleFunc("/api/organization/donation-requests/:requestId/status", s.handleDonationStatus, http.MethodGet)
		r.HandleFunc("/api/organization/get_all_requests", s.handleAllRequests, http.MethodGet)
		r.HandleFunc("/api/organization/get_org_posts", s.handleOrgPosts, http.MethodGet)
		r.HandleFunc("/api/organization/get_posts", s.handlePendingPosts, http.MethodGet)
		r.HandleFunc("/api/organization/verify_donations", s.handleVerifyDonations, http.MethodGet)
		r.HandleFunc("/api/organization/get_all_campaigns", s.handleAllCampaigns, http.MethodGet)
		r.HandleFunc("/api/organization/get_org_campaigns", s.handleOrgCampaigns, http.MethodGet)
		r.HandleFunc("/api/organization/get_org_info", s.handleGetOrgInfo, http.MethodGet)
		r.HandleFunc("/api/organization/get_organisations", s.handleGetOrganizations, http.MethodGet)

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.UserTypeDonor, types.UserTypeAdmin))

			r.HandleFunc("/api/donate", s.handleDonate, http.MethodPost)
			r.HandleFunc("/api/donor/add-food", s.handleDonate, http.MethodPost)
			r.HandleFunc("/api/donor/add-clothes", s.handleDonate, http.MethodPost)
			r.HandleFunc("/api/donor/donation_items", s.handleDonate, http.MethodPost)
			r.HandleFunc("/api/donor/campaign_donate", s.handleCampaignDonate, http.MethodPost)
			r.HandleFunc("/api/donor/delete_posts", s.handleDeletePost, http.MethodDelete)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.UserTypeOrganization, types.UserTypeAdmin))

			r.HandleFunc("/api/organization/accept_posts", s.handleAcceptPost, http.MethodPost)
			r.HandleFunc("/api/organization/request", s.handleUpdateRequestStatus, http.MethodPost)
			r.HandleFunc("/api/organization/update_campaign_donation", s.handleReviewCampaignDonation, http.MethodPost)
			r.HandleFunc("/api/organization/create_campaign", s.handleCreateCampaign, http.MethodPost)
			r.HandleFunc("/api/organization/campaign_addfunds", s.handleAddFunds, http.MethodPost)
			r.HandleFunc("/api/organization/update_organization_info", s.handleUpdateOrgInfo, http.MethodPost)
			r.HandleFunc("/api/organization/update_bank_details", s.handleAddBankDetail, http.MethodPost)
			r.HandleFunc("/api/organization/feedback", s.handleRecordFeedback, http.MethodPost)
			r.HandleFunc("/api/organization/update_people_helped", s.handleUpdatePeopleHelped, http.MethodPost)
		})

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireRole(types.UserTypeAdmin))

			r.HandleFunc("/api/admin/verify_organization", s.handleVerifyOrganization, http.MethodPost)
		})

		r.HandleFunc("/api/:user/:userid/profile-image", s.handleUpdateProfileImage, http.MethodPost)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
