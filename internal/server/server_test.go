package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"giventake/internal/auth"
	"giventake/internal/mocks"
	"giventake/internal/places"
	"giventake/internal/service"
	"giventake/internal/store/storetest"
	"giventake/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "test-secret"

type memoryObjects struct {
	mu      sync.Mutex
	objects map[string]string
	err     error
}

func (m *memoryObjects) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.objects[key] = contentType
	return "https://cdn.example.com/" + key, nil
}

func (m *memoryObjects) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

type testServer struct {
	handler  http.Handler
	store    *storetest.Store
	identity *mocks.MockIdentityProvider
	objects  *memoryObjects
	tokens   *auth.TokenManager
	upstream *httptest.Server
	requests chan *http.Request
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	config := &types.Config{
		Environment:        "test",
		CORSAllowedOrigins: []string{"*"},
		MaxUploadBytes:     1024,
	}

	requests := make(chan *http.Request, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[{"description":"Mall Road, Lahore"}],"status":"OK"}`))
	}))
	t.Cleanup(upstream.Close)

	st := storetest.New()
	identity := mocks.NewMockIdentityProvider(gomock.NewController(t))
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	objects := &memoryObjects{objects: make(map[string]string)}

	notifications := service.NewNotificationService(logger, st.Notifications, st.Donations, st.Items, st.Donors, st.Organizations)
	srv := New(
		config,
		logger,
		tokens,
		service.NewAccountService(config, logger, identity, tokens, st.Users, st.Donors, st.Organizations, st.Admins),
		service.NewDonationService(logger, st.Donations, st.Items, st.Details, st.Campaigns, st.Feedback, st.Donors, st.Organizations, notifications),
		service.NewCampaignService(logger, st.Campaigns, st.Organizations),
		service.NewOrganizationService(logger, st.Organizations, st.BankDetails, notifications),
		service.NewProfileService(st.Donors, st.Organizations),
		notifications,
		objects,
		places.NewClient(upstream.URL, "maps-key"),
	)

	return &testServer{
		handler:  srv.Handler(),
		store:    st,
		identity: identity,
		objects:  objects,
		tokens:   tokens,
		upstream: upstream,
		requests: requests,
	}
}

func (ts *testServer) token(t *testing.T, userType types.UserType) string {
	t.Helper()
	token, err := ts.tokens.Generate("user-1", "user@example.com", userType)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func donationBody() map[string]any {
	return map[string]any{
		"donor_id": "user-1",
		"org_id":   "org-1",
		"status":   "pending",
		"items": []map[string]any{
			{"category": "food", "data": map[string]any{
				"name": "Rice", "type": "grain", "qty": 5, "pkg_type": "sack", "exp_date": "2027-01-01",
			}},
		},
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode(t, rec)["message"])
}

func TestRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	expired, err := auth.NewTokenManager(testSecret, -time.Minute).Generate("user-1", "user@example.com", types.UserTypeDonor)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		message string
		code    string
	}{
		{name: "missing", token: "", message: "Authorization token required"},
		{name: "garbage", token: "not-a-jwt", message: "Invalid token"},
		{name: "expired", token: expired, message: "Token expired", code: "TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/donor/my-donations?donor_id=user-1", tt.token, nil)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.message, body["message"])
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/donate", ts.token(t, types.UserTypeOrganization), donationBody())
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access forbidden", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodPost, "/api/admin/verify_organization", ts.token(t, types.UserTypeDonor), map[string]string{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDonate(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/donate", ts.token(t, types.UserTypeDonor), donationBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "Donation request sent successfully", body["message"])
	assert.NotEmpty(t, body["donation_id"])
	assert.Equal(t, 1, ts.store.Donations.Len())
}

func TestDonateLegacyRouteWithTrailingSlash(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/donor/add-food/", ts.token(t, types.UserTypeDonor), donationBody())
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestDonateRollback(t *testing.T) {
	ts := newTestServer(t)

	in := donationBody()
	in["items"] = []map[string]any{{"category": "clothes", "data": map[string]any{"type": "jacket", "size": "M", "condition": "good", "fabric_type": "wool"}}}

	rec := ts.do(t, http.MethodPost, "/api/donate", ts.token(t, types.UserTypeDonor), in)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Failed to insert all donation items, transaction rolled back", body["message"])
	assert.Equal(t, []any{"item 1: Missing required fields for clothes item: qty"}, body["errors"])
	assert.Zero(t, ts.store.Donations.Len())
}

func TestDonateStoreFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.store.Donations.FailOn("Create", errors.New("connection refused"))

	rec := ts.do(t, http.MethodPost, "/api/donate", ts.token(t, types.UserTypeDonor), donationBody())
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Failed to add donation record", body["message"])
	assert.Empty(t, body["error"], "error detail is only shown in development")
}

func TestDonateInvalidBody(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, types.UserTypeDonor)

	rec := ts.do(t, http.MethodPost, "/api/donate", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request body is required", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodPost, "/api/donate", token, []byte(`{"donor_id":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", decode(t, rec)["message"])
}

func TestDonationStatusNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/organization/donation-requests/missing/status", ts.token(t, types.UserTypeOrganization), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Donation not found", decode(t, rec)["message"])
}

func TestPathParameters(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.store.Donors.Create(context.Background(), &types.Donor{UserID: "user-1", FName: "Ava"}))

	rec := ts.do(t, http.MethodPost, "/api/donate", ts.token(t, types.UserTypeDonor), donationBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	donationID := decode(t, rec)["donation_id"]

	orgToken := ts.token(t, types.UserTypeOrganization)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/organization/donation-requests/%s/status", donationID), orgToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	status := decode(t, rec)
	assert.Equal(t, donationID, status["id"])
	assert.Equal(t, "pending", status["status"])

	rec = ts.do(t, http.MethodGet, "/api/organization/org-1/requests", orgToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var requests []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &requests))
	require.Len(t, requests, 1)
	assert.Equal(t, donationID, requests[0]["id"])
	assert.Equal(t, "org-1", requests[0]["organizationId"])

	rec = ts.do(t, http.MethodPost, "/api/donor/user-1/profile-image", ts.token(t, types.UserTypeDonor), map[string]string{
		"profileImage": "https://cdn.example.com/ava.png",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	donor, err := ts.store.Donors.Donor(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, donor.ImageURL)
	assert.Equal(t, "https://cdn.example.com/ava.png", *donor.ImageURL)
}

func TestGetAddressNotFound(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.store.Donors.Create(context.Background(), &types.Donor{UserID: "user-1", FName: "Ava"}))

	rec := ts.do(t, http.MethodGet, "/api/get_address?id=user-1&context=donor", ts.token(t, types.UserTypeDonor), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Address not found", decode(t, rec)["message"])
}

func TestAddressRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, types.UserTypeDonor)
	require.NoError(t, ts.store.Donors.Create(context.Background(), &types.Donor{UserID: "user-1", FName: "Ava"}))

	rec := ts.do(t, http.MethodPost, "/api/update_address", token, map[string]any{
		"id":            "user-1",
		"context":       "donor",
		"location_data": map[string]any{"city": "Lahore"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/get_address?id=user-1&context=donor", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"city":"Lahore"}`, rec.Body.String())
}

func TestFileUpload(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, types.UserTypeDonor)

	rec := ts.do(t, http.MethodPost, "/api/file_upload", token, []byte{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File is required", decode(t, rec)["message"])

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	rec = ts.do(t, http.MethodPost, "/api/file_upload", token, png)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	url, _ := decode(t, rec)["fileUrl"].(string)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/donations/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	for _, contentType := range ts.objects.objects {
		assert.Equal(t, "image/png", contentType)
	}

	rec = ts.do(t, http.MethodPost, "/api/file_upload", token, make([]byte, 2048))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestFileUploadStoreFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.objects.err = errors.New("bucket missing")

	rec := ts.do(t, http.MethodPost, "/api/file_upload", ts.token(t, types.UserTypeDonor), []byte("hello"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to upload file", decode(t, rec)["message"])
}

func TestPlacesAutocomplete(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/places/autocomplete", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Input parameter is required", decode(t, rec)["error"])

	rec = ts.do(t, http.MethodGet, "/api/places/autocomplete?input=mall+road", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"predictions":[{"description":"Mall Road, Lahore"}],"status":"OK"}`, rec.Body.String())

	upstream := <-ts.requests
	assert.Equal(t, "/place/autocomplete/json", upstream.URL.Path)
	assert.Equal(t, "mall road", upstream.URL.Query().Get("input"))
	assert.Equal(t, places.DefaultComponents, upstream.URL.Query().Get("components"))
	assert.Equal(t, "maps-key", upstream.URL.Query().Get("key"))
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	ts.identity.EXPECT().
		SignIn(gomock.Any(), "ava@example.com", "wrong").
		Return(nil, types.ErrInvalidCredentials)

	rec := ts.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ava@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Invalid email or password", body["message"])
	assert.NotContains(t, body, "token")
}

func TestCampaignFlow(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.store.Organizations.Create(context.Background(), &types.Organization{UserID: "org-1", Name: "Hope Kitchen"}))
	orgToken := ts.token(t, types.UserTypeOrganization)

	rec := ts.do(t, http.MethodPost, "/api/organization/create_campaign", orgToken, map[string]any{
		"org_id": "org-1",
		"name":   "Winter Appeal",
		"amount": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	campaign := decode(t, rec)["campaign"].(map[string]any)

	rec = ts.do(t, http.MethodPost, "/api/organization/campaign_addfunds", orgToken, map[string]any{
		"campaign_id": campaign["id"],
		"amount":      100,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 100.0, decode(t, rec)["updated_amount_raised"])

	rec = ts.do(t, http.MethodGet, "/api/donor/get_all_campaigns", ts.token(t, types.UserTypeDonor), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String(), "a funded campaign is no longer active")
}
