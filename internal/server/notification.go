package server

import (
	"net/http"

	"giventake/pkg/types"
)

type notificationDescriptionQuery struct {
	UserType   types.UserType `form:"user_type"`
	DonationID string         `form:"donation_id"`
}

func (s *Service) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var in types.NotificationInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	notifications, err := s.notifications.Create(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message":       "Notification created successfully",
		"notifications": notifications,
	})
}

func (s *Service) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.notifications.Enriched(r.Context(), queryParam(r, "recipient_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, notifications)
}

func (s *Service) handleGetNotificationDescription(w http.ResponseWriter, r *http.Request) {
	var q notificationDescriptionQuery
	if err := decodeQuery(r, &q); err != nil {
		s.writeError(w, r, err)
		return
	}

	description, err := s.notifications.Describe(r.Context(), q.UserType, q.DonationID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, description)
}

func (s *Service) handleMarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	var in types.MarkReadInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	count, err := s.notifications.MarkRead(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Notifications marked as read",
		"updated": count,
	})
}
