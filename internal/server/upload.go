package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"giventake/internal/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

const uploadPrefix = "donations"

// handleFileUpload stores a raw request body and returns its public URL.
func (s *Service) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeMessage(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		s.logger.WithError(err).Error("failed to read upload body")
		s.writeMessage(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	if len(body) == 0 {
		s.writeMessage(w, http.StatusBadRequest, "File is required")
		return
	}

	mtype := mimetype.Detect(body)
	key := utils.ObjectKey(uploadPrefix, time.Now(), mtype.Extension())

	url, err := s.objects.Upload(r.Context(), key, body, mtype.String())
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Error("failed to upload file")
		resp := &errorResponse{Message: "Failed to upload file"}
		if s.config.IsDevelopment() {
			resp.Error = err.Error()
		}
		s.writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"key":          key,
		"content_type": mtype.String(),
		"bytes":        len(body),
	}).Info("file uploaded")

	s.writeJSON(w, http.StatusOK, map[string]string{"fileUrl": url})
}
