package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/readly-app/backend/middleware"
	"github.com/readly-app/backend/service"
)

type UploadHandler struct {
	Users    UserStore
	S3       *service.S3Service
	MaxBytes int64
}

type UploadResponse struct {
	URL string `json:"url"`
}

// Upload stores a profile image in S3 and saves its URL on the caller's
// user record.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	if h.S3 == nil {
		http.Error(w, `{"error":"upload not configured (missing S3)"}`, http.StatusServiceUnavailable)
		return
	}

	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		http.Error(w, `{"error":"failed to parse multipart form"}`, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"missing file"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(header.Filename)))
	partContentType := header.Header.Get("Content-Type")
	allowedByExt := ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".webp"
	allowedByMime := strings.HasPrefix(partContentType, "image/")
	if !allowedByExt && !allowedByMime {
		http.Error(w, `{"error":"only image files are allowed"}`, http.StatusBadRequest)
		return
	}
	contentType := partContentType
	if !strings.HasPrefix(contentType, "image/") {
		contentType = "image/jpeg"
	}

	prefix := "avatars/" + userID.Hex() + "/"
	_, publicURL, err := h.S3.UploadImage(r.Context(), prefix, header.Filename, file, contentType)
	if err != nil {
		http.Error(w, `{"error":"failed to upload to storage"}`, http.StatusInternalServerError)
		return
	}
	if err := h.Users.UpdateProfile(r.Context(), userID, nil, &publicURL, nil, nil); err != nil {
		http.Error(w, `{"error":"failed to save profile image"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UploadResponse{URL: publicURL})
}
