package v1

import (
	"context"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"storeforms-backend/pkg/logger"
	"storeforms-backend/pkg/storage"
	"storeforms-backend/pkg/utils"
)

var (
	allowedMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	}
)

// objectStorage is what the handler needs from pkg/storage.
type objectStorage interface {
	UploadBuffer(ctx context.Context, data []byte, contentType string) (*storage.UploadResult, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

type UploadHandler struct {
	storage       objectStorage
	maxUploadSize int64
	maxFiles      int
}

func NewUploadHandler(s objectStorage, maxUploadSizeMB int64, maxFiles int) *UploadHandler {
	return &UploadHandler{
		storage:       s,
		maxUploadSize: maxUploadSizeMB << 20, // Convert MB to bytes
		maxFiles:      maxFiles,
	}
}

// UploadFile handles a single-file upload and returns the stored object's
// public URL, key, content type and byte size.
func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Msg("Upload: ParseMultipartForm failed")
		utils.WriteError(w, http.StatusBadRequest, "File too large or invalid format")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	result, err := h.processAndStore(r, file, header)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// UploadBatch handles a multi-file upload ("files" form field); all files
// must pass validation, and each gets its own stored object.
func (h *UploadHandler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Msg("Upload: ParseMultipartForm failed")
		utils.WriteError(w, http.StatusBadRequest, "Files too large or invalid format")
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "No files provided")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) > h.maxFiles {
		utils.WriteError(w, http.StatusBadRequest, "Too many files")
		return
	}

	results := make([]*storage.UploadResult, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid file: "+header.Filename)
			return
		}
		result, err := h.processAndStore(r, file, header)
		file.Close()
		if err != nil {
			writeUploadError(w, err)
			return
		}
		results = append(results, result)
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"files": results})
}

// DeleteFile removes a previously uploaded object by its public URL.
func (h *UploadHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileURL := r.URL.Query().Get("url")
	if fileURL == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing url parameter")
		return
	}

	if err := h.storage.DeleteFile(r.Context(), fileURL); err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Str("url", fileURL).Msg("Upload: delete failed")
		utils.WriteError(w, http.StatusBadRequest, "Failed to delete file")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "File deleted"})
}

type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string { return e.message }

func writeUploadError(w http.ResponseWriter, err error) {
	if ue, ok := err.(*uploadError); ok {
		utils.WriteError(w, ue.status, ue.message)
		return
	}
	utils.WriteError(w, http.StatusInternalServerError, err.Error())
}

func (h *UploadHandler) processAndStore(r *http.Request, file multipart.File, header *multipart.FileHeader) (*storage.UploadResult, error) {
	reqLog := logger.WithContext(r.Context())

	contentType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[contentType] {
		reqLog.Warn().Str("content_type", contentType).Str("file", header.Filename).Msg("Upload: invalid MIME type")
		return nil, &uploadError{http.StatusBadRequest, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF"}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return nil, &uploadError{http.StatusBadRequest, "Invalid file extension"}
	}

	// Resize + WebP re-encode before storing
	processedData, newContentType, err := utils.ProcessImage(file, header.Filename)
	if err != nil {
		reqLog.Error().Err(err).Str("file", header.Filename).Msg("Upload: image processing failed")
		return nil, &uploadError{http.StatusInternalServerError, "Failed to process image"}
	}

	result, err := h.storage.UploadBuffer(r.Context(), processedData, newContentType)
	if err != nil {
		reqLog.Error().Err(err).Str("file", header.Filename).Msg("Upload: storage upload failed")
		return nil, &uploadError{http.StatusInternalServerError, "Failed to upload file"}
	}
	return result, nil
}
