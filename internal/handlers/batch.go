package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"thumbgen/internal/batch"
	"thumbgen/internal/logging"
	"thumbgen/internal/model"
	"thumbgen/internal/storage"
	"thumbgen/internal/transform"
)

const (
	// multipartMemory is how much of an upload is held in memory before
	// spilling to temporary files.
	multipartMemory = 32 << 20

	headerBatchID        = "X-Batch-ID"
	headerBatchSucceeded = "X-Batch-Succeeded"
	headerBatchFailed    = "X-Batch-Failed"
	headerBatchLocation  = "X-Batch-Location"
)

// CreateBatch turns the uploaded "files" parts into a thumbnail archive.
func (h *Handlers) CreateBatch(w http.ResponseWriter, r *http.Request) {
	if h.config.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "expected multipart/form-data body", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.Warn("failed to remove multipart temp files: %v", err)
		}
	}()

	opts, err := optionsFromForm(r, h.config.Defaults)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := readItems(r.MultipartForm.File["files"])
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(items) == 0 {
		writeJSONError(w, "no files uploaded", http.StatusBadRequest)
		return
	}

	h.activeBatches.Add(1)
	h.totalBatches.Add(1)
	outcome, err := h.runner.Run(r.Context(), items, opts, nil)
	h.activeBatches.Add(-1)

	switch {
	case errors.Is(err, batch.ErrCancelled):
		logging.Info("Batch %s cancelled by client after %d of %d items", outcome.BatchID, len(outcome.Results), outcome.Total)
		return
	case errors.Is(err, transform.ErrInvalidOptions):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		logging.Error("Batch failed: %v", err)
		writeJSONError(w, "failed to build archive", http.StatusInternalServerError)
		return
	}

	if h.config.Sink != nil {
		loc, err := storage.Save(r.Context(), h.config.Sink, outcome)
		if err != nil {
			logging.Error("Batch %s: %v", outcome.BatchID, err)
			writeJSONError(w, "failed to store archive", http.StatusBadGateway)
			return
		}
		w.Header().Set(headerBatchLocation, loc)
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="thumbnails-%s.zip"`, outcome.BatchID))
	w.Header().Set("Content-Length", strconv.Itoa(len(outcome.Archive)))
	w.Header().Set(headerBatchID, outcome.BatchID)
	w.Header().Set(headerBatchSucceeded, strconv.Itoa(outcome.SuccessCount))
	w.Header().Set(headerBatchFailed, strconv.Itoa(outcome.FailureCount()))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(outcome.Archive); err != nil {
		logging.Warn("Batch %s: failed to write response: %v", outcome.BatchID, err)
	}
}

func readItems(headers []*multipart.FileHeader) ([]model.SourceItem, error) {
	items := make([]model.SourceItem, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		items = append(items, model.NewSourceItem(filepath.Base(fh.Filename), data))
	}
	return items, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
