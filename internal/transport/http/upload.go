package http

import (
	"io"
	"net/http"
)

// Large quiz documents are still small files; 10 MiB is plenty.
const maxUploadBytes = 10 << 20

// uploadQuestions ingests a pipe-delimited document sent as multipart form
// field "file". Unsupported extensions are rejected before any write.
func (h *Handler) uploadQuestions(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable file content")
		return
	}

	result, err := h.service.UploadQuestions(r.Context(), header.Filename, content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
