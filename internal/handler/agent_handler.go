package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// CSV agent: /v1/agent
// ============================================================

const defaultUploadMaxBytes = 10 << 20

// POST /v1/agent/upload (multipart, field "file")
func uploadHandler(svc *service.AgentService, maxBytes int64, logger *zap.Logger) http.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = defaultUploadMaxBytes
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/agent/upload")
		defer span.End()

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "file too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "file", Message: "is required"}, logger)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read file")
			return
		}
		span.SetAttributes(attribute.String("filename", header.Filename), attribute.Int("bytes", len(content)))

		res, err := svc.Upload(ctx, header.Filename, content)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type commandRequest struct {
	Command string `json:"command"`
}

// POST /v1/agent/{sessionId}/command
func commandHandler(svc *service.AgentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/agent/{sessionId}/command")
		defer span.End()

		var req commandRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res, err := svc.Command(ctx, chi.URLParam(r, "sessionId"), req.Command)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /v1/agent/{sessionId}/files
func generateFilesHandler(svc *service.AgentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/agent/{sessionId}/files")
		defer span.End()

		res, err := svc.GenerateFiles(ctx, chi.URLParam(r, "sessionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /v1/agent/{sessionId}/files/{filename}
func downloadHandler(svc *service.AgentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.File(r.Context(), chi.URLParam(r, "sessionId"), chi.URLParam(r, "filename"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(f.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(f.Content)))
		w.WriteHeader(http.StatusOK)
		w.Write(f.Content)
	}
}

// GET /v1/agent/{sessionId}
func sessionInfoHandler(svc *service.AgentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Info(chi.URLParam(r, "sessionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// DELETE /v1/agent/{sessionId}
func closeSessionHandler(svc *service.AgentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionId")
		if err := svc.Close(id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "session closed", ID: id})
	}
}
