package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"consentapi/internal/intellisign"
	"consentapi/internal/model"
	"consentapi/internal/service"
)

// SendConsentRequest is the request body for sending a consent. The same
// fields are accepted as multipart form values or as a JSON body.
type SendConsentRequest struct {
	Email     string `json:"email" form:"email"`
	ConsentID string `json:"consentId" form:"consentId"`
	Content   string `json:"content" form:"content"`
}

// ConsentStatusResponse is the wire representation of a consent consumed
// by the web app. Optional fields are omitted when empty.
type ConsentStatusResponse struct {
	Status            string     `json:"status"`
	DocumentID        string     `json:"documentId"`
	ConsentID         string     `json:"consentId"`
	EnvelopeID        string     `json:"envelopeId,omitempty"`
	SignedAt          *time.Time `json:"signedAt,omitempty"`
	DownloadAvailable bool       `json:"downloadAvailable"`
	DownloadURL       string     `json:"downloadUrl,omitempty"`
}

// ConsentListResponse is the paginated consent listing.
type ConsentListResponse struct {
	Data  []ConsentStatusResponse `json:"data"`
	Total int                     `json:"total"`
}

// toConsentStatusResponse maps the domain model to the wire format.
// The download URL is absolute, derived from the incoming request.
func toConsentStatusResponse(c *fiber.Ctx, m *model.Consent) ConsentStatusResponse {
	res := ConsentStatusResponse{
		Status:            m.Status,
		DocumentID:        m.DocumentID,
		ConsentID:         m.ConsentID,
		EnvelopeID:        m.EnvelopeID,
		SignedAt:          m.SignedAt,
		DownloadAvailable: m.DownloadAvailable(),
	}
	if res.DownloadAvailable {
		res.DownloadURL = c.BaseURL() + "/api/consents/" + m.DocumentID + "/download"
	}
	return res
}

// consentError maps service errors onto the standardized error response.
func consentError(c *fiber.Ctx, err error) error {
	var apiErr *intellisign.APIError
	switch {
	case errors.Is(err, service.ErrSignerNotConfigured):
		return writeError(c, fiber.StatusInternalServerError, "SIGNER_NOT_CONFIGURED", "intellisign is not configured")
	case errors.Is(err, service.ErrMissingRequiredFields):
		return writeError(c, fiber.StatusBadRequest, "MISSING_REQUIRED_FIELDS", "required fields: email, consentId")
	case errors.Is(err, service.ErrDocumentRequired):
		return writeError(c, fiber.StatusBadRequest, "DOCUMENT_REQUIRED", "send a PDF in 'file' or text in 'content'")
	case errors.Is(err, service.ErrPDFOnly):
		return writeError(c, fiber.StatusBadRequest, "PDF_ONLY", "only PDF is accepted in 'file'")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "CONSENT_NOT_FOUND", "consent not found")
	case errors.Is(err, service.ErrNotCompleted):
		return writeError(c, fiber.StatusBadRequest, "NOT_COMPLETED", "document is not signed yet")
	case errors.Is(err, service.ErrSignedFileMissing):
		return writeError(c, fiber.StatusNotFound, "SIGNED_FILE_NOT_AVAILABLE", "signed file not available yet")
	case errors.As(err, &apiErr):
		return writeError(c, fiber.StatusBadGateway, "SIGNER_ERROR", "signature provider request failed")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// HealthCheck reports readiness. With a database configured it checks
// connectivity; in memory-only deployments it always succeeds.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	}
}

// LivenessProbe is a plain liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics exposes the prometheus registry in text exposition format.
func Metrics() fiber.Handler {
	h := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		h(c.Context())
		return nil
	}
}

// SendConsent accepts a consent as multipart/form-data (fields email,
// consentId, and either a PDF in file or text in content) or as a JSON
// body, then starts the e-signature flow.
func SendConsent(consentSvc service.ConsentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SendConsentRequest
		// Best-effort parse: multipart fields and JSON bodies both land in
		// req; anything unparsable surfaces as missing fields below.
		_ = c.BodyParser(&req)

		in := service.SendConsentInput{
			ConsentID: req.ConsentID,
			Email:     req.Email,
			Content:   req.Content,
		}

		if fh, err := c.FormFile("file"); err == nil && fh != nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			in.File = f
			in.Filename = fh.Filename
		}

		consent, err := consentSvc.Send(c.UserContext(), in)
		if err != nil {
			return consentError(c, err)
		}
		return c.JSON(toConsentStatusResponse(c, consent))
	}
}

// ConsentStatus returns the consent's current state, refreshing it from
// the signature provider when it is not completed yet.
func ConsentStatus(consentSvc service.ConsentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("documentId")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		consent, err := consentSvc.Status(c.UserContext(), id)
		if err != nil {
			return consentError(c, err)
		}
		return c.JSON(toConsentStatusResponse(c, consent))
	}
}

// DownloadConsent streams the signed PDF of a completed consent.
func DownloadConsent(consentSvc service.ConsentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("documentId")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		dl, err := consentSvc.Download(c.UserContext(), id)
		if err != nil {
			return consentError(c, err)
		}

		filename := fmt.Sprintf("consent_%s.pdf", dl.Consent.ConsentID)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		c.Set(fiber.HeaderContentType, dl.ContentType)
		if dl.Size > 0 {
			return c.SendStream(dl.Body, int(dl.Size))
		}
		return c.SendStream(dl.Body)
	}
}

// ListConsents returns consents with limit & offset pagination.
func ListConsents(consentSvc service.ConsentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limitStr := c.Query("limit", "10")
		offsetStr := c.Query("offset", "0")
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := consentSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		out := ConsentListResponse{Data: make([]ConsentStatusResponse, 0, len(res.Items)), Total: res.Total}
		for i := range res.Items {
			out.Data = append(out.Data, toConsentStatusResponse(c, &res.Items[i]))
		}
		return c.JSON(out)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, consentSvc service.ConsentService) {
	// Health endpoints
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Prometheus scrape endpoint
	app.Get("/metrics", Metrics())

	// Consent e-signature flow
	app.Post("/api/consents/send", SendConsent(consentSvc))
	app.Get("/api/consents", ListConsents(consentSvc))
	app.Get("/api/consents/:documentId/status", ConsentStatus(consentSvc))
	app.Get("/api/consents/:documentId/download", DownloadConsent(consentSvc))
}
