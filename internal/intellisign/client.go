// Package intellisign is a thin client for the Intellisign e-signature API.
// It authenticates with OAuth2 client_credentials and drives the /v1
// envelope endpoints: create, attach document, add signer, send, poll,
// and download the completed PDF.
package intellisign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"consentapi/internal/config"
)

// signedStatuses are the envelope states the provider reports once every
// signer has completed. Matching is case-insensitive.
var signedStatuses = map[string]struct{}{
	"completed": {},
	"signed":    {},
	"finished":  {},
}

// IsSignedStatus reports whether a provider envelope status means the
// document has been fully signed.
func IsSignedStatus(status string) bool {
	_, ok := signedStatuses[strings.ToLower(status)]
	return ok
}

// Recipient describes one signer added to an envelope.
// SignatureType defaults to "simple" when empty. RoutingOrder is optional.
type Recipient struct {
	Name          string
	Email         string
	SignatureType string
	RoutingOrder  *int
}

// Document is a file attached to an envelope.
type Document struct {
	ID    string            `json:"id"`
	Links map[string]string `json:"links"`
}

// Envelope is the provider's envelope resource as returned by the status endpoint.
type Envelope struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Documents []Document `json:"documents"`
}

// APIError carries the operation, HTTP status, and response body of a
// failed provider call.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("intellisign: %s failed (%d): %s", e.Op, e.StatusCode, e.Body)
}

// API is the client surface consumed by the service layer.
// Methods take the access token explicitly; callers fetch one per flow.
type API interface {
	// Configured reports whether client credentials are present.
	Configured() bool
	// AccessToken obtains an OAuth2 access token via client_credentials.
	AccessToken(ctx context.Context) (string, error)
	// CreateEnvelope creates an envelope and returns its ID.
	CreateEnvelope(ctx context.Context, token, name, subject, message string) (string, error)
	// AddDocument uploads a PDF into the envelope and returns the provider document ID (may be empty).
	AddDocument(ctx context.Context, token, envelopeID, filename string, r io.Reader) (string, error)
	// AddRecipient adds a signer to the envelope.
	AddRecipient(ctx context.Context, token, envelopeID string, rcpt Recipient) error
	// SendEnvelope dispatches the envelope to its recipients.
	SendEnvelope(ctx context.Context, token, envelopeID string) error
	// EnvelopeStatus fetches the envelope resource including its documents.
	EnvelopeStatus(ctx context.Context, token, envelopeID string) (*Envelope, error)
	// DownloadCompleted streams the final signed PDF of the envelope.
	// The returned size is -1 when the provider does not announce one.
	DownloadCompleted(ctx context.Context, token, envelopeID string) (io.ReadCloser, int64, error)
}

// Client implements API over HTTP.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	scope        string
	http         *http.Client
}

var _ API = (*Client)(nil)

// NewClient builds a Client from configuration. Outbound requests are
// traced via otelhttp.
func NewClient(cfg config.IntellisignConfig) *Client {
	scope := cfg.Scope
	if scope == "" {
		scope = "*"
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scope:        scope,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Configured reports whether both client credentials are set.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// AccessToken requests an OAuth2 token using the client_credentials grant.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	payload := map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"scope":         c.scope,
	}
	resp, err := c.postJSON(ctx, "", c.baseURL+"/oauth/token", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.apiError("obtain token", resp)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return out.AccessToken, nil
}

// CreateEnvelope creates an envelope with the given title, subject, and message.
func (c *Client) CreateEnvelope(ctx context.Context, token, name, subject, message string) (string, error) {
	payload := map[string]string{
		"title":   name,
		"subject": subject,
		"message": message,
	}
	resp, err := c.postJSON(ctx, token, c.baseURL+"/v1/envelopes", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", c.apiError("create envelope", resp)
	}

	var out struct {
		ID         string `json:"id"`
		EnvelopeID string `json:"envelope_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode envelope response: %w", err)
	}
	id := out.ID
	if id == "" {
		id = out.EnvelopeID
	}
	if id == "" {
		return "", fmt.Errorf("envelope response missing id")
	}
	return id, nil
}

// AddDocument uploads the PDF as multipart form data with the provider's
// expected fields: file, name, and stage=original.
func (c *Client) AddDocument(ctx context.Context, token, envelopeID, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create multipart file part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("write multipart file part: %w", err)
	}
	if err := mw.WriteField("name", filename); err != nil {
		return "", fmt.Errorf("write multipart field: %w", err)
	}
	if err := mw.WriteField("stage", "original"); err != nil {
		return "", fmt.Errorf("write multipart field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	url := fmt.Sprintf("%s/v1/envelopes/%s/documents", c.baseURL, envelopeID)
	req, err := c.newRequest(ctx, http.MethodPost, url, &body, token)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("add document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", c.apiError("add document", resp)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode document response: %w", err)
	}
	return out.ID, nil
}

type recipientPayload struct {
	Type          string      `json:"type"`
	SignatureType string      `json:"signature_type"`
	Addressees    []addressee `json:"addressees"`
	RoutingOrder  *int        `json:"routing_order,omitempty"`
}

type addressee struct {
	Via   string `json:"via"`
	Value string `json:"value"`
	Name  string `json:"name"`
}

// AddRecipient registers a signer addressed by email on the envelope.
func (c *Client) AddRecipient(ctx context.Context, token, envelopeID string, rcpt Recipient) error {
	sigType := rcpt.SignatureType
	if sigType == "" {
		sigType = "simple"
	}
	payload := recipientPayload{
		Type:          "signer",
		SignatureType: sigType,
		Addressees: []addressee{
			{Via: "email", Value: rcpt.Email, Name: rcpt.Name},
		},
		RoutingOrder: rcpt.RoutingOrder,
	}

	url := fmt.Sprintf("%s/v1/envelopes/%s/recipients", c.baseURL, envelopeID)
	resp, err := c.postJSON(ctx, token, url, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.apiError("add recipient", resp)
	}
	return nil
}

// SendEnvelope dispatches the envelope. Some providers auto-send on
// recipient creation, so any 2xx-style confirmation is accepted.
func (c *Client) SendEnvelope(ctx context.Context, token, envelopeID string) error {
	url := fmt.Sprintf("%s/v1/envelopes/%s/send", c.baseURL, envelopeID)
	req, err := c.newRequest(ctx, http.MethodPost, url, nil, token)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send envelope: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return nil
	default:
		return c.apiError("send envelope", resp)
	}
}

// EnvelopeStatus fetches the envelope resource.
func (c *Client) EnvelopeStatus(ctx context.Context, token, envelopeID string) (*Envelope, error) {
	url := fmt.Sprintf("%s/v1/envelopes/%s", c.baseURL, envelopeID)
	req, err := c.newRequest(ctx, http.MethodGet, url, nil, token)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("envelope status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError("envelope status", resp)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode envelope status: %w", err)
	}
	return &env, nil
}

// DownloadCompleted resolves the download link of the envelope's first
// document and streams its content. The provider usually supplies a
// links.download URL; the documents download route is the fallback.
func (c *Client) DownloadCompleted(ctx context.Context, token, envelopeID string) (io.ReadCloser, int64, error) {
	env, err := c.EnvelopeStatus(ctx, token, envelopeID)
	if err != nil {
		return nil, 0, err
	}
	if len(env.Documents) == 0 {
		return nil, 0, fmt.Errorf("envelope %s has no documents", envelopeID)
	}

	doc := env.Documents[0]
	link := doc.Links["download"]
	if link == "" {
		if doc.ID == "" {
			return nil, 0, fmt.Errorf("envelope %s document has no id for download", envelopeID)
		}
		link = fmt.Sprintf("%s/v1/envelopes/%s/documents/%s/download", c.baseURL, envelopeID, doc.ID)
	}

	req, err := c.newRequest(ctx, http.MethodGet, link, nil, token)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("download document: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, 0, c.apiError("download document", resp)
	}
	return resp.Body, resp.ContentLength, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) postJSON(ctx context.Context, token, url string, payload any) (*http.Response, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, url, bytes.NewReader(b), token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", url, err)
	}
	return resp, nil
}

// apiError reads a bounded amount of the response body into an APIError.
func (c *Client) apiError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 32<<10))
	return &APIError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
	}
}
