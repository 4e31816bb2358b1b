package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/backend"
)

// maxRequestBody bounds the JSON bodies accepted by the POST routes.
const maxRequestBody = 1 << 20

// Error messages returned by the proxy itself.
const (
	msgRequestFailed = "Request failed"
	msgMissingID     = "Product ID is required"
	msgStarsRange    = "Stars must be between 1 and 5"
	msgInvalidBody   = "Invalid JSON body"
	msgValidation    = "Validation failed"
	msgLoadProducts  = "Failed to load products"
	msgLoadProduct   = "Failed to load product"
	msgNameRequired  = "name should not be empty"
	msgTextRequired  = "text should not be empty"
	msgStarsField    = "stars must be between 1 and 5"
)

// APIError is the body of every error response.
type APIError struct {
	Error   string   `json:"error"`
	Detail  *string  `json:"detail,omitempty"`
	Message []string `json:"message,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIError{Error: message})
}

// writeDetail writes a JSON error response with a detail field.
func writeDetail(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, APIError{Error: message, Detail: &detail})
}

// writeRaw relays a backend JSON body.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// parseInt parses an integer query parameter. Missing or malformed values
// read as 0.
func parseInt(r *http.Request, key string) int {
	i, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return i
}

// productID returns the trimmed {id} path value.
func productID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("id"))
}

// Proxy plumbing

// relayMode selects how a backend reply is passed on.
type relayMode int

const (
	// relayWrapped replaces a failed reply with {"error", "detail"}.
	relayWrapped relayMode = iota
	// relayVerbatim passes failed replies on unchanged.
	relayVerbatim
)

// forward calls the backend and writes its reply. Successful replies are
// always relayed with status 200.
func (rt *router) forward(w http.ResponseWriter, r *http.Request, method, path string, query backend.Params, body any, mode relayMode, failure string) {
	resp, err := rt.client.Do(r.Context(), method, path, query, body)
	if err != nil {
		rt.writeCallError(w, r, err)
		return
	}

	if !resp.OK() && mode == relayWrapped {
		writeDetail(w, resp.Status, failure, string(resp.Body))
		return
	}

	if !json.Valid(resp.Body) {
		rt.logWarn(r, "backend sent invalid JSON", "path", path, "status", resp.Status)
		writeDetail(w, http.StatusInternalServerError, msgRequestFailed, "invalid JSON in backend response")
		return
	}

	if !resp.OK() {
		writeRaw(w, resp.Status, resp.Body)
		return
	}
	writeRaw(w, http.StatusOK, resp.Body)
}

func (rt *router) writeCallError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storefront.ErrBackendNotConfigured):
		writeError(w, http.StatusInternalServerError, storefront.ErrBackendNotConfigured.Error())
	default:
		rt.logWarn(r, "backend request failed", "error", err)
		detail := err.Error()
		var te *backend.TransportError
		if errors.As(err, &te) {
			detail = te.Err.Error()
		}
		writeDetail(w, http.StatusInternalServerError, msgRequestFailed, detail)
	}
}

func (rt *router) logWarn(r *http.Request, msg string, args ...any) {
	if rt.config.Logger != nil {
		args = append(args, "request_id", r.Header.Get(RequestIDHeader))
		rt.config.Logger.Warn(msg, args...)
	}
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(dst)
}

// Product handlers

func (rt *router) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := backend.ListParams{
		Sort:  storefront.Sort(q.Get("sort")),
		Page:  parseInt(r, "page"),
		Limit: parseInt(r, "limit"),
		Query: q.Get("q"),
	}.Normalize(storefront.DefaultCatalogLimit)

	path, query := p.Path()
	rt.forward(w, r, http.MethodGet, path, query, nil, relayWrapped, msgLoadProducts)
}

func (rt *router) handleHome(w http.ResponseWriter, r *http.Request) {
	limit := storefront.ClampLimit(parseInt(r, "limit"), storefront.DefaultHomeLimit)
	query := backend.Params{}.AddInt("limit", limit)
	rt.forward(w, r, http.MethodGet, "/products/home", query, nil, relayWrapped, msgLoadProducts)
}

func (rt *router) handleMissingID(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusBadRequest, msgMissingID)
}

func (rt *router) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, msgMissingID)
		return
	}
	rt.forward(w, r, http.MethodGet, backend.ProductPath(id), nil, nil, relayWrapped, msgLoadProduct)
}

// Review handlers

func (rt *router) handleListReviews(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, msgMissingID)
		return
	}

	p := backend.ReviewParams{
		Page:  parseInt(r, "page"),
		Limit: parseInt(r, "limit"),
	}
	if raw := r.URL.Query().Get("stars"); raw != "" {
		stars, err := strconv.Atoi(raw)
		if err != nil || stars < storefront.MinStars || stars > storefront.MaxStars {
			writeError(w, http.StatusBadRequest, msgStarsRange)
			return
		}
		p.Stars = stars
	}
	p = p.Normalize(storefront.DefaultReviewLimit)

	rt.forward(w, r, http.MethodGet, backend.ReviewsPath(id), p.Params(), nil, relayVerbatim, "")
}

// reviewBody is the accepted review submission.
type reviewBody struct {
	Name  string `json:"name"`
	Stars int    `json:"stars"`
	Text  string `json:"text"`
}

func (b reviewBody) validate() []string {
	var msgs []string
	if strings.TrimSpace(b.Name) == "" {
		msgs = append(msgs, msgNameRequired)
	}
	if b.Stars < storefront.MinStars || b.Stars > storefront.MaxStars {
		msgs = append(msgs, msgStarsField)
	}
	if strings.TrimSpace(b.Text) == "" {
		msgs = append(msgs, msgTextRequired)
	}
	return msgs
}

func (rt *router) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, msgMissingID)
		return
	}

	var body reviewBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if msgs := body.validate(); len(msgs) > 0 {
		writeJSON(w, http.StatusBadRequest, APIError{Error: msgValidation, Message: msgs})
		return
	}

	in := storefront.ReviewInput{Name: body.Name, Stars: body.Stars, Text: body.Text}
	rt.forward(w, r, http.MethodPost, backend.ReviewsPath(id), nil, in, relayVerbatim, "")
}

// Auth handlers

func (rt *router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in storefront.LoginInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	rt.forward(w, r, http.MethodPost, "/auth/login", nil, in, relayVerbatim, "")
}

func (rt *router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in storefront.RegisterInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	rt.forward(w, r, http.MethodPost, "/auth/register", nil, in, relayVerbatim, "")
}
