package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotelverse/internal/app"
	"hotelverse/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Catalog   *app.CatalogService
	Concierge *app.ConciergeService
	Quotes    *app.QuoteService

	// presence of the database settings, echoed by /test
	DatabaseURLSet  bool
	DatabaseNameSet bool
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", h.root)
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/test", h.diagnostics)

	s.mux.Post("/seed/{kind}", h.seed)

	s.mux.Get("/rooms", h.listRooms)
	s.mux.Get("/menu", h.listMenu)
	s.mux.Get("/experiences", h.listExperiences)

	s.mux.Post("/concierge", h.concierge)
	s.mux.Post("/booking/quote", h.quote)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, fields []domain.FieldError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto HTTP problems.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Database not configured", nil)
	case errors.As(err, &ve):
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", ve.Error(), ve.Fields)
	case errors.Is(err, domain.ErrInvalidDateFormat):
		writeProblem(w, http.StatusBadRequest, "Invalid Date Format", err.Error(), nil)
	case errors.Is(err, domain.ErrUnknownKind):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable serves list bodies with a weak ETag and honours If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write list body")
	}
}

// decodeBody reads a JSON body into dst, turning type mismatches into field-level validation errors.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return domain.NewValidationError(te.Field, "type", te.Type.String())
		}
		return err
	}
	return domain.Validate(dst)
}

func (h *Handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "AR Hotel Universe Backend Running"})
}

func (h *Handlers) diagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Diagnose(r.Context(), h.DatabaseURLSet, h.DatabaseNameSet))
}

func (h *Handlers) seed(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.Catalog.Seed(r.Context(), kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Info().Str("kind", string(kind)).Int("inserted", n).Msg("seed")
	writeJSON(w, http.StatusOK, map[string]int{"inserted": n})
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	capacity := 0
	if cs := r.URL.Query().Get("capacity"); cs != "" {
		c, err := strconv.Atoi(cs)
		if err != nil {
			writeError(w, r, domain.NewValidationError("capacity", "int", ""))
			return
		}
		capacity = c
	}
	rooms, err := h.Catalog.ListRooms(r.Context(), r.URL.Query().Get("view"), capacity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, rooms)
}

func (h *Handlers) listMenu(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Catalog.ListDishes(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, dishes)
}

func (h *Handlers) listExperiences(w http.ResponseWriter, r *http.Request) {
	exps, err := h.Catalog.ListExperiences(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, exps)
}

func (h *Handlers) concierge(w http.ResponseWriter, r *http.Request) {
	var pref domain.Preference
	if err := decodeBody(r, &pref); err != nil {
		writeBodyError(w, r, err)
		return
	}
	adv, err := h.Concierge.Advise(r.Context(), pref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, adv)
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	req := domain.NewBookingRequest()
	if err := decodeBody(r, &req); err != nil {
		writeBodyError(w, r, err)
		return
	}
	q, err := h.Quotes.Quote(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// writeBodyError reports validation problems as 422 and anything else as malformed JSON.
func writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, r, err)
		return
	}
	writeProblem(w, http.StatusBadRequest, "Malformed Body", err.Error(), nil)
}
