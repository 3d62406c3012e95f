package entry

import (
	"encoding/json"
	goerrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	errors "github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/hashtag"
	"github.com/frahmantamala/records-management/internal/transport"
	"github.com/go-chi/chi"
)

// photoFieldNames are the multipart field names accepted for photo uploads,
// checked in order.
var photoFieldNames = []string{"photo", "file", "image"}

type ServiceAPI interface {
	ListEntries(actor auth.Actor, params ListParams) ([]*Entry, error)
	ListByCaseFile(actor auth.Actor, caseFileID int64, params ListParams) ([]*Entry, error)
	GetEntry(actor auth.Actor, id int64) (*Entry, error)
	CreateEntry(actor auth.Actor, dto CreateEntryDTO) (*Entry, error)
	UpdateEntry(actor auth.Actor, id int64, dto UpdateEntryDTO) (*Entry, error)
	DeactivateEntry(actor auth.Actor, id int64) error

	AttachHashtag(actor auth.Actor, entryID int64, dto AttachHashtagDTO) (*Association, bool, error)
	DetachHashtag(actor auth.Actor, entryID, hashtagID int64) error
	EntryHashtags(actor auth.Actor, entryID int64) ([]*hashtag.Hashtag, error)

	AttachPhoto(actor auth.Actor, entryID int64, upload PhotoUpload) (*Entry, error)

	ListAssociations(actor auth.Actor, params AssociationListParams) ([]*Association, error)
	GetAssociation(actor auth.Actor, id int64) (*Association, error)
	DeleteAssociation(actor auth.Actor, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
}

func NewHandler(logger *slog.Logger, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entries, err := h.service.ListEntries(actor, listParamsFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.responses(r, entries))
}

func (h *Handler) ListByCaseFile(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	caseFileID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid case file id")
		return
	}

	entries, err := h.service.ListByCaseFile(actor, caseFileID, listParamsFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.responses(r, entries))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	e, err := h.service.GetEntry(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.response(r, e))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto CreateEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.service.CreateEntry(actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, h.response(r, e))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	var dto UpdateEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.service.UpdateEntry(actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.response(r, e))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	if err := h.service.DeactivateEntry(actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AttachHashtag responds 201 when the association is new and 200 when the
// tag was already attached.
func (h *Handler) AttachHashtag(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	var dto AttachHashtagDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	association, created, err := h.service.AttachHashtag(actor, entryID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, association.ToResponse())
}

func (h *Handler) DetachHashtag(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	hashtagID, err := strconv.ParseInt(chi.URLParam(r, "hashtagID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid hashtag id")
		return
	}

	if err := h.service.DetachHashtag(actor, entryID, hashtagID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListHashtags(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	tags, err := h.service.EntryHashtags(actor, entryID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, hashtag.ToResponseSlice(tags))
}

func (h *Handler) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	// Leave headroom above the photo limit so an oversized upload is parsed
	// and then rejected with a proper error instead of a broken connection.
	r.Body = http.MaxBytesReader(w, r.Body, MaxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(MaxPhotoSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if goerrors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
			h.HandleServiceError(w, errors.NewValidationError("photo exceeds the maximum allowed size", errors.ErrCodeFileTooLarge))
			return
		}
		h.HandleServiceError(w, errors.NewValidationError("invalid multipart payload", errors.ErrCodeInvalidUpload))
		return
	}

	var upload *PhotoUpload
	for _, field := range photoFieldNames {
		file, header, err := r.FormFile(field)
		if err != nil {
			continue
		}
		defer file.Close()
		upload = &PhotoUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		}
		break
	}
	if upload == nil {
		h.HandleServiceError(w, errors.NewValidationError("no photo file in request", errors.ErrCodeMissingFile))
		return
	}

	e, err := h.service.AttachPhoto(actor, entryID, *upload)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.response(r, e))
}

func (h *Handler) ListAssociations(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	associations, err := h.service.ListAssociations(actor, associationParamsFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AssociationToResponseSlice(associations))
}

func (h *Handler) GetAssociation(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid association id")
		return
	}

	association, err := h.service.GetAssociation(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, association.ToResponse())
}

func (h *Handler) DeleteAssociation(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid association id")
		return
	}

	if err := h.service.DeleteAssociation(actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// response absolutizes a relative photo URL against the request origin so
// clients get a fetchable link.
func (h *Handler) response(r *http.Request, e *Entry) *EntryResponse {
	resp := e.ToResponse()
	if resp.PhotoURL != nil {
		absolute := absoluteURL(r, *resp.PhotoURL)
		resp.PhotoURL = &absolute
	}
	return resp
}

func (h *Handler) responses(r *http.Request, entries []*Entry) []*EntryResponse {
	resps := make([]*EntryResponse, 0, len(entries))
	for _, e := range entries {
		resps = append(resps, h.response(r, e))
	}
	return resps
}

func absoluteURL(r *http.Request, u string) string {
	if !strings.HasPrefix(u, "/") || r.Host == "" {
		return u
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + u
}

func listParamsFromQuery(r *http.Request) ListParams {
	return ListParams{
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
		Search:     r.URL.Query().Get("search"),
		CaseFileID: int64(parseIntQuery(r, "case_file_id", 0)),
		CreatedBy:  int64(parseIntQuery(r, "created_by", 0)),
		IsActive:   parseBoolQuery(r, "is_active"),
	}
}

func associationParamsFromQuery(r *http.Request) AssociationListParams {
	return AssociationListParams{
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
		HashtagID: int64(parseIntQuery(r, "hashtag_id", 0)),
		EntryID:   int64(parseIntQuery(r, "entry_id", 0)),
	}
}

func parseBoolQuery(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
