package banner

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// multipart field payloads besides the image stay tiny; this bounds the
// whole request body.
const maxRequestBody = MaxUploadSize + 256*1024

// Handler exposes HTTP endpoints for banner management.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseMultipart(w, r)
	if !ok {
		return
	}

	in := CreateInput{Title: formValue(form, "title")}
	if v, present := formField(form, "linkUrl"); present {
		in.LinkURL = &v
	}
	img, err := h.readImage(form)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}
	in.Image = img

	b, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	var isActive *bool
	if v := r.URL.Query().Get("isActive"); v != "" {
		active := v == "true"
		isActive = &active
	}

	banners, err := h.svc.List(r.Context(), title, isActive)
	if err != nil {
		h.logger.Warnw("list banners failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list banners"})
		return
	}
	h.writeJSON(w, http.StatusOK, banners)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseMultipart(w, r)
	if !ok {
		return
	}

	var in UpdateInput
	if v, present := formField(form, "title"); present {
		in.Title = &v
	}
	if v, present := formField(form, "linkUrl"); present {
		in.LinkURL = &v
	}
	if v, present := formField(form, "isActive"); present {
		active, err := strconv.ParseBool(v)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "isActive must be true or false"})
			return
		}
		in.IsActive = &active
	}
	if hasFile(form, "image") {
		img, err := h.readImage(form)
		if err != nil {
			h.writeUploadError(w, err)
			return
		}
		in.Image = img
	}

	b, err := h.svc.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, b)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		switch err {
		case ErrNotFound:
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "banner not found"})
		default:
			h.logger.Warnw("delete banner failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete banner"})
		}
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) (*multipart.Form, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": ErrPayloadTooLarge.Error()})
			return nil, false
		}
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart payload"})
		return nil, false
	}
	return r.MultipartForm, true
}

// readImage extracts the uploaded image part, or returns (nil, nil) when
// the field is absent so the service can decide whether that is an error.
func (h *Handler) readImage(form *multipart.Form) (*Upload, error) {
	headers := form.File["image"]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadSize {
		return nil, ErrPayloadTooLarge
	}
	return &Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingImage):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrUnsupportedMedia):
		h.writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrPayloadTooLarge):
		h.writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.logger.Warnw("banner operation failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "banner operation failed"})
	}
}

func formValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func formField(form *multipart.Form, key string) (string, bool) {
	vs, present := form.Value[key]
	if !present || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func hasFile(form *multipart.Form, key string) bool {
	return len(form.File[key]) > 0
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
