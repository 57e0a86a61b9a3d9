package web

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rook-computer/panelkit/internal/state"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type surfaceResponse struct {
	BlockID string    `json:"block_id"`
	Index   int       `json:"index"`
	Block   string    `json:"block"`
	Content []string  `json:"content"`
	Error   string    `json:"error,omitempty"`
	Frame   uint64    `json:"frame"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Updated time.Time `json:"updated"`
}

type surfacesResponse struct {
	Surfaces []surfaceResponse `json:"surfaces"`
}

type statusResponse struct {
	Ticks      uint64    `json:"ticks"`
	Updates    uint64    `json:"updates"`
	Surfaces   int       `json:"surfaces"`
	LastUpdate time.Time `json:"last_update"`
}

type contentTypesResponse struct {
	ContentTypes []string `json:"content_types"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, deps) })
	r.Get("/content-types", func(w http.ResponseWriter, r *http.Request) { handleContentTypes(w, deps) })
	r.Get("/surfaces", func(w http.ResponseWriter, r *http.Request) { handleSurfaces(w, deps) })
	r.Get("/surfaces/{block}/{index}", func(w http.ResponseWriter, r *http.Request) { handleSurface(w, r, deps) })
	r.Get("/surfaces/{block}/{index}/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFramePNG(w, r, deps) })
	return r
}

func handleStatus(w http.ResponseWriter, deps APIV1Deps) {
	st := deps.Frames.Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		Ticks:      st.Ticks,
		Updates:    st.Updates,
		Surfaces:   st.Surfaces,
		LastUpdate: st.LastUpdate,
	})
}

func handleContentTypes(w http.ResponseWriter, deps APIV1Deps) {
	names := deps.ContentTypes()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, contentTypesResponse{ContentTypes: names})
}

func handleSurfaces(w http.ResponseWriter, deps APIV1Deps) {
	frames := deps.Frames.List()
	out := surfacesResponse{Surfaces: make([]surfaceResponse, 0, len(frames))}
	for _, f := range frames {
		out.Surfaces = append(out.Surfaces, toSurfaceResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func handleSurface(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	f, ok := lookupFrame(w, r, deps)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSurfaceResponse(f))
}

func handleFramePNG(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	f, ok := lookupFrame(w, r, deps)
	if !ok {
		return
	}
	if f.Image == nil {
		writeAPIError(w, http.StatusNotFound, "no_frame", "surface has not been drawn")
		return
	}

	// Encode first so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func lookupFrame(w http.ResponseWriter, r *http.Request, deps APIV1Deps) (state.Frame, bool) {
	block := chi.URLParam(r, "block")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_index", "surface index must be a non-negative integer")
		return state.Frame{}, false
	}
	f, ok := deps.Frames.Get(block, index)
	if !ok {
		writeAPIError(w, http.StatusNotFound, "surface_not_found", "surface not found")
		return state.Frame{}, false
	}
	return f, true
}

func toSurfaceResponse(f state.Frame) surfaceResponse {
	out := surfaceResponse{
		BlockID: f.Block,
		Index:   f.Index,
		Block:   f.BlockName,
		Content: f.Content,
		Error:   f.Error,
		Frame:   f.Seq,
		Updated: f.Updated,
	}
	if out.Content == nil {
		out.Content = []string{}
	}
	if f.Image != nil {
		out.Width = f.Image.Bounds().Dx()
		out.Height = f.Image.Bounds().Dy()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
