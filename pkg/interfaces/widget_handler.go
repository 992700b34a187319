package interfaces

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/yair/events-widget/pkg/domain"
	"github.com/yair/events-widget/pkg/presentation"
)

type WidgetHandler struct {
	sessions *SessionManager
	source   domain.EventSource
	tileURL  string
}

func NewWidgetHandler(sessions *SessionManager, source domain.EventSource, tileURL string) *WidgetHandler {
	return &WidgetHandler{
		sessions: sessions,
		source:   source,
		tileURL:  tileURL,
	}
}

func (h *WidgetHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.OpenSession).Methods("GET")
	router.HandleFunc("/s/{sid}", h.GetPage).Methods("GET")
	router.HandleFunc("/s/{sid}/state", h.GetState).Methods("GET")
	router.HandleFunc("/s/{sid}/filters/category", h.SetCategory).Methods("POST")
	router.HandleFunc("/s/{sid}/filters/price", h.SetPrice).Methods("POST")
	router.HandleFunc("/s/{sid}/selection", h.Select).Methods("POST")
	router.HandleFunc("/s/{sid}/selection/dismiss", h.Dismiss).Methods("POST")
	router.HandleFunc("/s/{sid}/events/{id:.+}.ics", h.ExportEvent).Methods("GET")
}

// OpenSession starts a page load: a fresh session performs its single
// fetch and the browser is sent to the session page. A failed fetch still
// yields a page, which shows the failure.
func (h *WidgetHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	sid, controller := h.sessions.Open()
	controller.Load(r.Context(), h.source)

	http.Redirect(w, r, "/s/"+sid, http.StatusSeeOther)
}

func (h *WidgetHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	sid := mux.Vars(r)["sid"]
	controller, err := h.sessions.Get(sid)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	var buf bytes.Buffer
	page := presentation.Page{SessionID: sid, TileURL: h.tileURL, View: controller.View()}
	if err := presentation.Render(&buf, page); err != nil {
		log.Printf("Session %s: failed to render page: %v", sid, err)
		h.respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *WidgetHandler) GetState(w http.ResponseWriter, r *http.Request) {
	controller, err := h.sessions.Get(mux.Vars(r)["sid"])
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, controller.View())
}

func (h *WidgetHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Controller) (presentation.View, error) {
		return c.ChooseCategory(r.FormValue("value"))
	})
}

func (h *WidgetHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Controller) (presentation.View, error) {
		return c.ChoosePrice(r.FormValue("value"))
	})
}

func (h *WidgetHandler) Select(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Controller) (presentation.View, error) {
		return c.OpenEvent(domain.EventID(strings.TrimSpace(r.FormValue("event_id")))), nil
	})
}

func (h *WidgetHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *Controller) (presentation.View, error) {
		reason, err := ParseDismissReason(r.FormValue("reason"))
		if err != nil {
			return c.View(), err
		}
		return c.Dismiss(reason), nil
	})
}

func (h *WidgetHandler) ExportEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	controller, err := h.sessions.Get(vars["sid"])
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	body, err := controller.Calendar(domain.EventID(vars["id"]))
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "event-" + strings.ReplaceAll(vars["id"], "/", "_") + ".ics"}))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// act runs a form action against the session and answers with the new view
// as JSON, or redirects back to the page for plain form posts.
func (h *WidgetHandler) act(w http.ResponseWriter, r *http.Request, action func(*Controller) (presentation.View, error)) {
	sid := mux.Vars(r)["sid"]
	controller, err := h.sessions.Get(sid)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	view, err := action(controller)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	if wantsJSON(r) {
		h.respondWithJSON(w, http.StatusOK, view)
		return
	}
	http.Redirect(w, r, "/s/"+sid, http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (h *WidgetHandler) respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		h.respondWithError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrEventNotFound):
		h.respondWithError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, domain.ErrInvalidFilter), errors.Is(err, domain.ErrInvalidRequest):
		h.respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrExternalAPIFailure):
		h.respondWithError(w, http.StatusServiceUnavailable, "external service unavailable")
	default:
		h.respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *WidgetHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

func (h *WidgetHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
