package links

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/changtoqr/backend/internal/auth"
	"github.com/changtoqr/backend/internal/middleware"
	"github.com/changtoqr/backend/internal/models"
	"github.com/changtoqr/backend/internal/web"
)

// LinkStore persists link history for signed-in users.
type LinkStore interface {
	InsertLink(ctx context.Context, link *models.Link) (string, error)
	ListLinksByUser(ctx context.Context, userID string) ([]models.Link, error)
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Handler holds the QR generation and download HTTP handlers.
type Handler struct {
	links  LinkStore
	tokens TokenVerifier
}

func NewHandler(links LinkStore, tokens TokenVerifier) *Handler {
	return &Handler{links: links, tokens: tokens}
}

// GenerateQR renders a QR code for the posted URL and returns it inline as
// a base64 PNG data URI. The linkId is a timestamp token for client-side
// bookkeeping only; nothing is stored under it.
func (h *Handler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		web.Error(w, http.StatusBadRequest, "please provide a url")
		return
	}

	png, err := RenderQR(req.URL)
	if err != nil {
		if errors.Is(err, ErrInvalidURL) {
			web.Error(w, http.StatusBadRequest, ErrInvalidURL.Error())
			return
		}
		slog.Error("render qr", "error", err)
		web.Error(w, http.StatusInternalServerError, "server error while generating qr code")
		return
	}

	h.recordHistory(r, req.URL)

	web.JSON(w, http.StatusCreated, models.GenerateQRResponse{
		LinkID: strconv.FormatInt(time.Now().UnixMilli(), 10),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

// recordHistory saves a history entry when the request carries a valid
// bearer token. The route stays public, so a missing or bad token is not
// an error and never blocks the render.
func (h *Handler) recordHistory(r *http.Request, rawurl string) {
	if h.links == nil {
		return
	}
	token := middleware.BearerToken(r)
	if token == "" {
		return
	}
	userID, err := h.tokens.Verify(token)
	if err != nil {
		return
	}
	link := &models.Link{UserID: userID, OriginalURL: rawurl}
	if _, err := h.links.InsertLink(r.Context(), link); err != nil {
		slog.Warn("record link history", "error", err, "user_id", userID)
	}
}

// DownloadPNG streams the rendered code as an attachment.
func (h *Handler) DownloadPNG(w http.ResponseWriter, r *http.Request) {
	rawurl := r.URL.Query().Get("url")
	if rawurl == "" {
		web.Error(w, http.StatusBadRequest, "url is required")
		return
	}

	png, err := RenderQR(rawurl)
	if err != nil {
		if errors.Is(err, ErrInvalidURL) {
			web.Error(w, http.StatusBadRequest, ErrInvalidURL.Error())
			return
		}
		slog.Error("render qr", "error", err)
		web.Error(w, http.StatusInternalServerError, "server error while downloading qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="qrcode-%s.png"`, chi.URLParam(r, "id")))
	w.Write(png)
}

// DownloadPDF renders the code and wraps it into a one-page PDF attachment.
func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	rawurl := r.URL.Query().Get("url")
	if rawurl == "" {
		web.Error(w, http.StatusBadRequest, "url is required")
		return
	}

	png, err := RenderQR(rawurl)
	if err != nil {
		if errors.Is(err, ErrInvalidURL) {
			web.Error(w, http.StatusBadRequest, ErrInvalidURL.Error())
			return
		}
		slog.Error("render qr", "error", err)
		web.Error(w, http.StatusInternalServerError, "server error while downloading qr code")
		return
	}

	pdf, err := ComposePDF(png, rawurl)
	if err != nil {
		slog.Error("compose pdf", "error", err)
		web.Error(w, http.StatusInternalServerError, "server error while downloading qr code")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="qrcode-%s.pdf"`, chi.URLParam(r, "id")))
	w.Write(pdf)
}

// List returns the caller's link history, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		web.Error(w, http.StatusNotFound, "user not found")
		return
	}

	items, err := h.links.ListLinksByUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("list links", "error", err, "user_id", user.ID)
		web.Error(w, http.StatusInternalServerError, "server error while listing links")
		return
	}
	if items == nil {
		items = []models.Link{}
	}
	web.JSON(w, http.StatusOK, items)
}
