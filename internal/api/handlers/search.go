package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/campustrack/internal/models"
	"github.com/your-org/campustrack/internal/storage"
	"github.com/your-org/campustrack/internal/tracking"
	"github.com/your-org/campustrack/pkg/dto"
)

// maxProbeSize caps uploaded probe images.
const maxProbeSize = 10 << 20

// ProbeStore archives face probe images.
type ProbeStore interface {
	StoreProbe(ctx context.Context, img models.FaceImage) (string, error)
	GetProbe(ctx context.Context, key string) ([]byte, string, error)
}

type SearchHandler struct {
	engine *tracking.Engine
	probes ProbeStore
	events Broadcaster
}

// NewSearchHandler creates the search endpoints. probes may be nil.
func NewSearchHandler(engine *tracking.Engine, probes ProbeStore, events Broadcaster) *SearchHandler {
	return &SearchHandler{engine: engine, probes: probes, events: events}
}

// Face accepts a multipart image upload and runs a face search with it.
func (h *SearchHandler) Face(c *gin.Context) {
	var img *models.FaceImage
	if fh, err := c.FormFile("image"); err == nil {
		if fh.Size > maxProbeSize {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "image too large", Field: "image"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "cannot read upload", Field: "image"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "cannot read upload", Field: "image"})
			return
		}
		img = &models.FaceImage{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	var probeKey string
	if img != nil && len(img.Data) > 0 && h.probes != nil {
		key, err := h.probes.StoreProbe(c.Request.Context(), *img)
		if err != nil {
			slog.Warn("archive probe image", "error", err)
		} else {
			probeKey = key
		}
	}

	rs, err := h.engine.SearchByFace(c.Request.Context(), img)
	h.respond(c, rs, err, probeKey, "Error searching by face: ")
}

func (h *SearchHandler) ByID(c *gin.Context) {
	rs, err := h.engine.SearchByID(c.Request.Context(), c.Param("id"))
	h.respond(c, rs, err, "", "Error searching by ID: ")
}

func (h *SearchHandler) ByTime(c *gin.Context) {
	r := models.TimeRange{
		From:   c.Query("from"),
		To:     c.Query("to"),
		Camera: c.Query("camera"),
	}
	rs, err := h.engine.SearchByTime(c.Request.Context(), r)
	h.respond(c, rs, err, "", "Error searching by time: ")
}

func (h *SearchHandler) History(c *gin.Context) {
	entries := h.engine.History()
	resp := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.HistoryEntryResponse{
			SearchID:    e.SearchID,
			Type:        string(e.Type),
			Query:       e.Query,
			ResultCount: e.ResultCount,
			Timestamp:   formatTime(e.Timestamp),
		})
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{Entries: resp, Total: len(resp)})
}

// Probe serves an archived probe image.
func (h *SearchHandler) Probe(c *gin.Context) {
	if h.probes == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "probe archive disabled"})
		return
	}
	key := strings.TrimPrefix(c.Param("key"), "/")
	data, contentType, err := h.probes.GetProbe(c.Request.Context(), key)
	if errors.Is(err, storage.ErrProbeNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "probe not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}

func (h *SearchHandler) respond(c *gin.Context, rs *tracking.ResultSet, err error, probeKey, failPrefix string) {
	if err != nil {
		if tracking.IsTransport(err) {
			h.events.Notify("error", failPrefix+err.Error())
		}
		writeError(c, err)
		return
	}
	resp := searchToDTO(rs, probeKey)
	h.events.BroadcastEvent(&dto.WSEvent{Type: dto.WSSearchCompleted, Data: resp})
	c.JSON(http.StatusOK, resp)
}
