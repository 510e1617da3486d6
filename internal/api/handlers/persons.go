package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/campustrack/internal/tracking"
	"github.com/your-org/campustrack/pkg/dto"
)

type PersonHandler struct {
	store *tracking.DataStore
}

func NewPersonHandler(store *tracking.DataStore) *PersonHandler {
	return &PersonHandler{store: store}
}

// List returns the persons of the current snapshot that match the query criteria.
func (h *PersonHandler) List(c *gin.Context) {
	var raw tracking.RawCriteria
	if err := c.ShouldBindQuery(&raw); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	criteria, err := tracking.ParseCriteria(raw)
	if err != nil {
		writeError(c, err)
		return
	}

	persons := tracking.Apply(h.store.Snapshot().Persons, criteria)
	c.JSON(http.StatusOK, PersonList(persons))
}

func (h *PersonHandler) Get(c *gin.Context) {
	person := h.store.Snapshot().FindPerson(c.Param("id"))
	if person == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "person not found"})
		return
	}
	c.JSON(http.StatusOK, personToDTO(*person))
}

type CameraHandler struct {
	store *tracking.DataStore
}

func NewCameraHandler(store *tracking.DataStore) *CameraHandler {
	return &CameraHandler{store: store}
}

func (h *CameraHandler) List(c *gin.Context) {
	cams := h.store.Snapshot().Cameras
	resp := make([]dto.CameraResponse, 0, len(cams))
	for _, cam := range cams {
		resp = append(resp, dto.CameraResponse{
			ID:           cam.ID,
			Status:       string(cam.Status),
			Occupancy:    cam.Occupancy,
			LastActivity: cam.LastActivity,
		})
	}
	c.JSON(http.StatusOK, dto.CameraListResponse{Cameras: resp, Total: len(resp)})
}

type StatsHandler struct {
	store  *tracking.DataStore
	engine *tracking.Engine
}

func NewStatsHandler(store *tracking.DataStore, engine *tracking.Engine) *StatsHandler {
	return &StatsHandler{store: store, engine: engine}
}

func (h *StatsHandler) Get(c *gin.Context) {
	snap := h.store.Snapshot()
	st := tracking.ComputeStats(snap, h.engine.HistoryLen())
	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalPersons:   st.TotalPersons,
		ActiveCameras:  st.ActiveCameras,
		TotalDuration:  st.TotalDuration,
		RecentSearches: st.RecentSearches,
		LoadedAt:       formatTime(snap.LoadedAt),
	})
}
