package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/kgview"
	"github.com/soundprediction/kgview/pkg/server/dto"
)

// DataHandler serves the dashboard, search and graph data.
type DataHandler struct {
	app kgview.KGView
}

// NewDataHandler creates a new data handler
func NewDataHandler(app kgview.KGView) *DataHandler {
	return &DataHandler{app: app}
}

// Dashboard handles GET /api/v1/dashboard
func (h *DataHandler) Dashboard(c *gin.Context) {
	data, err := h.app.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Loaded(data, data.IsEmpty()))
}

// Search handles GET /api/v1/search
func (h *DataHandler) Search(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeErrorJSON(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	criteria, err := query.Criteria()
	if err != nil {
		writeErrorJSON(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	results, err := h.app.Search(c.Request.Context(), query.Q, criteria, &kgview.SearchOptions{
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Loaded(results, results.State.IsEmpty()))
}

// Graph handles GET /api/v1/graph
func (h *DataHandler) Graph(c *gin.Context) {
	g, err := h.app.Graph(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Loaded(g, len(g.Nodes) == 0))
}

// GraphView handles GET /api/v1/graph/view
func (h *DataHandler) GraphView(c *gin.Context) {
	var query dto.GraphViewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeErrorJSON(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	view, err := h.app.VisibleGraph(c.Request.Context(), query.Toggles(), query.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Loaded(view, view.Empty()))
}

// NodeDetails handles GET /api/v1/graph/nodes/:id
func (h *DataHandler) NodeDetails(c *gin.Context) {
	details, err := h.app.NodeDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Loaded(details, false))
}
