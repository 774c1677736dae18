package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Uzipoo/ToDo-app/internal/models"
)

const maxTextSize = 10 << 10 // 10KB

type taskJSON struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Overdue   bool       `json:"overdue"`
}

type statsJSON struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Pending   int     `json:"pending"`
	Ratio     float64 `json:"ratio"`
}

type addTaskRequest struct {
	Text    string     `json:"text"`
	DueDate *time.Time `json:"dueDate"`
}

type setFilterRequest struct {
	Filter string `json:"filter"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleListTasks lists under the current filter, or under ?filter= for this
// request only. PUT /api/filter changes the current filter.
func (s *Server) handleListTasks(c *gin.Context) {
	state := s.store.State()
	if name := c.Query("filter"); name != "" {
		filter, err := models.ParseFilter(name)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		state = s.store.StateWith(filter)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toStateJSON(state, time.Now()),
	})
}

func (s *Server) handleAddTask(c *gin.Context) {
	var req addTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if len(req.Text) > maxTextSize {
		badRequest(c, "text exceeds maximum size of 10KB")
		return
	}

	task, added := s.store.Add(c.Request.Context(), req.Text, req.DueDate)
	if !added {
		// Blank text is a no-op, not an error.
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"added":   false,
			"data":    toStateJSON(s.store.State(), time.Now()),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"added":   true,
		"data":    toTaskJSON(task, time.Now()),
	})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	task, found := s.store.Toggle(c.Request.Context(), c.Param("id"))
	if !found {
		c.JSON(http.StatusOK, gin.H{"success": true, "found": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"found":   true,
		"data":    toTaskJSON(task, time.Now()),
	})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	deleted := s.store.Delete(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": deleted,
	})
}

func (s *Server) handleSetFilter(c *gin.Context) {
	var req setFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	filter, err := models.ParseFilter(req.Filter)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	s.store.SetFilter(filter)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toStateJSON(s.store.State(), time.Now()),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toStatsJSON(s.store.Stats()),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}

func toTaskJSON(t models.Task, now time.Time) taskJSON {
	return taskJSON{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		DueDate:   t.DueDate,
		Overdue:   t.IsOverdue(now),
	}
}

func toStatsJSON(s models.Stats) statsJSON {
	return statsJSON{
		Total:     s.Total,
		Completed: s.Completed,
		Pending:   s.Pending,
		Ratio:     s.Ratio(),
	}
}

func toStateJSON(state models.State, now time.Time) gin.H {
	tasks := make([]taskJSON, len(state.Visible))
	for i, t := range state.Visible {
		tasks[i] = toTaskJSON(t, now)
	}
	return gin.H{
		"filter": state.Filter.String(),
		"tasks":  tasks,
		"stats":  toStatsJSON(state.Stats),
	}
}
