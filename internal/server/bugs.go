package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bugtracker/internal/models"
	"bugtracker/internal/storage"
	"bugtracker/internal/validation"
)

// bugRequest is the client payload for creating or updating a bug. Pointer
// fields distinguish "absent" from "blank" on updates.
type bugRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assignedTo"`
}

func (r bugRequest) validationInput() validation.Input {
	return validation.Input{
		Title:       getString(r.Title),
		Description: getString(r.Description),
		Status:      getString(r.Status),
		Priority:    getString(r.Priority),
	}
}

// handleListBugs returns the full collection in store order.
func (s *Server) handleListBugs(c *gin.Context) {
	bugs, err := s.store.ListBugs(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	if bugs == nil {
		bugs = []models.Bug{}
	}
	c.JSON(http.StatusOK, bugs)
}

// handleCreateBug validates the payload and inserts a new record. Omitted
// status and priority take their declared defaults before validation, so a
// minimal {title, description} payload succeeds as open/medium.
func (s *Server) handleCreateBug(c *gin.Context) {
	var req bugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	in := req.validationInput()
	if strings.TrimSpace(in.Status) == "" {
		in.Status = string(models.DefaultStatus)
	}
	if strings.TrimSpace(in.Priority) == "" {
		in.Priority = string(models.DefaultPriority)
	}

	if result := validation.ValidateBugInput(in, false); !result.Valid() {
		c.JSON(http.StatusBadRequest, result.Errors())
		return
	}

	bug, err := s.store.CreateBug(c.Request.Context(), models.Bug{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.Status(strings.TrimSpace(in.Status)),
		Priority:    models.Priority(strings.TrimSpace(in.Priority)),
		AssignedTo:  getString(req.AssignedTo),
	})
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bug)
}

// handleUpdateBug validates the partial payload and persists the supplied
// subset of fields.
func (s *Server) handleUpdateBug(c *gin.Context) {
	id := c.Param("id")

	var req bugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	if result := validation.ValidateBugInput(req.validationInput(), true); !result.Valid() {
		c.JSON(http.StatusBadRequest, result.Errors())
		return
	}

	changes := storage.BugChanges{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		st := models.Status(strings.TrimSpace(*req.Status))
		changes.Status = &st
	}
	if req.Priority != nil && strings.TrimSpace(*req.Priority) != "" {
		pr := models.Priority(strings.TrimSpace(*req.Priority))
		changes.Priority = &pr
	}

	bug, err := s.store.UpdateBug(c.Request.Context(), id, changes)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, bug)
}

// handleDeleteBug removes a bug and confirms with the deleted id.
func (s *Server) handleDeleteBug(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.DeleteBug(c.Request.Context(), id); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Bug removed"})
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
