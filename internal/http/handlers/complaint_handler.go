package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nirgunrohan/LMS/internal/http/middleware"
	"github.com/nirgunrohan/LMS/internal/services"
	"github.com/nirgunrohan/LMS/internal/utils"
)

type ComplaintHandler struct {
	complaints *services.ComplaintService
	auth       *services.AuthService
}

func NewComplaintHandler(complaints *services.ComplaintService, auth *services.AuthService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints, auth: auth}
}

type createComplaintRequest struct {
	OrderID     string `json:"orderId"`
	Issue       string `json:"issue"`
	Description string `json:"description"`
}

func (h *ComplaintHandler) Create(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	complaintID, err := h.complaints.File(c.Request.Context(), services.FileComplaintInput{
		UserID:      middleware.CallerID(c),
		UserName:    user.Name,
		OrderID:     req.OrderID,
		Issue:       req.Issue,
		Description: req.Description,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"success":     true,
		"message":     "Complaint filed successfully",
		"complaintId": complaintID,
	})
}

func (h *ComplaintHandler) List(c *gin.Context) {
	complaints, err := h.complaints.ListFor(c.Request.Context(), middleware.CallerID(c), middleware.CallerRole(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, gin.H{"success": true, "complaints": complaints})
}

func (h *ComplaintHandler) ListOwn(c *gin.Context) {
	complaints, err := h.complaints.ListOwn(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, gin.H{"success": true, "complaints": complaints})
}

type updateComplaintStatusRequest struct {
	Status string `json:"status"`
}

func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	var req updateComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	if err := h.complaints.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, gin.H{"success": true, "message": "Complaint status updated"})
}
