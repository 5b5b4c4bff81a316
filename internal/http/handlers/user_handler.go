package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nirgunrohan/LMS/internal/models"
	"github.com/nirgunrohan/LMS/internal/repo"
	"github.com/nirgunrohan/LMS/internal/utils"
)

type UserHandler struct {
	users *repo.UserRepo
}

func NewUserHandler(users *repo.UserRepo) *UserHandler {
	return &UserHandler{users: users}
}

// List returns every account in public form. Hashes, secrets and
// sessions never leave the repo layer.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		if errors.Is(err, repo.ErrUnavailable) {
			utils.RespondError(c, utils.NewAppError(http.StatusServiceUnavailable, utils.CodeStoreUnavailable,
				"Unable to connect to database. Please try again later.", nil))
			return
		}
		utils.RespondError(c, utils.NewAppError(http.StatusInternalServerError, utils.CodeInternal, "Internal server error", nil))
		return
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}

	utils.RespondOK(c, gin.H{"success": true, "users": public})
}
