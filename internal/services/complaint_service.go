package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nirgunrohan/LMS/internal/models"
	"github.com/nirgunrohan/LMS/internal/repo"
	"github.com/nirgunrohan/LMS/internal/utils"
)

type ComplaintStore interface {
	Create(ctx context.Context, complaint *models.Complaint) (string, error)
	List(ctx context.Context, userID string) ([]models.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus) error
}

type ComplaintService struct {
	store  ComplaintStore
	logger *slog.Logger
	now    func() time.Time
}

func NewComplaintService(store ComplaintStore, logger *slog.Logger) *ComplaintService {
	return &ComplaintService{store: store, logger: logger, now: time.Now}
}

type FileComplaintInput struct {
	UserID      string
	UserName    string
	OrderID     string
	Issue       string
	Description string
}

func (s *ComplaintService) File(ctx context.Context, in FileComplaintInput) (string, error) {
	if in.OrderID == "" || in.Issue == "" || in.Description == "" {
		return "", utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Order, issue and description are required", nil)
	}

	id, err := s.store.Create(ctx, &models.Complaint{
		UserID:      in.UserID,
		UserName:    in.UserName,
		OrderID:     in.OrderID,
		Issue:       in.Issue,
		Description: in.Description,
		Status:      models.ComplaintOpen,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return "", s.storeErr("file complaint", err)
	}
	return id, nil
}

func (s *ComplaintService) ListFor(ctx context.Context, userID string, role models.Role) ([]models.Complaint, error) {
	filter := userID
	if role == models.RoleAdmin {
		filter = ""
	}
	complaints, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, s.storeErr("list complaints", err)
	}
	return complaints, nil
}

func (s *ComplaintService) ListOwn(ctx context.Context, userID string) ([]models.Complaint, error) {
	complaints, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, s.storeErr("list own complaints", err)
	}
	return complaints, nil
}

func (s *ComplaintService) UpdateStatus(ctx context.Context, id, status string) error {
	if !models.ValidComplaintStatus(status) {
		return utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Invalid complaint status", nil)
	}
	if err := s.store.UpdateStatus(ctx, id, models.ComplaintStatus(status)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return utils.NewAppError(http.StatusNotFound, utils.CodeNotFound, "Complaint not found", nil)
		}
		return s.storeErr("update complaint status", err)
	}
	return nil
}

func (s *ComplaintService) storeErr(op string, err error) error {
	if errors.Is(err, repo.ErrUnavailable) {
		s.logger.Error("store unavailable", "op", op, "error", err)
		return utils.NewAppError(http.StatusServiceUnavailable, utils.CodeStoreUnavailable,
			"Unable to connect to database. Please try again later.", nil)
	}
	s.logger.Error("complaint operation failed", "op", op, "error", err)
	return utils.NewAppError(http.StatusInternalServerError, utils.CodeInternal, "Internal server error", nil)
}
