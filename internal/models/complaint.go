package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ComplaintStatus string

const (
	ComplaintOpen       ComplaintStatus = "Open"
	ComplaintInProgress ComplaintStatus = "In Progress"
	ComplaintResolved   ComplaintStatus = "Resolved"
)

func ValidComplaintStatus(s string) bool {
	switch ComplaintStatus(s) {
	case ComplaintOpen, ComplaintInProgress, ComplaintResolved:
		return true
	}
	return false
}

type Complaint struct {
	ID          bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID      string          `bson:"userId" json:"userId"`
	UserName    string          `bson:"userName" json:"userName"`
	OrderID     string          `bson:"orderId" json:"orderId"`
	Issue       string          `bson:"issue" json:"issue"`
	Description string          `bson:"description" json:"description"`
	Status      ComplaintStatus `bson:"status" json:"status"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
}
