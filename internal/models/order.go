package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPicked    OrderStatus = "Picked"
	OrderWashed    OrderStatus = "Washed"
	OrderDelivered OrderStatus = "Delivered"
)

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPending, OrderPicked, OrderWashed, OrderDelivered:
		return true
	}
	return false
}

type Order struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string        `bson:"userId" json:"userId"`
	UserName     string        `bson:"userName" json:"userName"`
	ClothingType string        `bson:"clothingType" json:"clothingType"`
	Quantity     int           `bson:"quantity" json:"quantity"`
	PickupDate   time.Time     `bson:"pickupDate" json:"pickupDate"`
	DeliveryDate *time.Time    `bson:"deliveryDate,omitempty" json:"deliveryDate,omitempty"`
	Status       OrderStatus   `bson:"status" json:"status"`
	TotalAmount  float64       `bson:"totalAmount" json:"totalAmount"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
}
