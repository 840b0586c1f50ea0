package request

import "time"

type ReserveOrderRequest struct {
	ListingID int64 `json:"listing_id" binding:"required,gt=0"`
	LockerID  int64 `json:"locker_id" binding:"required,gt=0"`
}

type SchedulePickupRequest struct {
	PickupTime time.Time `json:"pickup_time" binding:"required"`
}

type VerifyPinRequest struct {
	Pin string `json:"pin" binding:"required,len=6,numeric"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}
