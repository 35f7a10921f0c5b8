package orders

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type Order struct {
	ID        int64
	Name      string
	Phone     string
	DeviceID  int64
	Issue     string
	Price     int
	Status    Status
	CreatedAt time.Time
}
