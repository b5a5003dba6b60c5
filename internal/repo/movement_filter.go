package repo

import "time"

type MovementFilter struct {
	ProductID *int
	Reason    string
	Since     *time.Time
	Until     *time.Time
	Offset    *int
	Limit     *int
}
