package domain

import "time"

type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
)

// MachineStatus is the operating state of a machine. Anything other than
// out_of_order counts as uptime.
type MachineStatus string

const (
	StatusWorking          MachineStatus = "working"
	StatusNeedsMaintenance MachineStatus = "needs_maintenance"
	StatusOutOfOrder       MachineStatus = "out_of_order"
)

func (s MachineStatus) Valid() bool {
	switch s {
	case StatusWorking, StatusNeedsMaintenance, StatusOutOfOrder:
		return true
	}
	return false
}

type Location struct {
	ID              int64   `db:"id" json:"id"`
	Name            string  `db:"name" json:"name"`
	Rows            int     `db:"rows" json:"rows"`
	Columns         int     `db:"columns" json:"columns"`
	CellSize        int     `db:"cell_size" json:"cell_size"`
	TokenValue      float64 `db:"token_value" json:"token_value"`
	BackgroundImage *string `db:"background_image" json:"background_image,omitempty"`
}

type Category struct {
	ID   int64   `db:"id" json:"id"`
	Name string  `db:"name" json:"name"`
	Icon *string `db:"icon" json:"icon,omitempty"`
}

type User struct {
	ID     int64   `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	PIN    string  `db:"pin" json:"-"`
	Role   Role    `db:"role" json:"role"`
	Email  *string `db:"email" json:"email,omitempty"`
	Phone  *string `db:"phone" json:"phone,omitempty"`
	Notify bool    `db:"notify" json:"notify"`
}

// Machine is one tracked arcade or pinball cabinet. X/Y are grid coordinates
// inside its location. LocationID is nil while the machine is in storage.
type Machine struct {
	ID         int64         `db:"id" json:"id"`
	Name       string        `db:"name" json:"name"`
	Status     MachineStatus `db:"status" json:"status"`
	X          int           `db:"x" json:"x"`
	Y          int           `db:"y" json:"y"`
	Icon       *string       `db:"icon" json:"icon,omitempty"`
	CabinetPic *string       `db:"cabinet_pic" json:"cabinet_pic,omitempty"`
	POCName    *string       `db:"poc_name" json:"poc_name,omitempty"`
	POCEmail   *string       `db:"poc_email" json:"poc_email,omitempty"`
	POCPhone   *string       `db:"poc_phone" json:"poc_phone,omitempty"`
	CategoryID *int64        `db:"category_id" json:"category_id,omitempty"`
	LocationID *int64        `db:"location_id" json:"location_id,omitempty"`
}

// StatusEvent records one status transition. UserID 0 means the event came
// from an automated source (networked cabinet) rather than a person.
type StatusEvent struct {
	ID        int64         `db:"id" json:"id"`
	MachineID int64         `db:"machine_id" json:"machine_id"`
	UserID    int64         `db:"user_id" json:"user_id"`
	Timestamp time.Time     `db:"timestamp" json:"timestamp"`
	Action    string        `db:"action" json:"action"`
	Status    MachineStatus `db:"status" json:"status"`
	Comment   string        `db:"comment" json:"comment,omitempty"`
}

// RevenueEvent records one collection. Amount is a token count when IsToken
// is set, otherwise a currency amount.
type RevenueEvent struct {
	ID        int64     `db:"id" json:"id"`
	MachineID int64     `db:"machine_id" json:"machine_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Amount    float64   `db:"amount" json:"amount"`
	IsToken   bool      `db:"is_token" json:"is_token"`
	Period    string    `db:"period" json:"period,omitempty"`
}
