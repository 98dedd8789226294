package types

type ParkRequest struct {
	VehicleNumber string `json:"vehicle_number"`
	VehicleTypeID int64  `json:"vehicle_type_id"`
}

type AssignmentResult struct {
	VehicleNumber     string `json:"vehicle_number"`
	SlotLabel         string `json:"slot_label"`
	DistanceFromEntry int    `json:"distance_from_entry"`
	Message           string `json:"message"`
}

type ExitRequest struct {
	VehicleNumber string `json:"vehicle_number"`
}

type ExitResult struct {
	VehicleNumber string `json:"vehicle_number"`
	SlotLabel     string `json:"slot_label"`
	BilledHours   int64  `json:"billed_hours"`
	AmountCents   int64  `json:"amount_cents"`
	Message       string `json:"message"`
}

type AvailableSlot struct {
	Label             string `json:"label"`
	DistanceFromEntry int    `json:"distance_from_entry"`
	TypeName          string `json:"type_name"`
}

type RegisterVehicleRequest struct {
	VehicleNumber string `json:"vehicle_number"`
	VehicleTypeID int64  `json:"vehicle_type_id"`
}

type VehicleInfo struct {
	VehicleID     int64  `json:"vehicle_id"`
	VehicleNumber string `json:"vehicle_number"`
	VehicleTypeID int64  `json:"vehicle_type_id"`
	OwnerName     string `json:"owner_name"`
}

// LogEntry is one park-to-exit ledger record. Times are RFC 3339 in UTC;
// ExitTime is empty while the vehicle is still parked.
type LogEntry struct {
	VehicleNumber string `json:"vehicle_number"`
	SlotLabel     string `json:"slot_label"`
	EntryTime     string `json:"entry_time"`
	ExitTime      string `json:"exit_time,omitempty"`
	AmountCents   int64  `json:"amount_cents"`
	Status        string `json:"status"`
}
