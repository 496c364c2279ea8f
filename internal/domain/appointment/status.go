package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  nil,
	StatusCancelled:  nil,
	StatusNoShow:     nil,
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// HoldsResources reports whether allocations of an appointment in this
// status still occupy their resources.
func (s Status) HoldsResources() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// CountsAsBooked reports whether the appointment counts toward utilisation.
func (s Status) CountsAsBooked() bool {
	return s == StatusConfirmed || s == StatusInProgress || s == StatusCompleted
}

// ===============================
// Validations
// ===============================

// CanTransition fails with ErrInvalidStatusTransition unless to is listed
// for from in the transition table.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return ErrInvalidStatusTransition
}

// InitialStatus is confirmed for trusted callers and pending otherwise.
func InitialStatus(confirmed bool) Status {
	if confirmed {
		return StatusConfirmed
	}
	return StatusPending
}
