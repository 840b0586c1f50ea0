package locker

import "errors"

var (
	ErrInvalidStatus   = errors.New("invalid locker status")
	ErrInvalidCapacity = errors.New("compartment counters out of range")
)

type Status string

const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusOffline     Status = "offline"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusOffline:
		return true
	default:
		return false
	}
}

// Locker is a physical station. The availability counter is authoritative
// in the registry store and only ever mutated through guarded updates;
// this entity is a read-side snapshot.
type Locker struct {
	id                    int64
	name                  string
	address               string
	coordinates           Coordinates
	totalCompartments     int32
	availableCompartments int32
	operatingHours        string
	status                Status
}

func ReconstructLocker(
	id int64,
	name, address string,
	coordinates Coordinates,
	totalCompartments, availableCompartments int32,
	operatingHours string,
	status Status,
) (*Locker, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if availableCompartments < 0 || availableCompartments > totalCompartments {
		return nil, ErrInvalidCapacity
	}
	return &Locker{
		id:                    id,
		name:                  name,
		address:               address,
		coordinates:           coordinates,
		totalCompartments:     totalCompartments,
		availableCompartments: availableCompartments,
		operatingHours:        operatingHours,
		status:                status,
	}, nil
}

func (l *Locker) ID() int64                    { return l.id }
func (l *Locker) Name() string                 { return l.name }
func (l *Locker) Address() string              { return l.address }
func (l *Locker) Coordinates() Coordinates     { return l.coordinates }
func (l *Locker) TotalCompartments() int32     { return l.totalCompartments }
func (l *Locker) AvailableCompartments() int32 { return l.availableCompartments }
func (l *Locker) OperatingHours() string       { return l.operatingHours }
func (l *Locker) Status() Status               { return l.status }

// CanAccept reports whether new reservations may target this locker.
func (l *Locker) CanAccept() bool {
	return l.status == StatusActive && l.availableCompartments > 0
}
