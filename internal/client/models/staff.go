package models

import "time"

// StaffMember is an operator account mirrored from the backend.
type StaffMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Active bool   `json:"active"`

	IsLocal bool `json:"isLocal,omitempty"`
	Synced  bool `json:"synced,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (m StaffMember) EntityID() string { return m.ID }

func (m StaffMember) WithEntityID(id string) StaffMember {
	m.ID = id
	return m
}

func (m StaffMember) WithSyncState(isLocal, synced bool) StaffMember {
	m.IsLocal = isLocal
	m.Synced = synced
	return m
}
