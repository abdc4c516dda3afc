package model

import "time"

// Patient is a person notes are written about.
type Patient struct {
	CreatedAt   time.Time
	PatientID   string
	Name        string
	DateOfBirth string
	Contact     string
}

// Doctor is a practitioner who authors notes.
type Doctor struct {
	CreatedAt time.Time
	DoctorID  string
	Name      string
	Specialty string
	Contact   string
}
