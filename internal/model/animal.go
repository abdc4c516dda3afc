package model

import (
	"strings"
	"time"
)

// Owner and animal field labels, as printed on the paper chart.
const (
	FieldOwnerName    = "Owner's Name"
	FieldHomePhone    = "Home Phone #"
	FieldOtherPhone   = "Other Phone #"
	FieldAddress      = "Address"
	FieldDataEntryBy  = "Data Entry By"
	FieldAnimalName   = "Animal's Name"
	FieldSpecies      = "Species"
	FieldBreed        = "Breed"
	FieldColors       = "Colors and Markings"
	FieldSex          = "Sex"
	FieldAge          = "Age"
	FieldDateOfBirth  = "Date of Birth"
	treatmentColumns  = 4
	treatmentSplitter = "|"
)

// OwnerFields lists the owner labels in chart order.
func OwnerFields() []string {
	return []string{FieldOwnerName, FieldHomePhone, FieldOtherPhone, FieldAddress, FieldDataEntryBy}
}

// AnimalFields lists the animal labels in chart order.
func AnimalFields() []string {
	return []string{FieldAnimalName, FieldSpecies, FieldBreed, FieldColors, FieldSex, FieldAge, FieldDateOfBirth}
}

// AnimalRecordDraft is the structured content extracted from a chart image.
type AnimalRecordDraft struct {
	OwnerInfo     map[string]string `json:"owner_info" yaml:"owner_info"`
	AnimalInfo    map[string]string `json:"animal_info" yaml:"animal_info"`
	TreatmentData string            `json:"treatment_data" yaml:"treatment_data"`
	Reminders     []string          `json:"reminders,omitempty" yaml:"reminders,omitempty"`
}

// AnimalRecord is a saved veterinary chart. SerialNumber is assigned on save
// as yyyymmdd-NNN, counting records created on the same day from 001.
type AnimalRecord struct {
	CreatedAt    time.Time
	ID           string
	SerialNumber string
	AnimalRecordDraft
}

// SerialPrefix returns the yyyymmdd part of the serial numbers issued on t's day.
func SerialPrefix(t time.Time) string {
	return t.Format("20060102")
}

// CleanReminders trims reminders and drops blank ones.
func CleanReminders(reminders []string) []string {
	var out []string
	for _, r := range reminders {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// OwnerName returns the owner's name field.
func (r *AnimalRecord) OwnerName() string { return r.OwnerInfo[FieldOwnerName] }

// AnimalName returns the animal's name field.
func (r *AnimalRecord) AnimalName() string { return r.AnimalInfo[FieldAnimalName] }

// Species returns the species field.
func (r *AnimalRecord) Species() string { return r.AnimalInfo[FieldSpecies] }

// Breed returns the breed field.
func (r *AnimalRecord) Breed() string { return r.AnimalInfo[FieldBreed] }

// TreatmentRow is one line of the treatment table.
type TreatmentRow struct {
	Date      string
	Weight    string
	Treatment string
	Charge    string
}

// ParseTreatmentData splits pipe-delimited treatment lines into rows.
// Missing columns are left empty and extra columns are ignored.
func ParseTreatmentData(data string) []TreatmentRow {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil
	}

	lines := strings.Split(data, "\n")
	rows := make([]TreatmentRow, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(strings.TrimRight(line, "\r"), treatmentSplitter, treatmentColumns+1)
		cells := make([]string, treatmentColumns)
		copy(cells, parts)
		rows = append(rows, TreatmentRow{
			Date:      cells[0],
			Weight:    cells[1],
			Treatment: cells[2],
			Charge:    cells[3],
		})
	}
	return rows
}
