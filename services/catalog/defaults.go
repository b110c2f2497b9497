package catalog

import "medivoice/models"

// DefaultDoctors is the built-in schedule used when no catalog file is configured.
func DefaultDoctors() []models.Doctor {
	return []models.Doctor{
		{
			ID:        "ali",
			Name:      "Dr. Ali",
			Specialty: "General Medicine",
			Days:      []string{"monday", "wednesday", "friday"},
			StartHour: 9,
			EndHour:   17,
		},
		{
			ID:        "sara",
			Name:      "Dr. Sara",
			Specialty: "Pediatrics",
			Days:      []string{"tuesday", "thursday"},
			StartHour: 10,
			EndHour:   18,
		},
		{
			ID:        "john",
			Name:      "Dr. John",
			Specialty: "Cardiology",
			Days:      []string{"saturday", "sunday"},
			StartHour: 9,
			EndHour:   13,
		},
	}
}

// Default returns a catalog built from DefaultDoctors.
func Default() *Catalog {
	return MustNew(DefaultDoctors())
}
