package domain

import "fmt"

// BloodGroup is one of the eight ABO/Rh groups. Every surface that accepts
// a blood group (registration, request creation, donor search) parses
// through here.
type BloodGroup string

const (
	APositive  BloodGroup = "A+"
	ANegative  BloodGroup = "A-"
	BPositive  BloodGroup = "B+"
	BNegative  BloodGroup = "B-"
	ABPositive BloodGroup = "AB+"
	ABNegative BloodGroup = "AB-"
	OPositive  BloodGroup = "O+"
	ONegative  BloodGroup = "O-"
)

var bloodGroups = map[BloodGroup]bool{
	APositive: true, ANegative: true,
	BPositive: true, BNegative: true,
	ABPositive: true, ABNegative: true,
	OPositive: true, ONegative: true,
}

func ParseBloodGroup(s string) (BloodGroup, error) {
	if bloodGroups[BloodGroup(s)] {
		return BloodGroup(s), nil
	}
	return "", fmt.Errorf("%w: unknown blood group %q", ErrValidation, s)
}
