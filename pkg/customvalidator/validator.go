package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"inventory-system/pkg/constants"
)

// RegisterCustomValidations hooks the domain key formats into the validator
// instance used for request binding.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("inventory_number", isInventoryNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("employee_id", isEmployeeID); err != nil {
		return err
	}
	if err := v.RegisterValidation("maintenance_type", isMaintenanceType); err != nil {
		return err
	}
	return nil
}

// Natural keys: letters, digits, dashes; no whitespace so they survive QR
// payloads and CSV cells unquoted.
var naturalKeyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

func isInventoryNumber(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) >= constants.MinInventoryNumberLength && naturalKeyRe.MatchString(s)
}

func isEmployeeID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) >= constants.MinEmployeeIDLength && naturalKeyRe.MatchString(s)
}

func isMaintenanceType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "REPAIR", "UPGRADE", "CLEANING", "INSPECTION", "CALIBRATION":
		return true
	}
	return false
}
