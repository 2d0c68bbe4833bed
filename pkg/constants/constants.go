package constants

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02, 15:04:05"

	// Natural keys shorter than this are rejected on intake and import.
	MinInventoryNumberLength = 3
	MinEmployeeIDLength      = 3

	// Serial number fallback prefix when the import row has none.
	SerialNumberPrefix = "SN-"

	DefaultPageLimit = 20
	MaxPageLimit     = 200
)

// QR payload prefixes, shared with the label printer and the scanner app.
const (
	QRPrefixEquipment = "EQUIPMENT:"
	QRPrefixEmployee  = "EMPLOYEE:"
)
