package dto

// QRResolveDTO is the result of scanning a label or a badge: exactly one of
// the two views is set, named by Kind.
type QRResolveDTO struct {
	Kind      string            `json:"kind"`
	Equipment *EquipmentViewDTO `json:"equipment,omitempty"`
	Employee  *EmployeeViewDTO  `json:"employee,omitempty"`
}

type QRPayloadDTO struct {
	Payload string `json:"payload"`
}
