package events

// EquipmentChangedEvent fires after any committed equipment mutation: assign,
// return, maintenance, retire, import. Carries just enough for listeners to
// invalidate what they cache.
type EquipmentChangedEvent struct {
	InventoryNumber string
	Action          string
}

func (e EquipmentChangedEvent) Name() string {
	return "equipment.changed"
}
