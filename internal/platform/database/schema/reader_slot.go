package schema

// ReaderSlotTable represents the 'reader_slot' table of the slot database.
type ReaderSlotTable struct {
	Table     string
	Key       string
	Value     string
	UpdatedAt string
}

// ReaderSlot is the schema definition for reader_slot
var ReaderSlot = ReaderSlotTable{
	Table:     "reader_slot",
	Key:       "key",
	Value:     "value",
	UpdatedAt: "updated_at",
}
