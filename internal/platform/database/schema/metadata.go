package schema

// MetadataTable represents the local 'metadata' key-value table.
type MetadataTable struct {
	Table       string
	Key         string
	Value       string
	LastUpdated string
}

// Metadata is the schema definition for metadata
var Metadata = MetadataTable{
	Table:       "metadata",
	Key:         "key",
	Value:       "value",
	LastUpdated: "last_updated",
}
