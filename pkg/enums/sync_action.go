package enums

// SyncAction names the operations understood by the spreadsheet bridge.
type SyncAction string

const (
	SyncActionLoadItems  SyncAction = "loadItems"
	SyncActionLoadGroups SyncAction = "loadGroups"
	SyncActionSaveItems  SyncAction = "saveItems"
	SyncActionSaveGroups SyncAction = "saveGroups"
)

// String implements fmt.Stringer.
func (s SyncAction) String() string {
	return string(s)
}
