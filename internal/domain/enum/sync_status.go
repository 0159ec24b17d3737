package enum

// SyncStatus is the last observed health of the remote mirror. It is a
// non-blocking signal only: local state never waits on it.
type SyncStatus string

const (
	SyncStatusIdle    SyncStatus = "idle"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusError   SyncStatus = "error"
)

func (s SyncStatus) String() string {
	return string(s)
}
