package ingest

// Result summarizes an import into the archive.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	SessionsImported int `json:"sessions_imported"`
	SetsImported     int `json:"sets_imported"`
	WarmupsSkipped   int `json:"warmups_skipped"`
}
