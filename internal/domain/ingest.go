package domain

type IngestMessageRow struct {
	Name  string `json:"name"`
	Hours string `json:"hours"`
}

// IngestMessage is the body published to the ingestion queue.
type IngestMessage struct {
	BatchID  string             `json:"batchID"`
	Mode     string             `json:"mode"`
	ReportTo string             `json:"reportTo,omitempty"`
	Rows     []IngestMessageRow `json:"rows"`
}
