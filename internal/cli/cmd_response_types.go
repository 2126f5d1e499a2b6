package cli

import "github.com/odysseus0/internlog/internal/model"

type CheckResponse struct {
	Dangerous  bool     `json:"dangerous"`
	Signatures []string `json:"signatures"`
}

type AddFeedResponse struct {
	Feed          model.Feed         `json:"feed"`
	Inserted      bool               `json:"inserted"`
	DiscoveredURL string             `json:"discovered_url"`
	FetchReport   *model.FetchReport `json:"fetch_report,omitempty"`
}

type AddEntryResponse struct {
	Entry      model.JournalEntry `json:"entry"`
	Inserted   bool               `json:"inserted"`
	Signatures []string           `json:"signatures,omitempty"`
	FindingID  string             `json:"finding_id,omitempty"`
}

type AddTaskResponse struct {
	Task       model.Task `json:"task"`
	Signatures []string   `json:"signatures,omitempty"`
	FindingID  string     `json:"finding_id,omitempty"`
}

type RemoveResponse struct {
	Kind string `json:"kind"`
	ID   int64  `json:"removed_id"`
}
