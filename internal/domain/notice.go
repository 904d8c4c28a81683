package domain

import "fmt"

// NoticeKind classifies a non-fatal condition raised while building a dataset.
type NoticeKind string

const (
	// NoticeUnparsableFile means a source file could not be read as a table
	// and was left out of the batch.
	NoticeUnparsableFile NoticeKind = "unparsable_file"
	// NoticeSinkFailed means the dataset was built but could not be published.
	NoticeSinkFailed NoticeKind = "sink_failed"
)

// Notice is surfaced to the caller alongside a dataset. It never aborts a batch.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Source  string     `json:"source,omitempty"`
	Message string     `json:"message"`
}

func (n Notice) String() string {
	if n.Source == "" {
		return fmt.Sprintf("%s: %s", n.Kind, n.Message)
	}
	return fmt.Sprintf("%s (%s): %s", n.Kind, n.Source, n.Message)
}
