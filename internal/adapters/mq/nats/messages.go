package nats

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/okian/scout/internal/domain/model"
)

// Subject constants.
const (
	SubjectRecordsIngest = "scout.records.ingest"
	SubjectSearchRequest = "scout.search.request"
	SubjectSearchResult  = "scout.search.result"
)

// Subjects lists every subject the stream carries.
func Subjects() []string {
	return []string{SubjectRecordsIngest, SubjectSearchRequest, SubjectSearchResult}
}

// IsStreamSubject reports whether subject is captured by the scout stream.
func IsStreamSubject(subject string) bool {
	return slices.Contains(Subjects(), subject)
}

// IngestMsg is a batch of raw player-season records.
type IngestMsg struct {
	BatchID string                     `json:"batch_id"`
	Records []model.PlayerSeasonRecord `json:"records"`
}

// SearchRequestMsg asks for an asynchronous search. ReplyTo overrides the
// default result subject.
type SearchRequestMsg struct {
	ID      string            `json:"id"`
	Query   model.SearchQuery `json:"query"`
	ReplyTo string            `json:"reply_to,omitempty"`
}

// SearchResultMsg carries the outcome of an asynchronous search.
type SearchResultMsg struct {
	ID          string          `json:"id"`
	Error       string          `json:"error,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	CompletedAt time.Time       `json:"completed_at"`
}

// Encode serializes a message to JSON bytes.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeIngest deserializes an IngestMsg.
func DecodeIngest(data []byte) (*IngestMsg, error) {
	var msg IngestMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(msg.Records) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrMalformed)
	}
	return &msg, nil
}

// DecodeSearchRequest deserializes a SearchRequestMsg and validates its query.
func DecodeSearchRequest(data []byte) (*SearchRequestMsg, error) {
	var msg SearchRequestMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := msg.Query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &msg, nil
}

// DecodeSearchResult deserializes a SearchResultMsg.
func DecodeSearchResult(data []byte) (*SearchResultMsg, error) {
	var msg SearchResultMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &msg, nil
}
