package reporting

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Event types pushed to dashboard clients
const (
	EventDatasetReplaced = "dataset.replaced"
	EventReportSent      = "report.sent"
	EventExportSent      = "export.sent"
)

// Event notifies subscribers that something changed
type Event struct {
	Type      string    `json:"type"`
	DatasetID string    `json:"dataset_id,omitempty"`
	Source    string    `json:"source,omitempty"`
	Rows      int       `json:"rows,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// Subscribe registers a listener. Events are dropped for a listener whose
// buffer is full. Call the returned func to unsubscribe.
func (s *Service) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
		}
	}
}

func (s *Service) publish(e Event) {
	e.At = s.now().UTC()

	s.subMu.Lock()
	defer s.subMu.Unlock()

	for id, ch := range s.subscribers {
		select {
		case ch <- e:
		default:
			logrus.WithFields(logrus.Fields{"subscriber": id, "event": e.Type}).Warn("Dropped event for slow subscriber")
		}
	}
}
