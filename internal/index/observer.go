package index

import "log/slog"

// Observer receives structured events from the index store. Events are
// fire-and-forget: no return value is consumed and implementations must not
// block the write path.
type Observer interface {
	IndexCreated(name string)
	DocumentIndexed(name string, documentID int64)
	DocumentIndexFailed(name string, documentID int64, err error)
	DocumentDeleted(name string, documentID int64)
	DocumentDeleteFailed(name string, documentID int64, err error)
}

// SlogObserver logs index events through slog.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates an observer backed by the given logger, or the
// default logger if nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) IndexCreated(name string) {
	o.logger.Info("Index created", "index", name)
}

func (o *SlogObserver) DocumentIndexed(name string, documentID int64) {
	o.logger.Info("Document indexed", "index", name, "document_id", documentID)
}

func (o *SlogObserver) DocumentIndexFailed(name string, documentID int64, err error) {
	o.logger.Error("Failed to index document", "index", name, "document_id", documentID, "error", err)
}

func (o *SlogObserver) DocumentDeleted(name string, documentID int64) {
	o.logger.Info("Document deleted", "index", name, "document_id", documentID)
}

func (o *SlogObserver) DocumentDeleteFailed(name string, documentID int64, err error) {
	o.logger.Error("Failed to delete document", "index", name, "document_id", documentID, "error", err)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) IndexCreated(string)                       {}
func (NopObserver) DocumentIndexed(string, int64)             {}
func (NopObserver) DocumentIndexFailed(string, int64, error)  {}
func (NopObserver) DocumentDeleted(string, int64)             {}
func (NopObserver) DocumentDeleteFailed(string, int64, error) {}
