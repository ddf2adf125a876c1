package document

//go:generate go run github.com/dmarkham/enumer -type Status -trimprefix Status -transform lower -json -sql -output status.gen.go

// Status is the publication state of a document
type Status int

const (
	StatusDraft Status = iota
	StatusPublished
)
