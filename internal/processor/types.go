package processor

// Status is the terminal outcome of one candidate. Every attempted file ends
// in exactly one of these.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Stage names the pipeline step a failure happened in.
type Stage string

const (
	StageContentExtraction Stage = "content_extraction"
	StageNaming            Stage = "naming"
	StageMetadata          Stage = "metadata"
	StageRename            Stage = "rename"
)

// ErrKind classifies what went wrong within a stage.
type ErrKind string

const (
	KindNetwork            ErrKind = "network"
	KindQuota              ErrKind = "quota"
	KindMalformedResponse  ErrKind = "malformed_response"
	KindMetadataWrite      ErrKind = "metadata_write"
	KindCollisionExhausted ErrKind = "collision_exhausted"
	KindFilesystem         ErrKind = "filesystem"
)

// Candidate is one screenshot taken from the directory snapshot at batch
// start. Constructed once, processed once.
type Candidate struct {
	Path      string
	Filename  string
	SizeBytes int64
}

// Result is the terminal record for one candidate.
type Result struct {
	OriginalPath string
	NewPath      string
	Description  string
	PromptTokens int
	TotalTokens  int
	Status       Status
	Stage        Stage
	Kind         ErrKind
	Err          error
}

// Summary counts terminal outcomes for a batch.
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

// ProgressUpdate is a delta pushed to the TUI while the batch runs.
type ProgressUpdate struct {
	TotalDelta     int
	SucceededDelta int
	SkippedDelta   int
	FailedDelta    int
}
