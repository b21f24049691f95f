package namespace

import "github.com/rpggio/procboard/internal/domain/process"

// Outcome is the per-kind result of a rename or delete reconciliation.
type Outcome string

const (
	OutcomeRenamed       Outcome = "renamed"
	OutcomeDropped       Outcome = "dropped"
	OutcomeSkippedAbsent Outcome = "skipped_absent"
	OutcomeFailed        Outcome = "failed"
)

// KindResult reports what happened to one kind's namespace.
type KindResult struct {
	Kind      Kind    `json:"kind"`
	Namespace string  `json:"namespace"`
	Target    string  `json:"target,omitempty"`
	Outcome   Outcome `json:"outcome"`
	Reason    string  `json:"reason,omitempty"`
}

type kindResults []KindResult

func (rs kindResults) failed() bool {
	for _, r := range rs {
		if r.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

func (rs kindResults) find(kind Kind) (KindResult, bool) {
	for _, r := range rs {
		if r.Kind == kind {
			return r, true
		}
	}
	return KindResult{}, false
}

// RenameReport is the per-kind outcome of reconciling namespaces after the
// registry committed a rename.
type RenameReport struct {
	OldName string       `json:"old_name"`
	NewName string       `json:"new_name"`
	Kinds   []KindResult `json:"kinds"`
}

// HasFailures reports whether any kind failed to rename. The registry rename
// is already committed when it does; RetryRename reconciles the rest.
func (r *RenameReport) HasFailures() bool {
	return r != nil && kindResults(r.Kinds).failed()
}

// Result returns the outcome recorded for kind.
func (r *RenameReport) Result(kind Kind) (KindResult, bool) {
	return kindResults(r.Kinds).find(kind)
}

// MetadataOutcome describes the metadata step of a cascading delete.
type MetadataOutcome string

const (
	MetadataDeleted       MetadataOutcome = "deleted"
	MetadataAlreadyAbsent MetadataOutcome = "already_absent"
)

// DeleteReport is the outcome of a cascading delete.
type DeleteReport struct {
	Name     string           `json:"name"`
	Process  *process.Process `json:"process,omitempty"`
	Metadata MetadataOutcome  `json:"metadata"`
	Kinds    []KindResult     `json:"kinds"`
}

// DeletedMetadata reports whether this delete removed the metadata row.
func (r *DeleteReport) DeletedMetadata() bool {
	return r.Metadata == MetadataDeleted
}

// HasFailures reports whether any namespace could not be dropped.
func (r *DeleteReport) HasFailures() bool {
	return r != nil && kindResults(r.Kinds).failed()
}

// Result returns the outcome recorded for kind.
func (r *DeleteReport) Result(kind Kind) (KindResult, bool) {
	return kindResults(r.Kinds).find(kind)
}

// nothingFound reports whether the delete found neither metadata nor any namespace.
func (r *DeleteReport) nothingFound() bool {
	if r.Metadata != MetadataAlreadyAbsent {
		return false
	}
	for _, k := range r.Kinds {
		if k.Outcome != OutcomeSkippedAbsent {
			return false
		}
	}
	return true
}
