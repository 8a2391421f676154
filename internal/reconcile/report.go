package reconcile

// Status is the outcome for one orphaned identity.
type Status string

const (
	StatusCreated Status = "created" // profile and index entry written
	StatusPartial Status = "partial" // profile written, index entry write failed
	StatusFailed  Status = "failed"  // nothing written
	StatusPlanned Status = "planned" // dry run: would be created
)

// RecordResult describes what happened to one orphan.
type RecordResult struct {
	UID      string `json:"uid" yaml:"uid"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Status   Status `json:"status" yaml:"status"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report summarizes one reconciliation run.
type Report struct {
	RunID   string         `json:"run_id" yaml:"run_id"`
	DryRun  bool           `json:"dry_run" yaml:"dry_run"`
	Scanned int            `json:"scanned" yaml:"scanned"`
	Orphans int            `json:"orphans" yaml:"orphans"`
	Created int            `json:"created" yaml:"created"`
	Partial int            `json:"partial" yaml:"partial"`
	Failed  int            `json:"failed" yaml:"failed"`
	Planned int            `json:"planned" yaml:"planned"`
	Records []RecordResult `json:"records" yaml:"records"`
}

func (r *Report) add(res RecordResult) {
	switch res.Status {
	case StatusCreated:
		r.Created++
	case StatusPartial:
		r.Partial++
	case StatusFailed:
		r.Failed++
	case StatusPlanned:
		r.Planned++
	}
	r.Records = append(r.Records, res)
}
