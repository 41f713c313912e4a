package domain

// LinkPolicy decides what a repeated fail transition does when the working
// paper already links an issue.
type LinkPolicy string

const (
	// LinkPolicyCreateNew mints a fresh issue and repoints the working paper
	// at it; the previously linked issue stays in the store unreferenced.
	LinkPolicyCreateNew LinkPolicy = "create_new"
	// LinkPolicyUpdateExisting rewrites the already linked issue from the draft.
	LinkPolicyUpdateExisting LinkPolicy = "update_existing"
)

func (p LinkPolicy) Valid() bool {
	return p == LinkPolicyCreateNew || p == LinkPolicyUpdateExisting
}

// Transition is the outcome of applying a status to a working paper.
type Transition struct {
	WorkingPaper    WorkingPaper
	PreviousStatus  TestStatus
	Issue           *Issue
	OrphanedIssueID string
}

// IssueTransition is the outcome of moving an issue along its lifecycle.
type IssueTransition struct {
	Issue          Issue
	PreviousStatus IssueStatus
}
