package domain

import "fmt"

// Event is the decoded pull request webhook payload. Every field is
// optional: payloads vary by trigger, and a partial payload must still
// decode cleanly.
type Event struct {
	Action      string       `json:"action"`
	Number      *int         `json:"number"`
	Repository  *Repository  `json:"repository"`
	PullRequest *PullRequest `json:"pull_request"`
}

// Repository identifies the repository a pull request belongs to.
type Repository struct {
	Name  string `json:"name"`
	Owner Owner  `json:"owner"`
}

// Owner is the account that owns a repository.
type Owner struct {
	Login string `json:"login"`
}

// PullRequest carries the PR metadata used to build review prompts.
type PullRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PRDetails is the projection of an Event that the pipeline threads
// through every stage. It is derived once and never mutated.
type PRDetails struct {
	Owner       string
	Repo        string
	PullNumber  *int
	Title       string
	Description string
}

// Number returns the pull number, or zero when the event carried none.
func (d PRDetails) Number() int {
	if d.PullNumber == nil {
		return 0
	}
	return *d.PullNumber
}

// ExtractPRDetails projects the review-relevant fields out of an event.
// It never fails: absent fields become empty strings, an absent number
// stays nil.
func ExtractPRDetails(event Event) PRDetails {
	details := PRDetails{PullNumber: event.Number}
	if event.Repository != nil {
		details.Owner = event.Repository.Owner.Login
		details.Repo = event.Repository.Name
	}
	if event.PullRequest != nil {
		details.Title = event.PullRequest.Title
		details.Description = event.PullRequest.Body
	}
	return details
}

// FileDiff captures the change for a single file in a pull request.
type FileDiff struct {
	NewPath string `json:"new_path"`
	Diff    string `json:"diff,omitempty"`
}

// Comment is a review comment generated for a single file.
type Comment struct {
	Path string
	Body string
}

// Format renders the comment in the form it is published.
func (c Comment) Format() string {
	return fmt.Sprintf("Comments for %s:\n%s", c.Path, c.Body)
}
