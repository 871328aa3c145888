// Package wizard is the four-stage feedback form as a state machine.
//
//	Website → AI → Overall → Contact → (Submitted)
//
// Stages can be visited in any order before submission. Submission needs
// the four required ratings and happens once; after it every mutation
// fails with ErrSubmitted.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

type Stage int

const (
	StageWebsite Stage = iota
	StageAI
	StageOverall
	StageContact
	StageSubmitted
)

// LastStage is the stage Submit is allowed from.
const LastStage = StageContact

func (s Stage) String() string {
	switch s {
	case StageWebsite:
		return "website"
	case StageAI:
		return "ai"
	case StageOverall:
		return "overall"
	case StageContact:
		return "contact"
	case StageSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Step is the 1-based position shown as "Step n of 4".
func (s Stage) Step() int { return int(s) + 1 }

// Steps is the number of input stages.
const Steps = int(LastStage) + 1

type (
	RatingField string
	IssueField  string
	TextField   string
)

const (
	WebsiteRating     RatingField = "websiteRating"
	WebsiteEaseOfUse  RatingField = "websiteEaseOfUse"
	WebsiteDesign     RatingField = "websiteDesign"
	WebsiteContent    RatingField = "websiteContent"
	WebsiteNavigation RatingField = "websiteNavigation"
	AIRating          RatingField = "aiRating"
	AIAccuracy        RatingField = "aiAccuracy"
	AIResponseTime    RatingField = "aiResponseTime"
	AIHelpfulness     RatingField = "aiHelpfulness"
	AILanguageSupport RatingField = "aiLanguageSupport"
	OverallExperience RatingField = "overallExperience"
	Recommendation    RatingField = "recommendation"

	WebsiteIssues IssueField = "websiteIssues"
	AIIssues      IssueField = "aiIssues"

	WebsiteComments    TextField = "websiteComments"
	AIComments         TextField = "aiComments"
	AdditionalComments TextField = "additionalComments"
)

// StageRatings lists the rating fields asked on each stage, required first.
var StageRatings = map[Stage][]RatingField{
	StageWebsite: {WebsiteRating, WebsiteEaseOfUse, WebsiteDesign, WebsiteContent, WebsiteNavigation},
	StageAI:      {AIRating, AIAccuracy, AIResponseTime, AIHelpfulness, AILanguageSupport},
	StageOverall: {OverallExperience, Recommendation},
}

// Required reports whether a rating must be set before submitting.
func (f RatingField) Required() bool {
	switch f {
	case WebsiteRating, AIRating, OverallExperience, Recommendation:
		return true
	}
	return false
}

var (
	ErrSubmitted       = errors.New("wizard: feedback already submitted")
	ErrSubmitting      = errors.New("wizard: submission in progress")
	ErrIncomplete      = errors.New("wizard: required ratings missing")
	ErrNotLastStage    = errors.New("wizard: not on the final stage")
	ErrInvalidRating   = errors.New("wizard: rating must be between 1 and 5")
	ErrUnknownField    = errors.New("wizard: unknown field")
	ErrUnknownIssue    = errors.New("wizard: issue not in catalog")
	ErrStageOutOfRange = errors.New("wizard: no such stage")
)

// Draft is the whole form. Its JSON shape is the submitted payload.
// Ratings are 1-5 and 0 means unset.
type Draft struct {
	WebsiteRating     int      `json:"websiteRating"`
	WebsiteEaseOfUse  int      `json:"websiteEaseOfUse"`
	WebsiteDesign     int      `json:"websiteDesign"`
	WebsiteContent    int      `json:"websiteContent"`
	WebsiteNavigation int      `json:"websiteNavigation"`
	WebsiteIssues     []string `json:"websiteIssues"`
	WebsiteComments   string   `json:"websiteComments"`

	AIRating          int      `json:"aiRating"`
	AIAccuracy        int      `json:"aiAccuracy"`
	AIResponseTime    int      `json:"aiResponseTime"`
	AIHelpfulness     int      `json:"aiHelpfulness"`
	AILanguageSupport int      `json:"aiLanguageSupport"`
	AIIssues          []string `json:"aiIssues"`
	AIComments        string   `json:"aiComments"`

	OverallExperience  int    `json:"overallExperience"`
	Recommendation     int    `json:"recommendation"`
	AdditionalComments string `json:"additionalComments"`
	ContactEmail       string `json:"contactEmail"`
}

// NewDraft returns an empty draft whose issue lists encode as [] not null.
func NewDraft() Draft {
	return Draft{WebsiteIssues: []string{}, AIIssues: []string{}}
}

// Complete reports whether all four required ratings are set.
func (d Draft) Complete() bool {
	return d.WebsiteRating >= 1 && d.AIRating >= 1 &&
		d.OverallExperience >= 1 && d.Recommendation >= 1
}

// Rating returns the value of a rating field, or 0 for an unknown field.
func (d *Draft) Rating(f RatingField) int {
	if p := d.ratingPtr(f); p != nil {
		return *p
	}
	return 0
}

func (d *Draft) ratingPtr(f RatingField) *int {
	switch f {
	case WebsiteRating:
		return &d.WebsiteRating
	case WebsiteEaseOfUse:
		return &d.WebsiteEaseOfUse
	case WebsiteDesign:
		return &d.WebsiteDesign
	case WebsiteContent:
		return &d.WebsiteContent
	case WebsiteNavigation:
		return &d.WebsiteNavigation
	case AIRating:
		return &d.AIRating
	case AIAccuracy:
		return &d.AIAccuracy
	case AIResponseTime:
		return &d.AIResponseTime
	case AIHelpfulness:
		return &d.AIHelpfulness
	case AILanguageSupport:
		return &d.AILanguageSupport
	case OverallExperience:
		return &d.OverallExperience
	case Recommendation:
		return &d.Recommendation
	}
	return nil
}

func (d *Draft) issuesPtr(f IssueField) *[]string {
	switch f {
	case WebsiteIssues:
		return &d.WebsiteIssues
	case AIIssues:
		return &d.AIIssues
	}
	return nil
}

func (d *Draft) textPtr(f TextField) *string {
	switch f {
	case WebsiteComments:
		return &d.WebsiteComments
	case AIComments:
		return &d.AIComments
	case AdditionalComments:
		return &d.AdditionalComments
	}
	return nil
}

func (d Draft) clone() Draft {
	d.WebsiteIssues = slices.Clone(d.WebsiteIssues)
	d.AIIssues = slices.Clone(d.AIIssues)
	if d.WebsiteIssues == nil {
		d.WebsiteIssues = []string{}
	}
	if d.AIIssues == nil {
		d.AIIssues = []string{}
	}
	return d
}

// Submitter delivers a finished payload; *client.Client satisfies it.
type Submitter interface {
	SubmitFeedback(ctx context.Context, payload any, email string) error
}

// Wizard is safe for concurrent use.
type Wizard struct {
	mu         sync.Mutex
	stage      Stage
	draft      Draft
	submitting bool
	lastErr    error
}

func New() *Wizard {
	return &Wizard{stage: StageWebsite, draft: NewDraft()}
}

func (w *Wizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.clone()
}

// Err is the error from the last failed Submit, cleared on the next attempt.
func (w *Wizard) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Wizard) Submitted() bool { return w.Stage() == StageSubmitted }

func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// mutable must be called with mu held.
func (w *Wizard) mutable() error {
	if w.stage == StageSubmitted {
		return ErrSubmitted
	}
	if w.submitting {
		return ErrSubmitting
	}
	return nil
}

// Next advances one stage, staying put on the last one.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutable(); err != nil {
		return err
	}
	if w.stage < LastStage {
		w.stage++
	}
	return nil
}

// Back goes back one stage, staying put on the first one.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutable(); err != nil {
		return err
	}
	if w.stage > StageWebsite {
		w.stage--
	}
	return nil
}

// GoTo jumps to any input stage.
func (w *Wizard) GoTo(s Stage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutable(); err != nil {
		return err
	}
	if s < StageWebsite || s > LastStage {
		return ErrStageOutOfRange
	}
	w.stage = s
	return nil
}

func (w *Wizard) SetRating(f RatingField, v int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutable(); err != nil {
		return err
	}
	p := w.draft.ratingPtr(f)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if v < 1 || v > 5 {
		return ErrInvalidRating
	}
	*p = v
	return nil
}

// ToggleIssue adds key to the list if absent and removes it if present.
// Order of first selection is kept.
func (w *Wizard) ToggleIssue(f IssueField, key string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutable(); err != nil {
		return err
	}
	p := w.draft.issuesPtr(f)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if !inCatalog(f, key) {
		return fmt.Errorf("%w: %q", ErrUnknownIssue, key)
	}

	if i := slices.Index(*p, key); i >= 0 {
		*p = slices.Delete(*p, i, i+1)
	} else {
		*p = append(*p, key)
	}
	return nil
}

func (w *Wizard) SetText(f TextField, v string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutable(); err != nil {
		return err
	}
	p := w.draft.textPtr(f)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	*p = v
	return nil
}

func (w *Wizard) SetContactEmail(v string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.mutable(); err != nil {
		return err
	}
	w.draft.ContactEmail = v
	return nil
}

// CanSubmit reports whether Submit would be attempted right now.
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage == LastStage && w.draft.Complete() && !w.submitting
}

// Submit sends the whole draft as one payload, with the contact email
// alongside. On success the wizard moves to StageSubmitted. On failure it
// stays where it is, Err reports why, and Submit may be retried.
func (w *Wizard) Submit(ctx context.Context, to Submitter) error {
	w.mu.Lock()
	if err := w.mutable(); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.stage != LastStage {
		w.mu.Unlock()
		return ErrNotLastStage
	}
	if !w.draft.Complete() {
		w.mu.Unlock()
		return ErrIncomplete
	}
	w.submitting = true
	w.lastErr = nil
	payload := w.draft.clone()
	w.mu.Unlock()

	err := to.SubmitFeedback(ctx, payload, strings.TrimSpace(payload.ContactEmail))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		w.lastErr = err
		return err
	}
	w.stage = StageSubmitted
	return nil
}
