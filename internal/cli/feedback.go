package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sehyaatri/sehyaatri/internal/wizard"
)

var stageComments = map[wizard.Stage]wizard.TextField{
	wizard.StageWebsite: wizard.WebsiteComments,
	wizard.StageAI:      wizard.AIComments,
	wizard.StageOverall: wizard.AdditionalComments,
}

var stageIssues = map[wizard.Stage]wizard.IssueField{
	wizard.StageWebsite: wizard.WebsiteIssues,
	wizard.StageAI:      wizard.AIIssues,
}

// Feedback walks every stage of the form in order, then submits. A failed
// submission can be retried without re-entering anything.
func (a *App) Feedback(ctx context.Context) error {
	w := wizard.New()
	lang := a.language()

	for {
		stage := w.Stage()
		fmt.Fprintf(a.out, "\nStep %d of %d: %s\n", stage.Step(), wizard.Steps, stage.Title(lang))

		if err := a.fillStage(w, stage, lang); err != nil {
			return err
		}
		if stage == wizard.LastStage {
			break
		}
		if err := w.Next(); err != nil {
			return err
		}
	}

	for {
		err := w.Submit(ctx, a.api)
		if err == nil {
			break
		}
		a.logger.Debug("feedback submission failed", "error", err)
		fmt.Fprintf(a.out, "Could not submit feedback: %v\n", err)

		retry, cerr := Confirm(a.reader, "Retry?", a.out)
		if cerr != nil {
			return cerr
		}
		if !retry {
			return err
		}
	}

	fmt.Fprintln(a.out, wizard.StageSubmitted.Title(lang))
	return nil
}

func (a *App) fillStage(w *wizard.Wizard, stage wizard.Stage, lang string) error {
	for _, f := range wizard.StageRatings[stage] {
		v, err := GetRating(a.reader, f.Label(lang), f.Required(), a.out)
		if err != nil {
			return err
		}
		if v == 0 {
			continue
		}
		if err := w.SetRating(f, v); err != nil {
			return err
		}
	}

	if field, ok := stageIssues[stage]; ok {
		if err := a.pickIssues(w, field, lang); err != nil {
			return err
		}
	}

	if field, ok := stageComments[stage]; ok {
		text, err := GetSimpleText(a.reader, "Comments (optional)", a.out)
		if err != nil {
			return err
		}
		if err := w.SetText(field, text); err != nil {
			return err
		}
	}

	if stage == wizard.StageContact {
		email, err := GetSimpleText(a.reader, "Email (optional)", a.out)
		if err != nil {
			return err
		}
		if err := w.SetContactEmail(email); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) pickIssues(w *wizard.Wizard, field wizard.IssueField, lang string) error {
	issues := wizard.Issues(field)

	var b strings.Builder
	b.WriteString("Any issues? Enter numbers separated by commas (optional)")
	for i, is := range issues {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, is.Label(lang))
	}

	picked, err := GetChoices(a.reader, b.String(), len(issues), a.out)
	if err != nil {
		return err
	}

	seen := make(map[int]bool, len(picked))
	for _, i := range picked {
		// Toggling twice would deselect, so repeats count once.
		if seen[i] {
			continue
		}
		seen[i] = true
		if err := w.ToggleIssue(field, issues[i].Key); err != nil {
			return err
		}
	}
	return nil
}
