package wizard

import "github.com/sehyaatri/sehyaatri/internal/client/state"

// Issue is one selectable problem tag. Drafts store Key; the labels are for
// display only.
type Issue struct {
	Key string
	En  string
	Hi  string
}

// Label returns the display text for lang, falling back to English.
func (i Issue) Label(lang string) string {
	if lang == state.Hindi && i.Hi != "" {
		return i.Hi
	}
	return i.En
}

var websiteIssues = []Issue{
	{"Slow loading times", "Slow loading times", "धीमी लोडिंग गति"},
	{"Difficult navigation", "Difficult navigation", "कठिन नेविगेशन"},
	{"Poor mobile experience", "Poor mobile experience", "खराब मोबाइल अनुभव"},
	{"Missing information", "Missing information", "गुम जानकारी"},
	{"Broken links", "Broken links", "टूटे हुए लिंक"},
	{"Other", "Other", "अन्य"},
}

var aiIssues = []Issue{
	{"Inaccurate responses", "Inaccurate responses", "गलत प्रतिक्रियाएं"},
	{"Slow responses", "Slow responses", "धीमी प्रतिक्रियाएं"},
	{"Language issues", "Language issues", "भाषा की समस्याएं"},
	{"Limited knowledge", "Limited knowledge", "सीमित ज्ञान"},
	{"Technical errors", "Technical errors", "तकनीकी त्रुटियां"},
	{"Other", "Other", "अन्य"},
}

// Issues returns the catalog for an issue-list field.
func Issues(field IssueField) []Issue {
	switch field {
	case WebsiteIssues:
		return append([]Issue(nil), websiteIssues...)
	case AIIssues:
		return append([]Issue(nil), aiIssues...)
	}
	return nil
}

func inCatalog(field IssueField, key string) bool {
	for _, is := range Issues(field) {
		if is.Key == key {
			return true
		}
	}
	return false
}

var stageTitles = map[Stage][2]string{
	StageWebsite:   {"Website Experience", "वेबसाइट अनुभव"},
	StageAI:        {"AI Chatbot Experience", "AI चैटबॉट अनुभव"},
	StageOverall:   {"Overall Experience", "समग्र अनुभव"},
	StageContact:   {"Contact Information", "संपर्क जानकारी"},
	StageSubmitted: {"Thank You!", "धन्यवाद!"},
}

// Title is the stage heading in lang.
func (s Stage) Title(lang string) string {
	t, ok := stageTitles[s]
	if !ok {
		return ""
	}
	if lang == state.Hindi {
		return t[1]
	}
	return t[0]
}

var ratingLabels = map[RatingField][2]string{
	WebsiteRating:     {"Rating", "रेटिंग"},
	WebsiteEaseOfUse:  {"Ease of Use", "उपयोग में आसानी"},
	WebsiteDesign:     {"Design & Visual Appeal", "डिज़ाइन और दृश्य अपील"},
	WebsiteContent:    {"Content Quality", "सामग्री की गुणवत्ता"},
	WebsiteNavigation: {"Navigation", "नेविगेशन"},
	AIRating:          {"Rating", "रेटिंग"},
	AIAccuracy:        {"Response Accuracy", "प्रतिक्रिया की सटीकता"},
	AIResponseTime:    {"Response Time", "प्रतिक्रिया समय"},
	AIHelpfulness:     {"Helpfulness", "उपयोगिता"},
	AILanguageSupport: {"Language Support", "भाषा सहायता"},
	OverallExperience: {"Overall Experience", "समग्र अनुभव"},
	Recommendation:    {"Would you recommend us?", "क्या आप हमारी सिफारिश करेंगे?"},
}

// Label is the question text for a rating in lang.
func (f RatingField) Label(lang string) string {
	l, ok := ratingLabels[f]
	if !ok {
		return string(f)
	}
	if lang == state.Hindi {
		return l[1]
	}
	return l[0]
}
