package survey

import "errors"

var (
	ErrUnknownYear = errors.New("unknown survey year")
	ErrEmptyInput  = errors.New("survey input has no records")
	ErrNoQuestions = errors.New("survey input has no question columns")
)

// Question is one rated item of a survey year.
type Question struct {
	Item   int    `json:"item"`
	Header string `json:"header"`
}

// Response is one respondent's normalized submission. Ratings[i] holds the
// answer to item i+1; NoRating marks a missing or not-applicable answer.
type Response struct {
	Respondent  string   `json:"respondent,omitempty"`
	Course      string   `json:"course,omitempty"`
	Pole        string   `json:"pole,omitempty"`
	Disciplines []string `json:"disciplines,omitempty"`
	Ratings     []Rating `json:"ratings"`
}

// Rating returns the answer to a 1-based item, or NoRating when the item is out of range.
func (r Response) Rating(item int) Rating {
	if item < 1 || item > len(r.Ratings) {
		return NoRating
	}
	return r.Ratings[item-1]
}

// HasDiscipline reports whether any of the respondent's discipline cells equals d.
func (r Response) HasDiscipline(d string) bool {
	for _, v := range r.Disciplines {
		if v == d {
			return true
		}
	}
	return false
}

// Dataset is the normalized form of one survey year.
type Dataset struct {
	Year      string     `json:"year"`
	Questions []Question `json:"questions"`
	Responses []Response `json:"responses"`
}

// Schema returns the schema of the dataset's year.
func (d *Dataset) Schema() (Schema, error) {
	return SchemaFor(d.Year)
}

// QuestionCount is the number of rated items in the dataset.
func (d *Dataset) QuestionCount() int {
	return len(d.Questions)
}

// Filtered returns a shallow copy of the dataset keeping only the responses matching f.
func (d *Dataset) Filtered(f Filter) *Dataset {
	out := &Dataset{Year: d.Year, Questions: d.Questions}
	for _, r := range d.Responses {
		if f.Match(r) {
			out.Responses = append(out.Responses, r)
		}
	}
	return out
}
