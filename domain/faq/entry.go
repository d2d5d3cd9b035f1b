package faq

// Entry is a single question/answer pair in the FAQ corpus
type Entry struct {
	ID       string `json:"id" validate:"required,max=64"`
	Question string `json:"question" validate:"required,max=500"`
	Answer   string `json:"answer" validate:"required,max=5000"`
	Category string `json:"category,omitempty" validate:"omitempty,max=100"`
}
