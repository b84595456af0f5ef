package knowledge

// Document is a single entry in the portfolio knowledge base. Documents are
// immutable once loaded; the corpus is replaced wholesale on rebuild.
type Document struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}
