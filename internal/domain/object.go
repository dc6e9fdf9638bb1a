package domain

import "time"

// Object is one stored OMP object. Content is the arbitrary structured
// payload; listings render objects without it.
type Object struct {
	ID        string         `json:"id"`
	Namespace string         `json:"namespace"`
	Key       string         `json:"key"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata"`
	Content   map[string]any `json:"content,omitempty"`
}

// WithoutContent returns a copy suitable for listing responses.
func (o Object) WithoutContent() Object {
	o.Content = nil
	return o
}

type ObjectList struct {
	Count int      `json:"count"`
	Items []Object `json:"items"`
}

// SearchFilter narrows listings by namespace and/or key substring.
type SearchFilter struct {
	Namespace   string
	KeyContains string
}
