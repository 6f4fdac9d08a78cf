// Package model defines the domain types shared across the eraser.
package model

// Message is a single channel message as returned by the search endpoint.
// Only the fields the eraser consumes are mapped.
type Message struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned"`
	Author  Author `json:"author"`
}

// Author is the message author reference.
type Author struct {
	ID string `json:"id"`
}

// Page is one search result page. The search endpoint groups messages into
// context blocks; the grouping carries no meaning for deletion.
type Page struct {
	TotalResults int         `json:"total_results"`
	Messages     [][]Message `json:"messages"`
}

// Flatten returns the page's messages as a single sequence, preserving
// order within and across groups.
func (p *Page) Flatten() []Message {
	var msgs []Message
	for _, group := range p.Messages {
		msgs = append(msgs, group...)
	}
	return msgs
}
