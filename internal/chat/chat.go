// Package chat defines the boundary to the messaging transport: inbound
// updates, outbound renders and the callback token grammar. The transport
// itself lives behind the Sender interface.
package chat

import (
	"context"
	"fmt"
	"strings"
)

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName joins first and last name, falling back to a generic label when
// the transport delivered neither.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return "Користувач"
	}
	return name
}

// Link renders the HTML-subset hyperlink-to-user markup.
func (u User) Link() string {
	return fmt.Sprintf("<a href='tg://user?id=%d'>%d</a>", u.ID, u.ID)
}

// Update is a single inbound event. Exactly one of Command, Callback, Text
// or PhotoID is set.
type Update struct {
	User     User   `json:"user"`
	Command  string `json:"command,omitempty"`
	Callback string `json:"callback,omitempty"`
	Text     string `json:"text,omitempty"`
	PhotoID  string `json:"photo_id,omitempty"`
}

type Button struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

type Document struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// Message is one outbound render: text with an optional keyboard, photo
// reference or attached document.
type Message struct {
	ChatID   int64      `json:"chat_id"`
	Text     string     `json:"text"`
	Keyboard [][]Button `json:"keyboard,omitempty"`
	PhotoID  string     `json:"photo_id,omitempty"`
	Document *Document  `json:"document,omitempty"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}
