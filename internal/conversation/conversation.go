package conversation

import (
	"fmt"
	"strings"
)

// Role is the message sender role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single entry in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered message log with a pinned system message at
// index 0. A Conversation is not safe for concurrent use; each request owns
// its own instance.
type Conversation struct {
	messages []Message
}

// New returns a conversation holding only the given system prompt.
func New(system string) *Conversation {
	return &Conversation{messages: []Message{{Role: RoleSystem, Content: system}}}
}

// Len returns the number of messages, system message included.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the message list in order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// At returns the message at index i. Negative indices count from the end.
func (c *Conversation) At(i int) (Message, error) {
	idx, err := c.index(i, len(c.messages))
	if err != nil {
		return Message{}, err
	}
	return c.messages[idx], nil
}

// Insert adds a message at position i and returns it. i is clamped to the
// valid range.
func (c *Conversation) Insert(i int, role Role, content string) Message {
	msg := Message{Role: role, Content: content}
	if i < 0 {
		i = 0
	}
	if i > len(c.messages) {
		i = len(c.messages)
	}
	c.messages = append(c.messages, Message{})
	copy(c.messages[i+1:], c.messages[i:])
	c.messages[i] = msg
	return msg
}

// Prepend inserts a message at the front.
func (c *Conversation) Prepend(role Role, content string) Message {
	return c.Insert(0, role, content)
}

// Append adds a message at the end.
func (c *Conversation) Append(role Role, content string) Message {
	return c.Insert(len(c.messages), role, content)
}

// Pop removes and returns the message at index i (negative counts from the
// end).
func (c *Conversation) Pop(i int) (Message, error) {
	idx, err := c.index(i, len(c.messages))
	if err != nil {
		return Message{}, err
	}
	msg := c.messages[idx]
	c.messages = append(c.messages[:idx], c.messages[idx+1:]...)
	return msg, nil
}

// Set replaces the message at index i.
func (c *Conversation) Set(i int, msg Message) error {
	idx, err := c.index(i, len(c.messages))
	if err != nil {
		return err
	}
	c.messages[idx] = msg
	return nil
}

// SetRange replaces messages[start:end] element-wise. The replacement must
// have exactly end-start entries.
func (c *Conversation) SetRange(start, end int, msgs []Message) error {
	start, end = c.bounds(start, end)
	if end-start != len(msgs) {
		return fmt.Errorf("value length %d does not equal length of slice %d", len(msgs), end-start)
	}
	copy(c.messages[start:end], msgs)
	return nil
}

// SetSystem removes every system-role message and prepends a single new one,
// keeping the relative order of the remaining messages.
func (c *Conversation) SetSystem(content string) Message {
	msg := Message{Role: RoleSystem, Content: content}
	rest := make([]Message, 0, len(c.messages)+1)
	rest = append(rest, msg)
	for _, m := range c.messages {
		if m.Role != RoleSystem {
			rest = append(rest, m)
		}
	}
	c.messages = rest
	return msg
}

// System returns the pinned system message.
func (c *Conversation) System() Message {
	if len(c.messages) == 0 || c.messages[0].Role != RoleSystem {
		return Message{Role: RoleSystem}
	}
	return c.messages[0]
}

// ShortenTo keeps the system message plus the last n-1 non-system messages.
// n <= 1 keeps only the system message.
func (c *Conversation) ShortenTo(n int) *Conversation {
	system := c.System()
	var rest []Message
	for _, m := range c.messages {
		if m.Role != RoleSystem {
			rest = append(rest, m)
		}
	}
	keep := max(n-1, 0)
	if keep < len(rest) {
		rest = rest[len(rest)-keep:]
	}
	out := make([]Message, 0, len(rest)+1)
	out = append(out, system)
	out = append(out, rest...)
	c.messages = out
	return c
}

// Slice returns a new Conversation over messages[start:end]. Negative
// indices count from the end and out-of-range bounds are clamped. The result
// owns its own storage.
func (c *Conversation) Slice(start, end int) *Conversation {
	start, end = c.bounds(start, end)
	out := make([]Message, end-start)
	copy(out, c.messages[start:end])
	return &Conversation{messages: out}
}

// Clone returns an independent copy.
func (c *Conversation) Clone() *Conversation {
	return &Conversation{messages: c.Messages()}
}

func (c *Conversation) String() string {
	lines := make([]string, len(c.messages))
	for i, m := range c.messages {
		lines[i] = fmt.Sprintf("%s: %s", m.Role, m.Content)
	}
	return strings.Join(lines, "\n")
}

func (c *Conversation) index(i, n int) (int, error) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("message index %d out of range [0, %d)", i, n)
	}
	return i, nil
}

func (c *Conversation) bounds(start, end int) (int, int) {
	n := len(c.messages)
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	start = min(max(start, 0), n)
	end = min(max(end, 0), n)
	if end < start {
		end = start
	}
	return start, end
}
