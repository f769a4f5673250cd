package ledger

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"carwash-backend/models"
	"carwash-backend/persistence"

	"github.com/google/uuid"
)

var platePattern = regexp.MustCompile(`(?i)[A-Z]{3}-?\d{3,4}`)

func (s *Store) Conversations() []models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = copyConversation(c)
	}
	return out
}

func (s *Store) Conversation(id string) (models.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.conversationIndexLocked(id)
	if i < 0 {
		return models.Conversation{}, false
	}
	return copyConversation(s.conversations[i]), true
}

type ConversationInput struct {
	CustomerName string
	Plate        string
	Channel      models.Channel
	Message      string
}

// AddConversation opens a thread from an inbound channel. The first message,
// when present, is recorded as unread.
func (s *Store) AddConversation(ctx context.Context, in ConversationInput) (models.Conversation, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return models.Conversation{}, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	switch in.Channel {
	case models.ChannelWhatsApp, models.ChannelInstagram, models.ChannelEmail:
	case "":
		in.Channel = models.ChannelWhatsApp
	default:
		return models.Conversation{}, fmt.Errorf("%w: unknown channel %q", ErrValidation, in.Channel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv := models.Conversation{
		ID:           "CONV-" + strings.ToUpper(uuid.NewString()[:8]),
		CustomerName: strings.TrimSpace(in.CustomerName),
		Plate:        NormalizePlate(in.Plate),
		Channel:      in.Channel,
		Messages:     []models.Message{},
		Status:       "active",
	}
	if msg := strings.TrimSpace(in.Message); msg != "" {
		conv.Messages = append(conv.Messages, s.newMessage(models.SenderUser, msg))
		conv.LastMessage = msg
		conv.UnreadCount = 1
	}
	s.conversations = append([]models.Conversation{conv}, s.conversations...)
	s.persistLocked(ctx, persistence.SlotConversations)
	return copyConversation(conv), nil
}

// RemoveConversation reports false when no thread has that id.
func (s *Store) RemoveConversation(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.conversationIndexLocked(id)
	if i < 0 {
		return false
	}
	s.conversations = append(s.conversations[:i:i], s.conversations[i+1:]...)
	s.persistLocked(ctx, persistence.SlotConversations)
	return true
}

// AddMessage appends to a thread. An agent reply marks the thread read; a
// customer message adds to the unread count.
func (s *Store) AddMessage(ctx context.Context, conversationID string, sender models.Sender, content string) (models.Conversation, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Conversation{}, fmt.Errorf("%w: message content is required", ErrValidation)
	}
	switch sender {
	case models.SenderUser, models.SenderAgent, models.SenderSystem:
	default:
		return models.Conversation{}, fmt.Errorf("%w: unknown sender %q", ErrValidation, sender)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.conversationIndexLocked(conversationID)
	if i < 0 {
		return models.Conversation{}, ErrConversationNotFound
	}
	conv := &s.conversations[i]
	conv.Messages = append(conv.Messages, s.newMessage(sender, content))
	conv.LastMessage = content
	switch sender {
	case models.SenderAgent:
		conv.UnreadCount = 0
	case models.SenderUser:
		conv.UnreadCount++
	}
	s.persistLocked(ctx, persistence.SlotConversations)
	return copyConversation(*conv), nil
}

func (s *Store) newMessage(sender models.Sender, content string) models.Message {
	return models.Message{
		ID:        "M-" + strings.ToUpper(uuid.NewString()[:8]),
		Sender:    sender,
		Content:   content,
		Timestamp: s.clockString(),
	}
}

// DetectPlate returns the thread's plate, or the first plate-looking token in
// its messages.
func DetectPlate(conv models.Conversation) string {
	if conv.Plate != "" {
		return conv.Plate
	}
	for _, m := range conv.Messages {
		if p := platePattern.FindString(m.Content); p != "" {
			return strings.ToUpper(p)
		}
	}
	return ""
}

// MatchServices finds the tickets a conversation is about. A plate match
// ignores dashes and case; without a plate hit, tickets whose customer name
// contains name are returned.
func (s *Store) MatchServices(plate, name string) []models.ServiceRecord {
	all := s.Services()

	if key := plateKey(plate); key != "" {
		var out []models.ServiceRecord
		for _, rec := range all {
			if plateKey(rec.Plate) == key {
				out = append(out, rec)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	var out []models.ServiceRecord
	for _, rec := range all {
		if strings.Contains(strings.ToLower(rec.CustomerName), name) {
			out = append(out, rec)
		}
	}
	return out
}

// PhoneFor returns the phone of the most recent ticket with the given plate
// or customer name.
func (s *Store) PhoneFor(plate, name string) string {
	key := plateKey(plate)
	for _, rec := range s.Services() {
		if rec.Phone == "" {
			continue
		}
		if (key != "" && plateKey(rec.Plate) == key) || (name != "" && rec.CustomerName == name) {
			return rec.Phone
		}
	}
	return ""
}

func plateKey(plate string) string {
	return strings.ReplaceAll(NormalizePlate(plate), "-", "")
}

func (s *Store) conversationIndexLocked(id string) int {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return i
		}
	}
	return -1
}

func copyConversation(c models.Conversation) models.Conversation {
	msgs := make([]models.Message, len(c.Messages))
	copy(msgs, c.Messages)
	c.Messages = msgs
	return c
}
