package models

type Channel string

const (
	ChannelWhatsApp  Channel = "WhatsApp"
	ChannelInstagram Channel = "Instagram"
	ChannelEmail     Channel = "Email"
)

type Sender string

const (
	SenderUser   Sender = "user"
	SenderAgent  Sender = "agent"
	SenderSystem Sender = "system"
)

type Message struct {
	ID        string `json:"id"`
	Sender    Sender `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Conversation is a customer chat thread from one of the inbound channels.
type Conversation struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Plate        string    `json:"plate,omitempty"`
	Channel      Channel   `json:"channel"`
	LastMessage  string    `json:"lastMessage"`
	UnreadCount  int       `json:"unreadCount"`
	Messages     []Message `json:"messages"`
	Status       string    `json:"status"` // active, archived
}
