// controllers/conversation.go
package controllers

import (
	"net/http"

	"carwash-backend/ledger"
	"carwash-backend/models"
	"carwash-backend/services"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
)

// ConversationController serves the customer chat inbox.
type ConversationController struct {
	Store         *ledger.Store
	Assistant     services.Assistant
	CountryPrefix string
}

type CreateConversationInput struct {
	CustomerName string         `json:"customerName" binding:"required"`
	Plate        string         `json:"plate"`
	Channel      models.Channel `json:"channel"`
	Message      string         `json:"message"`
}

type SendMessageInput struct {
	Content string        `json:"content" binding:"required"`
	Sender  models.Sender `json:"sender"`
}

type SuggestReplyResponse struct {
	Reply    string                 `json:"reply"`
	Plate    string                 `json:"plate"`
	Services []models.ServiceRecord `json:"services"`
}

func (cc *ConversationController) GetConversations(c *gin.Context) {
	c.JSON(http.StatusOK, cc.Store.Conversations())
}

func (cc *ConversationController) CreateConversation(c *gin.Context) {
	var input CreateConversationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	conv, err := cc.Store.AddConversation(c.Request.Context(), ledger.ConversationInput{
		CustomerName: input.CustomerName,
		Plate:        input.Plate,
		Channel:      input.Channel,
		Message:      input.Message,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

func (cc *ConversationController) DeleteConversation(c *gin.Context) {
	removed := cc.Store.RemoveConversation(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// SendMessage appends a message, from the agent unless another sender is given.
func (cc *ConversationController) SendMessage(c *gin.Context) {
	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Sender == "" {
		input.Sender = models.SenderAgent
	}

	conv, err := cc.Store.AddMessage(c.Request.Context(), c.Param("id"), input.Sender, input.Content)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// SuggestReply drafts an answer using the tickets the thread is about.
func (cc *ConversationController) SuggestReply(c *gin.Context) {
	conv, ok := cc.Store.Conversation(c.Param("id"))
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Conversation not found")
		return
	}

	plate := ledger.DetectPlate(conv)
	matched := cc.Store.MatchServices(plate, conv.CustomerName)
	if matched == nil {
		matched = []models.ServiceRecord{}
	}
	reply := cc.Assistant.SmartReply(c.Request.Context(), conv.Messages, conv.CustomerName, plate, matched)

	c.JSON(http.StatusOK, SuggestReplyResponse{Reply: reply, Plate: plate, Services: matched})
}

// GetWhatsAppLink continues the thread on WhatsApp. The phone comes from the
// customer's tickets, or from ?phone= when none has one.
func (cc *ConversationController) GetWhatsAppLink(c *gin.Context) {
	conv, ok := cc.Store.Conversation(c.Param("id"))
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Conversation not found")
		return
	}

	phone := cc.Store.PhoneFor(ledger.DetectPlate(conv), conv.CustomerName)
	if phone == "" {
		phone = c.Query("phone")
	}
	if phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "No phone number known for this conversation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": services.WhatsAppLink(phone, c.Query("text"), cc.CountryPrefix)})
}
