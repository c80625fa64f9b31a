package controllers

import (
	"net/http"
	"strings"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/mailer"
	"github.com/gin-gonic/gin"
)

// Contact forwards a visitor's message to the blog owner.
func Contact(c *gin.Context) {
	var input struct {
		Name    string `json:"name" form:"name"`
		Email   string `json:"email" form:"email"`
		Message string `json:"message" form:"message"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)
	if name == "" || email == "" || message == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": []string{"Please fill in all fields."}})
		return
	}

	setting, err := global.Settings.Current()
	if err != nil {
		respondError(c, err)
		return
	}

	msg := mailer.ContactMessage(setting.ContactEmail, name, email, message)
	if err := global.Mailer.Send(c.Request.Context(), msg); err != nil {
		global.Logger.ErrorContext(c.Request.Context(), "contact mail failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "errors": []string{"Your message could not be sent. Please try again later."}})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Thank you for your message! I'll get back to you soon.",
	})
}
