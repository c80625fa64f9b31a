package controllers

import (
	"net/http"
	"strings"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/mailer"
	"github.com/JerryLinyx/pilotts/services"
	"github.com/gin-gonic/gin"
)

// GetAbout exposes the public part of the blog settings.
func GetAbout(c *gin.Context) {
	setting, err := global.Settings.Current()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"blog_name":    setting.BlogName,
		"bio":          setting.Bio,
		"twitter_url":  setting.TwitterURL,
		"linkedin_url": setting.LinkedinURL,
	})
}

func GetSettings(c *gin.Context) {
	setting, err := global.Settings.Current()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

func UpdateSettings(c *gin.Context) {
	var req struct {
		Setting *services.SettingInput `json:"setting"`
		services.SettingInput
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input := req.SettingInput
	if req.Setting != nil {
		input = *req.Setting
	}

	setting, err := global.Settings.Update(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Settings updated successfully.",
		"setting": setting,
	})
}

// SendTestEmail mails a delivery check to the given address, or to the
// contact email when none is given.
func SendTestEmail(c *gin.Context) {
	var req struct {
		To string `json:"to"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	setting, err := global.Settings.Current()
	if err != nil {
		respondError(c, err)
		return
	}
	to := strings.TrimSpace(req.To)
	if to == "" {
		to = setting.ContactEmail
	}

	if err := global.Mailer.Send(c.Request.Context(), mailer.DeliveryTestMessage(to, setting.BlogName)); err != nil {
		global.Logger.ErrorContext(c.Request.Context(), "test email failed", "to", to, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "errors": []string{"Failed to send test email: " + err.Error()}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Test email sent to " + to + "."})
}
