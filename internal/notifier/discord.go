package notifier

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/playasoft/camp-registration-api/internal/models"
)

type Notifier interface {
	NotifyRegistration(user models.User, registration models.Registration) error
	NotifyPayment(user models.User, payment models.Payment) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyRegistration(user models.User, registration models.Registration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	var options []string
	for _, opt := range registration.CampingOptions {
		options = append(options, opt.Name)
	}

	status := "completed registration 🎉"
	if registration.Status == models.RegistrationDeferred {
		status = "completed registration (dues deferred)"
	}

	message := fmt.Sprintf("⛺ **Registration Update**\n**User:** %s (<@%s>)\n**Status:** %s\n**Camping Options:** %s\n**Work Shifts:** %d\n**Dues:** $%.2f",
		user.Username,
		user.DiscordID,
		status,
		strings.Join(options, ", "),
		len(registration.Jobs),
		registration.Total,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

func (n *DiscordNotifier) NotifyPayment(user models.User, payment models.Payment) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	message := fmt.Sprintf("💸 **Payment Received**\n**User:** %s (<@%s>)\n**Amount:** $%.2f\n**Reference:** %s",
		user.Username,
		user.DiscordID,
		payment.Amount,
		payment.Reference,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
