package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/peoplehub/events-api/internal/models"
)

// Notifier receives lifecycle outcomes after they commit. The scheduling
// service never calls it directly; handlers do, so a delivery failure can
// never fail a registration.
type Notifier interface {
	NotifyRegistration(employee models.Employee, event models.Event, registration models.EventRegistration) error
	NotifyCancellation(employee models.Employee, event models.Event) error
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

func (n *DiscordNotifier) NotifyRegistration(employee models.Employee, event models.Event, registration models.EventRegistration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	status := "confirmed ✅"
	if registration.Status == models.RegistrationWaitlist {
		status = "waitlisted ⏳"
	}

	message := fmt.Sprintf("📅 **Event Registration**\n**Employee:** %s\n**Event:** %s\n**When:** %s - %s\n**Status:** %s",
		employee.Name,
		event.Title,
		event.StartDate.Format("2006-01-02 15:04"),
		event.EndDate.Format("2006-01-02 15:04"),
		status,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

func (n *DiscordNotifier) NotifyCancellation(employee models.Employee, event models.Event) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	message := fmt.Sprintf("📅 **Registration Cancelled**\n**Employee:** %s\n**Event:** %s (%s)",
		employee.Name,
		event.Title,
		event.StartDate.Format("2006-01-02"),
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
