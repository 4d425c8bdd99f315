package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/ella-rises/membership-api/internal/models"
	"go.uber.org/zap"
)

// Notifier announces ledger activity to staff. Failures are logged by the
// caller and never fail the originating request.
type Notifier interface {
	NotifyDonation(participant models.Participant, donation models.Donation) error
	NotifyRegistration(participant models.Participant, eventName string, registration models.Registration) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
	logger    *zap.Logger
}

func NewDiscordNotifier(botToken, channelID string, logger *zap.Logger) (*DiscordNotifier, error) {
	if botToken == "" || channelID == "" {
		return nil, fmt.Errorf("discord bot token and channel ID are required")
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscordNotifier{session: session, channelID: channelID, logger: logger}, nil
}

func (n *DiscordNotifier) NotifyDonation(participant models.Participant, donation models.Donation) error {
	message := fmt.Sprintf("💝 **New Donation**\n**From:** %s %s (%s)\n**Amount:** $%.2f\n**Donation #%d for this donor**",
		participant.FirstName,
		participant.LastName,
		participant.Email,
		donation.Amount,
		donation.SequenceNo,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		n.logger.Error("failed to send discord message", zap.Error(err))
		return err
	}
	return nil
}

func (n *DiscordNotifier) NotifyRegistration(participant models.Participant, eventName string, registration models.Registration) error {
	message := fmt.Sprintf("🎟️ **New Event Registration**\n**Participant:** %s %s (%s)\n**Event:** %s\n**Status:** %s",
		participant.FirstName,
		participant.LastName,
		participant.Email,
		eventName,
		registration.Status,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		n.logger.Error("failed to send discord message", zap.Error(err))
		return err
	}
	return nil
}
