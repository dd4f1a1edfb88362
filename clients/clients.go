package clients

import (
	"dashpulse/clients/dashboardapi"
	"dashpulse/clients/discord"
	"dashpulse/clients/livechannel"
	"dashpulse/config"

	"go.uber.org/zap"
)

type Clients struct {
	Logger *zap.Logger

	Dashboard *dashboardapi.Client
	Live      *livechannel.Client
	Discord   *discord.Alerter
}

func NewClients(logger *zap.Logger, cfg *config.Config) *Clients {
	return &Clients{
		Logger:    logger,
		Dashboard: dashboardapi.NewClient(logger, cfg),
		Live:      livechannel.NewClient(logger, cfg),
		Discord:   discord.NewAlerter(logger, cfg),
	}
}
