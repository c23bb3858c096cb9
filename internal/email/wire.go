package email

import (
	"github.com/google/wire"

	"inkwell/config"
)

func NewSenderFromConfig(cfg *config.Config) *Sender {
	return NewSender(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUsername,
		cfg.SMTPPassword,
		cfg.EmailFrom,
		cfg.BaseURL,
		DefaultTemplates(),
	)
}

var Set = wire.NewSet(
	NewSenderFromConfig,
	wire.Bind(new(Gateway), new(*Sender)),
)
