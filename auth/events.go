package auth

import "log/slog"

type logEvents struct {
	logger *slog.Logger
}

// NewLogEvents returns Events that write every account event to logger.
func NewLogEvents(logger *slog.Logger) Events {
	return &logEvents{logger: logger}
}

func (e *logEvents) AccountCreated(id string, username string, email string) {
	e.logger.Info("account created", "account_id", id, "username", username, "email", email)
}
