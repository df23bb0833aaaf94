package logger

import "log/slog"

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

func RecordID(id string) slog.Attr {
	return slog.String("record_id", id)
}
