package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log — глобальный логгер приложения.
var Log *logrus.Logger

// Init настраивает глобальный логгер. Вызывается один раз из main
// (или из TestMain в пакетах, которые пишут логи).
func Init() {
	Log = logrus.New()

	// Уровень берем из окружения, по умолчанию info.
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// LOG_FORMAT=json — для продакшена, текст — для разработки.
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}
