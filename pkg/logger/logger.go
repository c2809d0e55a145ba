package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/churnlabs/churnserve/pkg/configs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var applicationName string = ""

// InitLogger sets the global log level and output sink. When a log file path
// is configured the sink is a size-rotated file, otherwise stdout.
func InitLogger(configs *configs.AppConfigs) {
	logLevel := strings.ToUpper(configs.Configs.ApplicationLogLevel)
	applicationName = configs.Configs.ApplicationName
	switch logLevel {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "INFO":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "FATAL":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "PANIC":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "DISABLED":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		Panic(fmt.Sprintf("Incorrect log level %s", logLevel), nil)
	}

	var sink io.Writer = os.Stdout
	if configs.Configs.LogFilePath != "" {
		sink = &lumberjack.Logger{
			Filename:   configs.Configs.LogFilePath,
			MaxSize:    configs.Configs.LogFileMaxSizeMB,
			MaxBackups: configs.Configs.LogFileMaxBackups,
		}
	}
	log.Logger = zerolog.New(sink).With().Timestamp().Str("service", applicationName).Logger()
	Info("Logger initialized!")
}

func Debug(message string) {
	log.Debug().Msg(message)
}

func Info(message string) {
	log.Info().Msg(message)
}

func Warn(message string) {
	log.Warn().Msg(message)
}

func Error(message string, err error) {
	log.Error().Err(err).Msg(message)
}

func Panic(message string, err error) {
	log.Error().Err(err).Msg(message)
	log.Panic().Err(err).Msg(message)
}
