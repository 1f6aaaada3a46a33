package log

import (
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
	"golang.org/x/xerrors"
)

// Level is the minimum severity a logger emits.
type Level int

// Levels in increasing order of verbosity reduction.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// ErrUnknownLevel is returned for levels outside Debug..Error.
var ErrUnknownLevel = xerrors.New("unknown log level")

var levelNames = map[Level]string{
	Debug:   "debug",
	Info:    "info",
	Notice:  "notice",
	Warning: "warning",
	Error:   "error",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// backendLevel maps a level onto go-logging, whose scale runs the other way.
func (l Level) backendLevel() (logging.Level, error) {
	switch l {
	case Debug:
		return logging.DEBUG, nil
	case Info:
		return logging.INFO, nil
	case Notice:
		return logging.NOTICE, nil
	case Warning:
		return logging.WARNING, nil
	case Error:
		return logging.ERROR, nil
	}
	return 0, xerrors.Errorf("level %d: %w", int(l), ErrUnknownLevel)
}

// ParseLevel resolves a level name such as "info" or "WARNING".
func ParseLevel(name string) (Level, error) {
	for level, levelName := range levelNames {
		if strings.EqualFold(name, levelName) {
			return level, nil
		}
	}
	return 0, xerrors.Errorf("level %q: %w", name, ErrUnknownLevel)
}

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	leveledBackend logging.LeveledBackend
	currentLevel   = Notice
)

// Logger is what render workers, the CLI and the web server log through.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a named logger. The name shows up as the module in every line.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects all loggers to sink, keeping the current level.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	backendLevel, _ := currentLevel.backendLevel()
	leveledBackend.SetLevel(backendLevel, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the verbosity of every module. An unknown level leaves the
// current one in place.
func SetLevel(level Level) error {
	backendLevel, err := level.backendLevel()
	if err != nil {
		return err
	}
	currentLevel = level
	leveledBackend.SetLevel(backendLevel, "")
	return nil
}

// CurrentLevel reports the level set last.
func CurrentLevel() Level {
	return currentLevel
}

func init() {
	SetSink(os.Stderr)
}
