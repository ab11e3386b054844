package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// output is shared by every component logger so Setup can switch all of
// them to console output after they were created.
var output = &switchWriter{w: os.Stdout}

type switchWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

// New returns a JSON logger tagged with component.
func New(component string) zerolog.Logger {
	return zerolog.New(output).With().Timestamp().Str("component", component).Logger()
}

// Setup applies the global level and, when pretty is set, routes every
// logger (including the global one) through a console writer on stderr.
func Setup(level string, pretty bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		output.set(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		output.set(os.Stdout)
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return nil
}
