package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tidewell/scheduler/internal/storeservice"
)

func main() {
	if err := storeservice.Run(); err != nil {
		log.Error().Err(err).Msg("appointment-store exited with error")
		os.Exit(1)
	}
}
