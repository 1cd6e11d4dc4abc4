package main

import (
	"github.com/rs/zerolog/log"

	"livemusicnotes/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
