// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package main

import (
	"flag"
	"net/http"

	"github.com/brightpath/studysync/internal/config"
	"github.com/brightpath/studysync/internal/devserver"
	"github.com/brightpath/studysync/internal/logger"
)

func main() {
	addr := config.NetAddress{Host: "localhost", Port: 8080}
	flag.Var(&addr, "a", "Address to listen on (host:port)")
	flag.Parse()

	log := logger.NewLogger("studysync-devserver")

	handler := devserver.NewHandler(log)

	log.Info().Str("address", addr.String()).Msg("dev backend listening")
	if err := http.ListenAndServe(addr.String(), handler.Routes()); err != nil {
		log.Fatal().Err(err).Msg("dev backend stopped")
	}
}
