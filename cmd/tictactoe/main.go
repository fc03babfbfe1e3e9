package main

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/logger"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/terminal"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

type config struct {
	LogLevel string `env:"TICTACTOE_LOG_LEVEL" env-default:"error"`
}

// main - plays a hot-seat game in the terminal, no server or storage involved.
func main() {
	var conf config
	if err := cleanenv.ReadEnv(&conf); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read environment: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stderr, conf.LogLevel)

	game := terminal.NewGame(log, tictactoe.NewGameController(nil))
	if err := game.Run(os.Stdin, os.Stdout); err != nil {
		log.Error("terminal game failed", "error", err)
		os.Exit(1)
	}
}
