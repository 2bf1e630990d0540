// td2-translator follows the Train Driver 2 log and translates in-game chat.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/MimeLyc/td2-chat-translator/internal/cli"
	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Reading .env: %v", err)
	}
	os.Exit(cli.Execute())
}
