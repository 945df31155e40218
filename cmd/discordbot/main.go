/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/mikeb26/golfscore/internal"
	log "github.com/sirupsen/logrus"
)

type TopLevelCommand string

const (
	GolfCmd TopLevelCommand = "golf"
)

type CmdHandler func(ctx context.Context,
	i *discordgo.Interaction) *discordgo.InteractionResponse

// config is read from the environment, optionally seeded from a .env file.
type config struct {
	Token       string
	PublicKey   ed25519.PublicKey
	AppID       string
	CmdID       string
	CmdHash     string
	CacheBucket string
	LogLevel    string
	ListenAddr  string
}

func loadConfig(envFiles ...string) (config, error) {
	if err := godotenv.Load(envFiles...); err != nil &&
		!errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := config{
		Token:       os.Getenv("DISCORD_BOT_TOKEN"),
		AppID:       os.Getenv("DISCORD_APP_ID"),
		CmdID:       os.Getenv("DISCORD_CMD_ID"),
		CmdHash:     os.Getenv("DISCORD_CMD_HASH"),
		CacheBucket: os.Getenv("GOLFSCORE_CACHE_BUCKET"),
		LogLevel:    os.Getenv("GOLFSCORE_LOG_LEVEL"),
		ListenAddr:  os.Getenv("GOLFSCORE_LISTEN_ADDR"),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	if cfg.Token == "" {
		return config{}, fmt.Errorf("DISCORD_BOT_TOKEN is not set")
	}
	if cfg.AppID == "" {
		return config{}, fmt.Errorf("DISCORD_APP_ID is not set")
	}
	pubKeyBytes, err := hex.DecodeString(os.Getenv("DISCORD_PUBLIC_KEY"))
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		return config{}, fmt.Errorf("DISCORD_PUBLIC_KEY is not a valid ed25519 key")
	}
	cfg.PublicKey = ed25519.PublicKey(pubKeyBytes)

	return cfg, nil
}

type server struct {
	pubKey    ed25519.PublicKey
	handlers  map[TopLevelCommand]CmdHandler
	verifyReq func(r *http.Request, key ed25519.PublicKey) bool
}

func newServer(pubKey ed25519.PublicKey, b *bot) *server {
	return &server{
		pubKey: pubKey,
		handlers: map[TopLevelCommand]CmdHandler{
			GolfCmd: b.golfCmdHandler,
		},
		verifyReq: discordgo.VerifyInteraction,
	}
}

func (s *server) interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !s.verifyReq(r, s.pubKey) {
		log.Warnf("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Errorf("discordbot.int: failed to unmarshal interaction: err:%v body:%s",
			err, body)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		name := inter.ApplicationCommandData().Name
		hdlr, ok := s.handlers[TopLevelCommand(name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'", name),
				Flags:   discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.Warnf("discordbot.int: unimplemented interaction type %v", inter.Type)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("discordbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		log.Errorf("discordbot.int: failed to write resp: err:%v", err)
	}
}

// cmdHash identifies a command definition so registration is only pushed
// when it changes.
func cmdHash(cmd *discordgo.ApplicationCommand) string {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		log.Fatalf("discordbot.reg: failed to marshal cmd: %v", err)
	}
	hash := sha256.Sum256(cmdJson)
	return hex.EncodeToString(hash[:])
}

func registerSlashCommands(client *discordgo.Session, cfg config) {
	golfCmd := golfCommand()

	if cfg.CmdID == "" {
		cmd, err := client.ApplicationCommandCreate(cfg.AppID, "", golfCmd)
		if err != nil {
			log.Errorf("discordbot.reg: failed to register %v: %v", golfCmd.Name,
				err)
			return
		}

		log.Infof("discordbot.reg: registered %v(cmdID:%v); set DISCORD_CMD_ID and DISCORD_CMD_HASH=%v",
			cmd.Name, cmd.ID, cmdHash(golfCmd))
		return
	}

	hash := cmdHash(golfCmd)
	if hash == cfg.CmdHash {
		return
	}
	cmd, err := client.ApplicationCommandEdit(cfg.AppID, "", cfg.CmdID, golfCmd)
	if err != nil {
		log.Errorf("discordbot.reg: failed to update %v: %v", golfCmd.Name, err)
		return
	}

	log.Infof("discordbot.reg: updated %v(cmdID:%v); please update DISCORD_CMD_HASH to %v",
		cmd.Name, cmd.ID, hash)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("discordbot.main: %v", err)
	}
	internal.SetupLogging(cfg.LogLevel)

	client, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Fatalf("discordbot.main: failed to initialize discord client: %v", err)
	}
	go registerSlashCommands(client, cfg)

	ctx := context.Background()
	b := newBot(internal.NewCachedHttpClient(internal.NewCache(ctx, cfg.CacheBucket),
		internal.ScorecardMaxAge))
	srv := newServer(cfg.PublicKey, b)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Infof("discordbot.main: starting server on %v%v", hostname, cfg.ListenAddr)

	http.HandleFunc("/DiscordBot/Interaction", srv.interactionHandler)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Infof("discordbot.main: exiting")
}
